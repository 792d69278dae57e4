package godigen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImplementation(t *testing.T, name string, superclass *Implementation, modifiers Modifiers) *Implementation {
	t.Helper()
	descriptor := &ComponentDescriptor{TypeName: TypeName{Package: "example.com/app", Name: name}}
	impl, err := newImplementation(descriptor, TypeName{Package: "example.com/app", Name: "Godigen" + name}, TopLevel, nil, superclass, nil, modifiers)
	require.NoError(t, err)
	return impl
}

func builtImplementation(t *testing.T, name string, superclass *Implementation) *Implementation {
	t.Helper()
	impl := testImplementation(t, name, superclass, Public|Abstract)
	require.NoError(t, impl.beginBuild())
	impl.markDone()
	return impl
}

func TestImplementation_BuildsOnce(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)

	require.NoError(t, impl.beginBuild())
	assert.False(t, impl.IsDone())

	err := impl.beginBuild()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyBuilt)
	assert.True(t, IsIllegalState(err))

	impl.markDone()
	assert.True(t, impl.IsDone())
	assert.ErrorIs(t, impl.beginBuild(), ErrAlreadyBuilt)
}

// stubExpressions implements every entry point with an empty body.
type stubExpressions struct{}

func (stubExpressions) DependencyExpression(BindingRequest, TypeName) (CodeBlock, error) {
	return "", nil
}

func (stubExpressions) ComponentMethod(m *ComponentMethod) (*MethodSpec, error) {
	return &MethodSpec{Name: m.Name, Modifiers: Public, Returns: m.Returns}, nil
}

func (stubExpressions) RegisterComponentMethodIfModifiable(*ComponentMethod, *MethodSpec) (ModifiableBindingType, error) {
	return BindingComplete, nil
}

func (stubExpressions) ModifiableBindingMethod(ModifiableBindingMethod) (ModifiableBindingMethod, bool, error) {
	return ModifiableBindingMethod{}, false, nil
}

func (stubExpressions) ForChildComponent(*BindingGraph, *Implementation, *BuilderImplementation) BindingExpressions {
	return stubExpressions{}
}

func TestImplementationBuilder_BuildsOnce(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)
	g := &BindingGraph{Component: &ComponentDescriptor{
		TypeName: TypeName{Package: "example.com/app", Name: "App"},
		Kind:     Component,
		EntryPoints: []*ComponentMethod{
			{Name: "service", Returns: TypeName{Package: "example.com/app", Name: "Service"}},
		},
	}}
	builderName := impl.Name().Nested("Builder")
	builder := &BuilderImplementation{Name: builderName, Type: &TypeSpec{Name: builderName}}
	factory := NewFactory(nil)

	built, err := newRootBuilder(factory, g, impl, stubExpressions{}, builder).build()
	require.NoError(t, err)
	assert.Same(t, impl, built)
	assert.True(t, impl.IsDone())

	methods := impl.AllMethods()
	types := impl.Types(TypeComponentBuilder)
	supertypes := impl.Supertypes()
	require.Len(t, methods, 4)

	_, err = newRootBuilder(factory, g, impl, stubExpressions{}, builder).build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyBuilt)
	assert.True(t, IsIllegalState(err))

	assert.Equal(t, methods, impl.AllMethods())
	assert.Equal(t, types, impl.Types(TypeComponentBuilder))
	assert.Equal(t, supertypes, impl.Supertypes())
	assert.True(t, impl.IsDone())
}

func TestImplementation_Fields(t *testing.T) {
	app := TypeName{Package: "example.com/app", Name: "App"}
	clock := NewKey(TypeName{Package: "example.com/app", Name: "Clock"})
	token := NewKey(TypeName{Package: "example.com/app", Name: "Token"})

	base := testImplementation(t, "Base", nil, Public|Abstract)
	require.NoError(t, base.AddField(clock, "clockProvider"))
	require.NoError(t, base.beginBuild())
	base.markDone()

	child, err := newImplementation(&ComponentDescriptor{TypeName: app}, TypeName{Name: "ChildImpl"}, Member, nil, base, nil, Public|Final)
	require.NoError(t, err)

	field, ok := child.Field(clock)
	require.True(t, ok)
	assert.Equal(t, "clockProvider", field)
	assert.True(t, child.IsFieldNameClaimed("clockProvider"))
	assert.Empty(t, child.Fields())

	assert.ErrorIs(t, child.AddField(clock, "clockProvider2"), ErrDuplicateField)
	assert.ErrorIs(t, child.AddField(token, "clockProvider"), ErrDuplicateField)

	require.NoError(t, child.AddField(token, "tokenProvider"))
	assert.Equal(t, map[Key]string{token: "tokenProvider"}, child.Fields())
	_, ok = base.Field(token)
	assert.False(t, ok)
}

func TestImplementation_SuperclassMustBeBuilt(t *testing.T) {
	unbuilt := testImplementation(t, "Base", nil, Public|Abstract)
	descriptor := &ComponentDescriptor{TypeName: TypeName{Name: "Child"}}

	_, err := newImplementation(descriptor, TypeName{Name: "ChildImpl"}, Member, nil, unbuilt, nil, Public|Final)

	assert.ErrorIs(t, err, ErrSuperclassNotBuilt)
	var illegal IllegalStateError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, "create", illegal.Operation)
}

func TestImplementation_ConstructorParametersSetOnce(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)
	params := []ParameterSpec{{Name: "builder", Type: TypeName{Name: "Builder"}}}

	require.NoError(t, impl.setConstructorParameters(params))
	params[0].Name = "mutated"
	assert.Equal(t, "builder", impl.ConstructorParameters()[0].Name)

	assert.ErrorIs(t, impl.setConstructorParameters(nil), ErrConstructorParametersSet)
}

func TestImplementation_UniqueMethodName(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)
	impl.ClaimMethodName("initialize")
	impl.ClaimMethodName("initialize3")

	assert.Equal(t, "initialize2", impl.UniqueMethodName("initialize"))
	assert.Equal(t, "initialize4", impl.UniqueMethodName("initialize"))
	assert.Equal(t, "cancelProducers", impl.UniqueMethodName("cancelProducers"))
	assert.True(t, impl.IsMethodNameClaimed("cancelProducers"))
	assert.False(t, impl.IsMethodNameClaimed("cancelProducers2"))
}

func TestImplementation_AddMethod(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)
	str := TypeName{Name: "String"}

	require.NoError(t, impl.AddMethod(KindComponentMethod, &MethodSpec{Name: "get"}))
	require.NoError(t, impl.AddMethod(KindComponentMethod, &MethodSpec{Name: "get", Parameters: []ParameterSpec{{Name: "s", Type: str}}}))
	assert.True(t, impl.IsMethodNameClaimed("get"))

	err := impl.AddMethod(KindInitializeMethod, &MethodSpec{Name: "get", Returns: str})
	assert.ErrorIs(t, err, ErrDuplicateMethod)

	require.NoError(t, impl.AddMethod(KindConstructor, &MethodSpec{}))
	assert.False(t, impl.IsMethodNameClaimed(""))
	assert.ErrorIs(t, impl.AddMethod(KindConstructor, &MethodSpec{}), ErrDuplicateMethod)

	require.NoError(t, impl.AddMethod(KindBuilderMethod, &MethodSpec{Name: "builder"}))
	var names []string
	for _, m := range impl.AllMethods() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"", "builder", "get", "get"}, names)
}

func TestImplementation_CancellableProducerKeys(t *testing.T) {
	a := Key{Type: TypeName{Name: "A"}}
	b := Key{Type: TypeName{Name: "B"}}
	c := Key{Type: TypeName{Name: "C"}}

	base := testImplementation(t, "Base", nil, Public|Abstract)
	base.AddCancellableProducerKey(a)
	require.NoError(t, base.beginBuild())
	base.markDone()

	child, err := newImplementation(&ComponentDescriptor{}, TypeName{Name: "Child"}, Member, nil, base, nil, Public|Final)
	require.NoError(t, err)
	child.AddCancellableProducerKey(c)
	child.AddCancellableProducerKey(a)
	child.AddCancellableProducerKey(b)
	child.AddCancellableProducerKey(c)

	assert.Equal(t, []Key{a}, base.CancellableProducerKeys())
	assert.Equal(t, []Key{c, b}, child.CancellableProducerKeys())
}

func TestImplementation_ModifiableBindingMethods(t *testing.T) {
	token := BindingRequest{Key: Key{Type: TypeName{Name: "Token"}}}
	clock := BindingRequest{Key: Key{Type: TypeName{Name: "Clock"}}}
	user := BindingRequest{Key: Key{Type: TypeName{Name: "User"}}}

	base := testImplementation(t, "Base", nil, Public|Abstract)
	base.RegisterModifiableBindingMethod(ModifiableBindingMethod{Type: BindingModifiable, Request: token, Method: &MethodSpec{Name: "token"}})
	base.RegisterModifiableBindingMethod(ModifiableBindingMethod{Type: BindingDeferred, Request: clock, Method: &MethodSpec{Name: "clock"}})
	require.NoError(t, base.beginBuild())
	base.markDone()

	child, err := newImplementation(&ComponentDescriptor{}, TypeName{Name: "Child"}, Member, nil, base, nil, Public|Final)
	require.NoError(t, err)
	require.NoError(t, child.AddImplementedModifiableBindingMethod(ModifiableBindingMethod{
		Type:      BindingComplete,
		Request:   token,
		Method:    &MethodSpec{Name: "token"},
		Finalized: true,
	}))
	child.RegisterModifiableBindingMethod(ModifiableBindingMethod{Type: BindingModifiable, Request: user, Method: &MethodSpec{Name: "user"}})
	child.RegisterModifiableBindingMethod(ModifiableBindingMethod{Type: BindingModifiable, Request: clock, Method: &MethodSpec{Name: "clock"}})

	var got []string
	for _, m := range child.ModifiableBindingMethods() {
		got = append(got, m.Method.Name+":"+m.Type.String())
	}
	assert.Equal(t, []string{"clock:modifiable", "user:modifiable"}, got)
	assert.Len(t, base.ModifiableBindingMethods(), 2)
	assert.Len(t, child.Methods(KindModifiableBindingMethod), 1)
}

func TestImplementation_Initializations(t *testing.T) {
	impl := testImplementation(t, "App", nil, Public|Final)
	require.NoError(t, impl.AddInitialization("a = 1"))
	require.NoError(t, impl.AddInitialization("b = 2"))

	statements := impl.finalizeInitializations()
	require.Len(t, statements, 2)
	assert.Equal(t, "a = 1", statements[0].String())

	err := impl.AddInitialization("c = 3")
	assert.ErrorIs(t, err, ErrInitializationsFinalized)
	assert.Len(t, impl.Initializations(), 2)
}

func TestImplementation_Depth(t *testing.T) {
	root := testImplementation(t, "App", nil, Public|Final)
	child, err := newImplementation(&ComponentDescriptor{}, root.Name().Nested("AImpl"), Member, root, nil, nil, Private|Final)
	require.NoError(t, err)
	grandchild, err := newImplementation(&ComponentDescriptor{}, child.Name().Nested("BImpl"), Member, child, nil, nil, Private|Final)
	require.NoError(t, err)

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 2, grandchild.Depth())
	parent, ok := grandchild.Parent()
	require.True(t, ok)
	assert.Same(t, child, parent)
	_, ok = root.Parent()
	assert.False(t, ok)
}

func TestGroupBySignature(t *testing.T) {
	service := TypeName{Name: "Service"}
	repo := TypeName{Name: "Repo"}
	methods := []*ComponentMethod{
		{Name: "service", DeclaringType: TypeName{Name: "App"}, Returns: service},
		{Name: "repo", DeclaringType: TypeName{Name: "App"}, Returns: repo},
		{Name: "service", DeclaringType: TypeName{Name: "Base"}, Returns: service},
		{Name: "service", DeclaringType: TypeName{Name: "Base"}, Returns: repo},
	}

	groups := groupBySignature(methods)

	require.Len(t, groups, 3)
	assert.Equal(t, []*ComponentMethod{methods[0], methods[2]}, groups[0])
	assert.Equal(t, []*ComponentMethod{methods[1]}, groups[1])
	assert.Equal(t, []*ComponentMethod{methods[3]}, groups[2])
}

func TestImplementation_Superclass(t *testing.T) {
	base := builtImplementation(t, "Base", nil)
	child := builtImplementation(t, "Child", base)

	superclass, ok := child.SuperclassImplementation()
	require.True(t, ok)
	assert.Same(t, base, superclass)
}
