package expressions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/expressions"
	"github.com/junioryono/godigen/internal/testutil"
)

func synthesize(t *testing.T, g *godigen.BindingGraph, opts godigen.CompilerOptions, extra ...godigen.Option) *godigen.Implementation {
	t.Helper()
	impl, err := newFactory(opts, extra...).CreateImplementation(g)
	require.NoError(t, err)
	return impl
}

func newFactory(opts godigen.CompilerOptions, extra ...godigen.Option) *godigen.Factory {
	options := append([]godigen.Option{
		godigen.WithCompilerOptions(opts),
		godigen.WithBuilders(expressions.Builders{}),
	}, extra...)
	return godigen.NewFactory(expressions.NewFactory(opts), options...)
}

func initializations(t *testing.T, impl *godigen.Implementation) []string {
	t.Helper()
	var out []string
	for _, m := range impl.Methods(godigen.KindInitializeMethod) {
		out = append(out, testutil.Statements(m)...)
	}
	return out
}

func TestExpressions_InitializesDependenciesFirst(t *testing.T) {
	g := testutil.NewGraph("App", godigen.Component).
		WithEntryPoint("service", "Service").
		WithBinding("Service", "Repo").
		WithBinding("Repo", "Config").
		WithBinding("Config").
		WithBinding("Unused").
		Build()

	impl := synthesize(t, g, godigen.CompilerOptions{})

	assert.Equal(t, []string{
		"this.configProvider = Config_Factory.create()",
		"this.repoProvider = Repo_Factory.create(configProvider)",
		"this.serviceProvider = Service_Factory.create(repoProvider)",
	}, initializations(t, impl))
	testutil.AssertStatements(t, []string{"return serviceProvider.get()"}, testutil.RequireMethod(t, impl, "service"))
	testutil.AssertStatements(t, []string{"initialize(builder)"}, testutil.RequireConstructor(t, impl))
}

func TestExpressions_SharedDependencyInitializedOnce(t *testing.T) {
	g := testutil.NewGraph("App", godigen.Component).
		WithEntryPoint("a", "A").
		WithEntryPoint("b", "B").
		WithBinding("A", "Shared").
		WithBinding("B", "Shared").
		WithBinding("Shared").
		Build()

	impl := synthesize(t, g, godigen.CompilerOptions{})

	assert.Equal(t, []string{
		"this.sharedProvider = Shared_Factory.create()",
		"this.aProvider = A_Factory.create(sharedProvider)",
		"this.bProvider = B_Factory.create(sharedProvider)",
	}, initializations(t, impl))
}

func TestExpressions_FieldNames(t *testing.T) {
	other := godigen.TypeName{Package: "example.com/other", Name: "Client"}
	g := testutil.NewGraph("App", godigen.Component).Build()
	g.Bindings = []*godigen.Binding{
		{Key: testutil.Key("Client")},
		{Key: godigen.NewKey(other)},
		{Key: godigen.Key{Type: testutil.Type("Client"), Qualifier: "Primary"}},
	}
	for i, b := range g.Bindings {
		g.Component.EntryPoints = append(g.Component.EntryPoints, &godigen.ComponentMethod{
			Name:    []string{"client", "otherClient", "primaryClient"}[i],
			Returns: b.Key.Type,
			Request: &godigen.BindingRequest{Key: b.Key},
		})
	}

	impl := synthesize(t, g, godigen.CompilerOptions{})

	assert.Equal(t, []string{
		"this.clientProvider = Client_Factory.create()",
		"this.clientProvider2 = Client_Factory.create()",
		"this.primaryClientProvider = Client_Factory.create()",
	}, initializations(t, impl))
	testutil.AssertStatements(t, []string{"return primaryClientProvider.get()"}, testutil.RequireMethod(t, impl, "primaryClient"))
}

func TestExpressions_ProductionBindingsAreCancellable(t *testing.T) {
	g := testutil.NewGraph("App", godigen.ProductionComponent).
		WithEntryPoint("response", "Response").
		WithProduction("Response", "Request").
		WithBinding("Request").
		Build()

	impl := synthesize(t, g, godigen.CompilerOptions{})

	assert.Equal(t, []string{
		"this.requestProvider = Request_Factory.create()",
		"this.responseProducer = Response_Producer.create(requestProvider)",
	}, initializations(t, impl))
	assert.Equal(t, []godigen.Key{testutil.Key("Response")}, impl.CancellableProducerKeys())
	testutil.AssertStatements(t, []string{
		"producers.Cancel(responseProducer, mayInterruptIfRunning)",
	}, testutil.RequireMethod(t, impl, godigen.CancellationListenerMethodName))
}

func TestExpressions_ChildUsesParentBindings(t *testing.T) {
	child := testutil.NewGraph("Session", godigen.Subcomponent).
		WithEntryPoint("handler", "Handler").
		WithBinding("Handler", "Repo").
		WithFactoryMethod("session").
		Build()
	g := testutil.NewGraph("App", godigen.Component).
		WithBinding("Repo").
		WithSubcomponent(child).
		Build()

	impl := synthesize(t, g, godigen.CompilerOptions{})

	session := testutil.RequireChild(t, impl, "SessionImpl")
	assert.Equal(t, []string{
		"this.handlerProvider = Handler_Factory.create(GodigenApp.this.repoProvider)",
	}, initializations(t, session))
	assert.Equal(t, []string{"this.repoProvider = Repo_Factory.create()"}, initializations(t, impl))
	testutil.AssertStatements(t, []string{"return handlerProvider.get()"}, testutil.RequireMethod(t, session, "handler"))
}

func TestExpressions_MissingBinding(t *testing.T) {
	g := testutil.NewGraph("App", godigen.Component).
		WithEntryPoint("ghost", "Ghost").
		Build()

	_, err := newFactory(godigen.CompilerOptions{}).CreateImplementation(g)

	require.Error(t, err)
	assert.ErrorIs(t, err, expressions.ErrMissingBinding)
	var missing expressions.MissingBindingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, testutil.Key("Ghost"), missing.Key)
	assert.Contains(t, err.Error(), "is not bound in example.com/app.App or any of its ancestors")
}

func TestExpressions_EntryPointWithoutRequest(t *testing.T) {
	g := testutil.NewGraph("App", godigen.Component).Build()
	g.Component.EntryPoints = []*godigen.ComponentMethod{{Name: "broken", Returns: testutil.Type("X")}}

	_, err := newFactory(godigen.CompilerOptions{}).CreateImplementation(g)

	assert.ErrorContains(t, err, "component method broken has no binding request")
}

func aheadOfTimeSession() *godigen.BindingGraph {
	return testutil.NewGraph("Session", godigen.Subcomponent).
		WithEntryPoint("user", "User").
		WithEntryPoint("clock", "Clock").
		WithEntryPoint("handler", "Handler").
		WithBinding("User").
		WithModifiableBinding("Clock").
		WithBinding("Handler", "Repo").
		WithFactoryMethod("session").
		Build()
}

func TestExpressions_AheadOfTimeBase(t *testing.T) {
	g := aheadOfTimeSession()
	g.FactoryMethod = nil

	impl := synthesize(t, g, godigen.CompilerOptions{AheadOfTimeSubcomponents: true})

	assert.True(t, impl.IsAbstract())
	assert.Equal(t, []string{"user", "clock"}, testutil.MethodNames(impl.Methods(godigen.KindComponentMethod)))
	testutil.AssertNoMethod(t, impl, "handler")

	var types []string
	for _, m := range impl.ModifiableBindingMethods() {
		types = append(types, m.Method.Name+":"+m.Type.String())
	}
	assert.Equal(t, []string{"clock:modifiable", "handler:deferred"}, types)

	handler := impl.ModifiableBindingMethods()[1].Method
	assert.True(t, handler.Modifiers.Has(godigen.Abstract))
	assert.Empty(t, handler.Body)
}

func TestExpressions_AheadOfTimeCompletion(t *testing.T) {
	session := aheadOfTimeSession()
	g := testutil.NewGraph("App", godigen.Component).
		WithBinding("Repo").
		WithSubcomponent(session).
		Build()
	resolver := godigen.GraphResolverFunc(func(*godigen.ComponentDescriptor) (*godigen.BindingGraph, error) {
		truncated := *session
		truncated.FactoryMethod = nil
		return &truncated, nil
	})

	impl := synthesize(t, g, godigen.CompilerOptions{AheadOfTimeSubcomponents: true}, godigen.WithResolver(resolver))

	child := testutil.RequireChild(t, impl, "SessionImpl")
	completed := child.Methods(godigen.KindModifiableBindingMethod)
	require.Equal(t, []string{"handler"}, testutil.MethodNames(completed))

	handler := completed[0]
	assert.False(t, handler.Modifiers.Has(godigen.Abstract))
	testutil.AssertStatements(t, []string{"return handlerProvider.get()"}, handler)
	assert.Equal(t, []string{
		"this.handlerProvider = Handler_Factory.create(GodigenApp.this.repoProvider)",
	}, initializations(t, child))

	remaining := child.ModifiableBindingMethods()
	require.Len(t, remaining, 1)
	assert.Equal(t, "clock", remaining[0].Method.Name)
	assert.Equal(t, godigen.BindingModifiable, remaining[0].Type)
}

func TestExpressions_AheadOfTimeReusesBaseFields(t *testing.T) {
	session := testutil.NewGraph("Session", godigen.Subcomponent).
		WithEntryPoint("token", "Token").
		WithEntryPoint("handler", "Handler").
		WithModifiableBinding("Token", "Clock").
		WithBinding("Clock").
		WithBinding("Handler", "Clock", "Repo").
		WithFactoryMethod("session").
		Build()
	g := testutil.NewGraph("App", godigen.Component).
		WithBinding("Repo").
		WithSubcomponent(session).
		Build()
	resolver := godigen.GraphResolverFunc(func(*godigen.ComponentDescriptor) (*godigen.BindingGraph, error) {
		truncated := *session
		truncated.FactoryMethod = nil
		return &truncated, nil
	})

	impl := synthesize(t, g, godigen.CompilerOptions{AheadOfTimeSubcomponents: true}, godigen.WithResolver(resolver))

	child := testutil.RequireChild(t, impl, "SessionImpl")
	base, ok := child.SuperclassImplementation()
	require.True(t, ok)

	assert.Equal(t, []string{
		"this.clockProvider = Clock_Factory.create()",
		"this.tokenProvider = Token_Factory.create(clockProvider)",
	}, initializations(t, base))
	assert.Equal(t, []string{
		"this.handlerProvider = Handler_Factory.create(clockProvider, GodigenApp.this.repoProvider)",
	}, initializations(t, child))
	assert.Equal(t, map[godigen.Key]string{testutil.Key("Handler"): "handlerProvider"}, child.Fields())

	field, ok := child.Field(testutil.Key("Clock"))
	require.True(t, ok)
	assert.Equal(t, "clockProvider", field)

	assert.Equal(t, []string{"handler"}, testutil.MethodNames(child.Methods(godigen.KindModifiableBindingMethod)))
	testutil.AssertNoMethod(t, child, "token")
	assert.Len(t, child.Methods(godigen.KindInitializeMethod), 1)

	remaining := child.ModifiableBindingMethods()
	require.Len(t, remaining, 1)
	assert.Equal(t, "token", remaining[0].Method.Name)
}

func TestExpressions_FieldsAndDependencyExpression(t *testing.T) {
	g := testutil.NewGraph("App", godigen.Component).
		WithBinding("Repo").
		Build()
	var created *expressions.Expressions
	factory := expressions.NewFactory(godigen.CompilerOptions{})
	exprsFactory := expressionsFactoryFunc(func(g *godigen.BindingGraph, impl *godigen.Implementation, b *godigen.BuilderImplementation) godigen.BindingExpressions {
		created = factory.Create(g, impl, b).(*expressions.Expressions)
		return created
	})

	impl, err := godigen.NewFactory(exprsFactory, godigen.WithBuilders(expressions.Builders{})).CreateImplementation(g)
	require.NoError(t, err)
	assert.Empty(t, created.Fields())

	expr, err := created.DependencyExpression(godigen.BindingRequest{Key: testutil.Key("Repo"), Framework: godigen.Provider}, impl.Name())
	assert.ErrorIs(t, err, godigen.ErrInitializationsFinalized)
	assert.Empty(t, expr)
}

type expressionsFactoryFunc func(*godigen.BindingGraph, *godigen.Implementation, *godigen.BuilderImplementation) godigen.BindingExpressions

func (f expressionsFactoryFunc) Create(g *godigen.BindingGraph, impl *godigen.Implementation, b *godigen.BuilderImplementation) godigen.BindingExpressions {
	return f(g, impl, b)
}
