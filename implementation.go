package godigen

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// MethodKind groups the methods of an implementation. Methods are emitted in
// kind order, then in insertion order.
type MethodKind int

const (
	// KindConstructor is the constructor of the implementation.
	KindConstructor MethodKind = iota

	// KindBuilderMethod is a static method creating the component or its builder.
	KindBuilderMethod

	// KindComponentMethod implements an entry point or a subcomponent factory method.
	KindComponentMethod

	// KindModifiableBindingMethod completes a method left open by a base implementation.
	KindModifiableBindingMethod

	// KindInitializeMethod holds one partition of the initialization statements.
	KindInitializeMethod

	// KindCancellationListenerMethod is the cancellation listener or one of its helpers.
	KindCancellationListenerMethod
)

// MethodKinds lists every MethodKind in emission order.
var MethodKinds = []MethodKind{
	KindConstructor,
	KindBuilderMethod,
	KindComponentMethod,
	KindModifiableBindingMethod,
	KindInitializeMethod,
	KindCancellationListenerMethod,
}

// String returns the string representation of the MethodKind.
func (k MethodKind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindBuilderMethod:
		return "builder-method"
	case KindComponentMethod:
		return "component-method"
	case KindModifiableBindingMethod:
		return "modifiable-binding-method"
	case KindInitializeMethod:
		return "initialize-method"
	case KindCancellationListenerMethod:
		return "cancellation-listener-method"
	default:
		return "unknown"
	}
}

// TypeKind groups the nested types of an implementation.
type TypeKind int

const (
	// TypeComponentBuilder is the builder of a top-level component.
	TypeComponentBuilder TypeKind = iota

	// TypeSubcomponent is a type declared for a subcomponent, such as its builder.
	TypeSubcomponent
)

// TypeKinds lists every TypeKind in emission order.
var TypeKinds = []TypeKind{TypeComponentBuilder, TypeSubcomponent}

// String returns the string representation of the TypeKind.
func (k TypeKind) String() string {
	if k == TypeSubcomponent {
		return "subcomponent"
	}
	return "component-builder"
}

// NestingKind says whether an implementation is a top-level type or a member
// of its parent's implementation.
type NestingKind int

const (
	// TopLevel implementations are declared directly in their package.
	TopLevel NestingKind = iota

	// Member implementations are nested inside their parent's implementation.
	Member
)

// ModifiableBindingType classifies how a binding behind a component method
// relates to ahead-of-time stages.
type ModifiableBindingType int

const (
	// BindingComplete is a binding that is fully known; the method is
	// implemented where it is first generated.
	BindingComplete ModifiableBindingType = iota

	// BindingModifiable needs a base implementation now that a later stage
	// may override.
	BindingModifiable

	// BindingDeferred cannot be implemented yet; a later stage implements it.
	BindingDeferred
)

// String returns the string representation of the ModifiableBindingType.
func (t ModifiableBindingType) String() string {
	switch t {
	case BindingComplete:
		return "complete"
	case BindingModifiable:
		return "modifiable"
	case BindingDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// HasBaseImplementation reports whether a method of this type is implemented
// in the implementation currently being generated.
func (t ModifiableBindingType) HasBaseImplementation() bool {
	return t != BindingDeferred
}

// IsModifiable reports whether a later stage may still change the binding.
func (t ModifiableBindingType) IsModifiable() bool {
	return t != BindingComplete
}

// ModifiableBindingMethod is a method whose binding a later ahead-of-time
// stage may complete or replace.
type ModifiableBindingMethod struct {
	Type    ModifiableBindingType
	Request BindingRequest
	Method  *MethodSpec

	// Finalized is set once no further stage may override the method.
	Finalized bool
}

type buildState int

const (
	statePending buildState = iota
	stateBuilding
	stateDone
)

type childImplementation struct {
	descriptor *ComponentDescriptor
	impl       *Implementation
}

// methodSlot identifies a method for duplicate detection.
type methodSlot struct {
	name   string
	params string
}

// Implementation is the generated implementation of one component. A build
// fills it exactly once; the finished tree is handed to an emitter.
type Implementation struct {
	id         uuid.UUID
	descriptor *ComponentDescriptor
	name       TypeName
	nesting    NestingKind
	modifiers  Modifiers
	parent     *Implementation

	// superclass is not owned by this implementation; it belongs to whichever
	// build produced it.
	superclass *Implementation

	names          *subcomponentNames
	supertypes     []TypeName
	superclassName TypeName

	claimedNames map[string]struct{}
	slots        map[methodSlot]struct{}
	methods      map[MethodKind][]*MethodSpec
	types        map[TypeKind][]*TypeSpec

	initializations      []Statement
	initializationsFinal bool

	cancellableKeys   []Key
	cancellableKeySet map[Key]struct{}

	fields     map[Key]string
	fieldNames map[string]struct{}

	children     []childImplementation
	childrenByTy map[TypeName]int

	modifiableMethods []*ModifiableBindingMethod

	constructorParameters    []ParameterSpec
	constructorParametersSet bool

	state buildState
}

func newImplementation(
	descriptor *ComponentDescriptor,
	name TypeName,
	nesting NestingKind,
	parent *Implementation,
	superclass *Implementation,
	names *subcomponentNames,
	modifiers Modifiers,
) (*Implementation, error) {
	if superclass != nil && !superclass.IsDone() {
		return nil, IllegalStateError{Component: name, Operation: "create", Cause: ErrSuperclassNotBuilt}
	}
	return &Implementation{
		id:                uuid.New(),
		descriptor:        descriptor,
		name:              name,
		nesting:           nesting,
		modifiers:         modifiers,
		parent:            parent,
		superclass:        superclass,
		names:             names,
		claimedNames:      make(map[string]struct{}),
		slots:             make(map[methodSlot]struct{}),
		methods:           make(map[MethodKind][]*MethodSpec),
		types:             make(map[TypeKind][]*TypeSpec),
		cancellableKeySet: make(map[Key]struct{}),
		fields:            make(map[Key]string),
		fieldNames:        make(map[string]struct{}),
		childrenByTy:      make(map[TypeName]int),
	}, nil
}

// ID returns the handle identifying this implementation in rendered output.
func (c *Implementation) ID() uuid.UUID {
	return c.id
}

// Name returns the generated type name.
func (c *Implementation) Name() TypeName {
	return c.name
}

// Descriptor returns the descriptor of the component being implemented.
func (c *Implementation) Descriptor() *ComponentDescriptor {
	return c.descriptor
}

// Modifiers returns the modifiers of the generated type.
func (c *Implementation) Modifiers() Modifiers {
	return c.modifiers
}

// IsAbstract reports whether the generated type is abstract.
func (c *Implementation) IsAbstract() bool {
	return c.modifiers.Has(Abstract)
}

// IsNested reports whether the generated type is nested in its parent's.
func (c *Implementation) IsNested() bool {
	return c.nesting == Member
}

// Parent returns the implementation this one is nested in.
func (c *Implementation) Parent() (*Implementation, bool) {
	return c.parent, c.parent != nil
}

// Depth returns the nesting depth; top-level implementations have depth 0.
func (c *Implementation) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// SuperclassImplementation returns the previously built base implementation
// this implementation extends.
func (c *Implementation) SuperclassImplementation() (*Implementation, bool) {
	return c.superclass, c.superclass != nil
}

// IsDone reports whether the implementation has been fully built.
func (c *Implementation) IsDone() bool {
	return c.state == stateDone
}

func (c *Implementation) beginBuild() error {
	if c.state != statePending {
		return IllegalStateError{Component: c.name, Operation: "build", Cause: ErrAlreadyBuilt}
	}
	c.state = stateBuilding
	return nil
}

func (c *Implementation) markDone() {
	c.state = stateDone
}

// AddSupertype records that the generated type implements t.
func (c *Implementation) AddSupertype(t TypeName) {
	if !slices.Contains(c.supertypes, t) {
		c.supertypes = append(c.supertypes, t)
	}
}

// AddSuperclass records that the generated type extends t.
func (c *Implementation) AddSuperclass(t TypeName) {
	c.superclassName = t
}

// Superclass returns the type the generated type extends, if any.
func (c *Implementation) Superclass() (TypeName, bool) {
	return c.superclassName, !c.superclassName.IsZero()
}

// Supertypes returns the types the generated type implements.
func (c *Implementation) Supertypes() []TypeName {
	return slices.Clone(c.supertypes)
}

// ClaimMethodName reserves name so no synthesized helper uses it.
func (c *Implementation) ClaimMethodName(name string) {
	c.claimedNames[name] = struct{}{}
}

// IsMethodNameClaimed reports whether name has been reserved.
func (c *Implementation) IsMethodNameClaimed(name string) bool {
	_, ok := c.claimedNames[name]
	return ok
}

// UniqueMethodName returns base, or base followed by the smallest counter
// from 2 upward that is not yet claimed, and claims the result.
func (c *Implementation) UniqueMethodName(base string) string {
	name := base
	for i := 2; c.IsMethodNameClaimed(name); i++ {
		name = base + strconv.Itoa(i)
	}
	c.ClaimMethodName(name)
	return name
}

// AddMethod adds a synthesized method. Adding a second method with the same
// name and parameter types fails.
func (c *Implementation) AddMethod(kind MethodKind, method *MethodSpec) error {
	slot := methodSlot{name: method.Name, params: method.Signature().Parameters}
	if _, exists := c.slots[slot]; exists {
		return DuplicateMethodError{Component: c.name, Method: method.String()}
	}
	c.slots[slot] = struct{}{}
	if !method.IsConstructor() {
		c.ClaimMethodName(method.Name)
	}
	c.methods[kind] = append(c.methods[kind], method)
	return nil
}

// Methods returns the methods of kind in insertion order.
func (c *Implementation) Methods(kind MethodKind) []*MethodSpec {
	return slices.Clone(c.methods[kind])
}

// AllMethods returns every method in emission order.
func (c *Implementation) AllMethods() []*MethodSpec {
	var all []*MethodSpec
	for _, kind := range MethodKinds {
		all = append(all, c.methods[kind]...)
	}
	return all
}

// Method returns the first method named name.
func (c *Implementation) Method(name string) (*MethodSpec, bool) {
	for _, m := range c.AllMethods() {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// AddType adds a nested type.
func (c *Implementation) AddType(kind TypeKind, spec *TypeSpec) {
	c.types[kind] = append(c.types[kind], spec)
}

// Types returns the nested types of kind in insertion order.
func (c *Implementation) Types(kind TypeKind) []*TypeSpec {
	return slices.Clone(c.types[kind])
}

// AddInitialization appends a statement that runs when the component is
// constructed. Statements are kept in the order they were added.
func (c *Implementation) AddInitialization(code CodeBlock) error {
	if c.initializationsFinal {
		return IllegalStateError{Component: c.name, Operation: "add-initialization", Cause: ErrInitializationsFinalized}
	}
	c.initializations = append(c.initializations, Fragment{Code: code})
	return nil
}

// Initializations returns the initialization statements added so far.
func (c *Implementation) Initializations() []Statement {
	return slices.Clone(c.initializations)
}

func (c *Implementation) finalizeInitializations() []Statement {
	c.initializationsFinal = true
	return c.Initializations()
}

// AddCancellableProducerKey registers the asynchronous computation for key as
// one that must be cancelled with the component. Registering a key twice has
// no effect.
func (c *Implementation) AddCancellableProducerKey(key Key) {
	if _, ok := c.cancellableKeySet[key]; ok {
		return
	}
	c.cancellableKeySet[key] = struct{}{}
	c.cancellableKeys = append(c.cancellableKeys, key)
}

// CancellableProducerKeys returns, in registration order, the keys registered
// on this implementation that no superclass implementation registered.
func (c *Implementation) CancellableProducerKeys() []Key {
	inherited := make(map[Key]struct{})
	for s := c.superclass; s != nil; s = s.superclass {
		for k := range s.cancellableKeySet {
			inherited[k] = struct{}{}
		}
	}
	keys := make([]Key, 0, len(c.cancellableKeys))
	for _, k := range c.cancellableKeys {
		if _, ok := inherited[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Implementation) addChild(descriptor *ComponentDescriptor, child *Implementation) {
	c.childrenByTy[descriptor.TypeName] = len(c.children)
	c.children = append(c.children, childImplementation{descriptor: descriptor, impl: child})
}

// ChildImplementation returns the implementation built for the child component
// described by descriptor.
func (c *Implementation) ChildImplementation(descriptor *ComponentDescriptor) (*Implementation, bool) {
	i, ok := c.childrenByTy[descriptor.TypeName]
	if !ok {
		return nil, false
	}
	return c.children[i].impl, true
}

// Children returns the child implementations in the order they were built.
func (c *Implementation) Children() []*Implementation {
	out := make([]*Implementation, len(c.children))
	for i, child := range c.children {
		out[i] = child.impl
	}
	return out
}

func (c *Implementation) setConstructorParameters(params []ParameterSpec) error {
	if c.constructorParametersSet {
		return IllegalStateError{Component: c.name, Operation: "set-constructor-parameters", Cause: ErrConstructorParametersSet}
	}
	c.constructorParameters = slices.Clone(params)
	c.constructorParametersSet = true
	return nil
}

// ConstructorParameters returns the constructor parameters, empty until the
// constructor has been synthesized.
func (c *Implementation) ConstructorParameters() []ParameterSpec {
	return slices.Clone(c.constructorParameters)
}

// AddField records that the binding for key is held in the field name. Fields
// are visible to every implementation extending this one, so neither the key
// nor the name may already be used in the superclass chain.
func (c *Implementation) AddField(key Key, name string) error {
	if _, ok := c.Field(key); ok {
		return IllegalStateError{Component: c.name, Operation: "add-field " + key.String(), Cause: ErrDuplicateField}
	}
	if c.IsFieldNameClaimed(name) {
		return IllegalStateError{Component: c.name, Operation: "add-field " + name, Cause: ErrDuplicateField}
	}
	c.fields[key] = name
	c.fieldNames[name] = struct{}{}
	return nil
}

// Field returns the field holding key, declared here or inherited from the
// superclass chain.
func (c *Implementation) Field(key Key) (string, bool) {
	for impl := c; impl != nil; impl = impl.superclass {
		if name, ok := impl.fields[key]; ok {
			return name, true
		}
	}
	return "", false
}

// IsFieldNameClaimed reports whether name is a field here or in the
// superclass chain.
func (c *Implementation) IsFieldNameClaimed(name string) bool {
	for impl := c; impl != nil; impl = impl.superclass {
		if _, ok := impl.fieldNames[name]; ok {
			return true
		}
	}
	return false
}

// Fields returns the fields declared by this implementation, without the
// inherited ones.
func (c *Implementation) Fields() map[Key]string {
	return maps.Clone(c.fields)
}

// RegisterModifiableBindingMethod records a method a later stage may complete.
// Registering a request again replaces the earlier registration.
func (c *Implementation) RegisterModifiableBindingMethod(m ModifiableBindingMethod) {
	for i, existing := range c.modifiableMethods {
		if existing.Request == m.Request {
			c.modifiableMethods[i] = &m
			return
		}
	}
	c.modifiableMethods = append(c.modifiableMethods, &m)
}

// ModifiableBindingMethods returns the modifiable binding methods that are not
// finalized, from the superclass chain and this implementation. A request
// registered here hides the same request registered by an ancestor.
func (c *Implementation) ModifiableBindingMethods() []ModifiableBindingMethod {
	var chain []*Implementation
	for impl := c; impl != nil; impl = impl.superclass {
		chain = append(chain, impl)
	}

	latest := make(map[BindingRequest]*ModifiableBindingMethod)
	var order []BindingRequest
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].modifiableMethods {
			if _, seen := latest[m.Request]; !seen {
				order = append(order, m.Request)
			}
			latest[m.Request] = m
		}
	}

	var out []ModifiableBindingMethod
	for _, req := range order {
		if m := latest[req]; !m.Finalized {
			out = append(out, *m)
		}
	}
	return out
}

// AddImplementedModifiableBindingMethod installs the completed implementation
// of a modifiable binding method and registers it on this implementation.
func (c *Implementation) AddImplementedModifiableBindingMethod(m ModifiableBindingMethod) error {
	if err := c.AddMethod(KindModifiableBindingMethod, m.Method); err != nil {
		return err
	}
	c.RegisterModifiableBindingMethod(m)
	return nil
}

// String returns a string representation of the implementation
func (c *Implementation) String() string {
	return fmt.Sprintf("Implementation{%s, %s}", c.name, c.modifiers)
}
