package godigen

// GraphResolver resolves the binding graph of a component from its descriptor.
// Synthesis only uses it to rebuild the base implementation of a subcomponent
// from a graph truncated at that subcomponent.
type GraphResolver interface {
	Resolve(component *ComponentDescriptor) (*BindingGraph, error)
}

// BindingExpressions translates bindings of one component into code. As a side
// effect it may add initialization statements and cancellable producer keys to
// the implementation it was created for.
type BindingExpressions interface {
	// DependencyExpression returns an expression evaluating request, as seen
	// from code in the type named requestingClass.
	DependencyExpression(request BindingRequest, requestingClass TypeName) (CodeBlock, error)

	// ComponentMethod returns the implementation of an entry point method.
	ComponentMethod(method *ComponentMethod) (*MethodSpec, error)

	// RegisterComponentMethodIfModifiable classifies the binding behind method
	// and registers spec as a modifiable binding method when a later stage may
	// change it.
	RegisterComponentMethodIfModifiable(method *ComponentMethod, spec *MethodSpec) (ModifiableBindingType, error)

	// ModifiableBindingMethod returns the completed implementation of a
	// modifiable binding method when this stage has enough information to
	// implement it.
	ModifiableBindingMethod(method ModifiableBindingMethod) (ModifiableBindingMethod, bool, error)

	// ForChildComponent returns the expressions for a child component.
	ForChildComponent(graph *BindingGraph, child *Implementation, builder *BuilderImplementation) BindingExpressions
}

// ExpressionsFactory creates the BindingExpressions for a top-level graph.
type ExpressionsFactory interface {
	Create(graph *BindingGraph, impl *Implementation, builder *BuilderImplementation) BindingExpressions
}

// BuilderImplementation is a generated builder for a component.
type BuilderImplementation struct {
	Name TypeName
	Type *TypeSpec
}

// BuilderFactory creates the builder for a component implementation. It
// returns nil when the component has no builder.
type BuilderFactory interface {
	Create(impl *Implementation, graph *BindingGraph) (*BuilderImplementation, error)
}

// BuilderFactoryFunc adapts a function to BuilderFactory.
type BuilderFactoryFunc func(impl *Implementation, graph *BindingGraph) (*BuilderImplementation, error)

// Create calls f.
func (f BuilderFactoryFunc) Create(impl *Implementation, graph *BindingGraph) (*BuilderImplementation, error) {
	return f(impl, graph)
}

// GraphResolverFunc adapts a function to GraphResolver.
type GraphResolverFunc func(component *ComponentDescriptor) (*BindingGraph, error)

// Resolve calls f.
func (f GraphResolverFunc) Resolve(component *ComponentDescriptor) (*BindingGraph, error) {
	return f(component)
}

type noBuilders struct{}

func (noBuilders) Create(*Implementation, *BindingGraph) (*BuilderImplementation, error) {
	return nil, nil
}
