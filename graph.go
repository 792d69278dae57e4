package godigen

// BindingKind distinguishes synchronous bindings from asynchronous ones.
type BindingKind int

const (
	// Provision bindings produce their value synchronously.
	Provision BindingKind = iota

	// Production bindings produce their value asynchronously and can be cancelled.
	Production
)

// String returns the string representation of the BindingKind.
func (k BindingKind) String() string {
	if k == Production {
		return "Production"
	}
	return "Provision"
}

// Binding is a resolved binding owned by a component.
type Binding struct {
	Key          Key
	Kind         BindingKind
	Dependencies []Key

	// Modifiable marks bindings that a later ahead-of-time stage may still
	// change, such as multibindings.
	Modifiable bool
}

// ComponentRequirement is an external input a component needs, such as a
// module instance or a bound instance.
type ComponentRequirement struct {
	Type TypeName

	// RequiresPassedInstance is true when the requirement cannot be
	// instantiated automatically and the caller has to pass an instance.
	RequiresPassedInstance bool
}

// BindingGraph is the resolved dependency graph of one component. It is never
// modified by synthesis and may be shared freely.
type BindingGraph struct {
	Component    *ComponentDescriptor
	Bindings     []*Binding
	Requirements []ComponentRequirement
	Subgraphs    []*BindingGraph

	// FactoryMethod is the method on the parent component that creates this
	// subcomponent, nil when the subcomponent is created through a builder or
	// when the graph is top-level.
	FactoryMethod *ComponentMethod
}

// Binding returns the binding for key owned by this graph.
func (g *BindingGraph) Binding(key Key) (*Binding, bool) {
	for _, b := range g.Bindings {
		if b.Key == key {
			return b, true
		}
	}
	return nil, false
}

// FactoryMethodParameters returns the parameters of the graph's factory method.
func (g *BindingGraph) FactoryMethodParameters() []ParameterSpec {
	if g.FactoryMethod == nil {
		return nil
	}
	return g.FactoryMethod.Parameters
}

// CanInstantiateAllRequirements reports whether every requirement of the graph
// can be created without an instance passed in by the caller.
func (g *BindingGraph) CanInstantiateAllRequirements() bool {
	for _, r := range g.Requirements {
		if r.RequiresPassedInstance {
			return false
		}
	}
	return true
}

// Walk calls fn for g and every nested subgraph, parents before children.
func (g *BindingGraph) Walk(fn func(*BindingGraph)) {
	fn(g)
	for _, sub := range g.Subgraphs {
		sub.Walk(fn)
	}
}
