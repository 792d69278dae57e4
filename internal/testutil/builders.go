package testutil

import (
	"github.com/junioryono/godigen"
)

// GraphBuilder provides a fluent interface for building test binding graphs
type GraphBuilder struct {
	graph *godigen.BindingGraph
}

// NewGraph creates a GraphBuilder for a component named name in TestPackage
func NewGraph(name string, kind godigen.ComponentKind) *GraphBuilder {
	return &GraphBuilder{
		graph: &godigen.BindingGraph{
			Component: &godigen.ComponentDescriptor{
				TypeName: Type(name),
				Kind:     kind,
			},
		},
	}
}

// WithEntryPoint adds an entry point declared by the component itself
func (b *GraphBuilder) WithEntryPoint(name, returns string) *GraphBuilder {
	return b.WithEntryPointFrom(b.graph.Component.TypeName.Name, name, returns)
}

// WithEntryPointFrom adds an entry point declared by the supertype declaring
func (b *GraphBuilder) WithEntryPointFrom(declaring, name, returns string) *GraphBuilder {
	b.graph.Component.EntryPoints = append(b.graph.Component.EntryPoints, &godigen.ComponentMethod{
		Name:          name,
		DeclaringType: Type(declaring),
		Returns:       Type(returns),
		Request:       &godigen.BindingRequest{Key: Key(returns)},
	})
	return b
}

// WithBinding adds a provision binding
func (b *GraphBuilder) WithBinding(name string, deps ...string) *GraphBuilder {
	return b.withBinding(name, godigen.Provision, false, deps)
}

// WithProduction adds a production binding
func (b *GraphBuilder) WithProduction(name string, deps ...string) *GraphBuilder {
	return b.withBinding(name, godigen.Production, false, deps)
}

// WithModifiableBinding adds a provision binding a later stage may change
func (b *GraphBuilder) WithModifiableBinding(name string, deps ...string) *GraphBuilder {
	return b.withBinding(name, godigen.Provision, true, deps)
}

func (b *GraphBuilder) withBinding(name string, kind godigen.BindingKind, modifiable bool, deps []string) *GraphBuilder {
	b.graph.Bindings = append(b.graph.Bindings, &godigen.Binding{
		Key:          Key(name),
		Kind:         kind,
		Dependencies: Keys(deps...),
		Modifiable:   modifiable,
	})
	return b
}

// WithRequirement adds a requirement; passed marks it as needing a caller instance
func (b *GraphBuilder) WithRequirement(name string, passed bool) *GraphBuilder {
	b.graph.Requirements = append(b.graph.Requirements, godigen.ComponentRequirement{
		Type:                   Type(name),
		RequiresPassedInstance: passed,
	})
	return b
}

// WithPolicy sets the cancellation policy
func (b *GraphBuilder) WithPolicy(p godigen.Propagation) *GraphBuilder {
	b.graph.Component.CancellationPolicy = &godigen.CancellationPolicy{FromSubcomponents: p}
	return b
}

// WithBuilderSpec declares a builder contract
func (b *GraphBuilder) WithBuilderSpec(definition, buildMethod string) *GraphBuilder {
	b.graph.Component.BuilderSpec = &godigen.BuilderSpec{
		DefinitionType: Type(definition),
		BuildMethod:    buildMethod,
	}
	return b
}

// WithInheritedMethods adds method names declared on the component type
func (b *GraphBuilder) WithInheritedMethods(names ...string) *GraphBuilder {
	b.graph.Component.InheritedMethods = append(b.graph.Component.InheritedMethods, names...)
	return b
}

// WithFactoryMethod sets the parent's method creating this subcomponent. Its
// declaring type is filled in by WithSubcomponent.
func (b *GraphBuilder) WithFactoryMethod(name string, params ...godigen.ParameterSpec) *GraphBuilder {
	b.graph.FactoryMethod = &godigen.ComponentMethod{
		Name:       name,
		Parameters: params,
		Returns:    b.graph.Component.TypeName,
	}
	return b
}

// WithSubcomponent nests a child graph
func (b *GraphBuilder) WithSubcomponent(child *godigen.BindingGraph) *GraphBuilder {
	if child.FactoryMethod != nil && child.FactoryMethod.DeclaringType.IsZero() {
		child.FactoryMethod.DeclaringType = b.graph.Component.TypeName
	}
	b.graph.Subgraphs = append(b.graph.Subgraphs, child)
	return b
}

// Build returns the built graph
func (b *GraphBuilder) Build() *godigen.BindingGraph {
	return b.graph
}

// NestedBuilders returns a BuilderFactory creating a nested Builder for
// top-level components and no builder for subcomponents.
func NestedBuilders() godigen.BuilderFactory {
	return godigen.BuilderFactoryFunc(func(impl *godigen.Implementation, g *godigen.BindingGraph) (*godigen.BuilderImplementation, error) {
		if !g.Component.Kind.IsTopLevel() {
			return nil, nil
		}
		name := impl.Name().Nested("Builder")
		return &godigen.BuilderImplementation{
			Name: name,
			Type: &godigen.TypeSpec{Name: name, Modifiers: godigen.Public | godigen.Static | godigen.Final},
		}, nil
	})
}
