package godigen

import (
	"go.uber.org/zap"
)

// variant holds the steps in which root components and subcomponents differ.
type variant interface {
	// addBuilderClass nests the component's builder type.
	addBuilderClass(b *implementationBuilder, builder *TypeSpec)

	// addFactoryMethods adds the methods that create the component.
	addFactoryMethods(b *implementationBuilder) error

	// addInterfaceMethods implements the component's entry points.
	addInterfaceMethods(b *implementationBuilder) error

	// addCancelParentStatement may append a statement notifying the parent to
	// the cancellation listener before it is added.
	addCancelParentStatement(b *implementationBuilder, listener *MethodSpec)
}

// stage is one named step of a build.
type stage struct {
	phase string
	run   func() error
}

// implementationBuilder fills one Implementation. It is used for a single
// build; a component that must be regenerated needs a new builder and a new
// Implementation.
type implementationBuilder struct {
	factory     *Factory
	graph       *BindingGraph
	impl        *Implementation
	expressions BindingExpressions
	builder     *BuilderImplementation
	variant     variant
	logger      *zap.Logger
}

func newImplementationBuilder(
	factory *Factory,
	graph *BindingGraph,
	impl *Implementation,
	expressions BindingExpressions,
	builder *BuilderImplementation,
	v variant,
) *implementationBuilder {
	return &implementationBuilder{
		factory:     factory,
		graph:       graph,
		impl:        impl,
		expressions: expressions,
		builder:     builder,
		variant:     v,
		logger:      factory.logger.With(zap.Stringer("implementation", impl.Name())),
	}
}

// build runs every synthesis stage in order and returns the finished
// implementation. Calling it again for the same Implementation fails.
func (b *implementationBuilder) build() (*Implementation, error) {
	if err := b.impl.beginBuild(); err != nil {
		return nil, err
	}

	b.setSupertype()
	if b.builder != nil && b.builder.Type != nil {
		b.variant.addBuilderClass(b, b.builder.Type)
	}

	for _, name := range b.graph.Component.InheritedMethods {
		b.impl.ClaimMethodName(name)
	}

	stages := []stage{
		{"factory-methods", func() error { return b.variant.addFactoryMethods(b) }},
		{"interface-methods", func() error { return b.variant.addInterfaceMethods(b) }},
		{"child-components", b.addChildComponents},
		{"constructor", b.addConstructor},
	}
	if b.graph.Component.Kind.IsProducer() {
		stages = append(stages, stage{"cancellation-listener", b.addCancellationListenerImplementation})
	}

	for _, s := range stages {
		b.logger.Debug("synthesis stage", zap.String("phase", s.phase))
		if err := s.run(); err != nil {
			return nil, BuildError{Component: b.impl.Name(), Phase: s.phase, Cause: err}
		}
	}

	b.impl.markDone()
	b.logger.Debug("component implementation built",
		zap.Int("methods", len(b.impl.AllMethods())),
		zap.Int("children", len(b.impl.Children())),
	)
	return b.impl, nil
}

// setSupertype makes the generated type extend its base implementation, or
// implement the user's component type when there is none.
func (b *implementationBuilder) setSupertype() {
	if superclass, ok := b.impl.SuperclassImplementation(); ok {
		b.impl.AddSuperclass(superclass.Name())
	} else {
		b.impl.AddSupertype(b.graph.Component.TypeName)
	}
}

// addInterfaceMethods implements one method per distinct entry point
// signature. An entry point may be declared by several supertypes.
func (b *implementationBuilder) addInterfaceMethods() error {
	for _, methods := range groupBySignature(b.graph.Component.EntryPoints) {
		anyOneMethod := methods[0]
		spec, err := b.expressions.ComponentMethod(anyOneMethod)
		if err != nil {
			return err
		}

		modifiableType, err := b.expressions.RegisterComponentMethodIfModifiable(anyOneMethod, spec)
		if err != nil {
			return err
		}

		if modifiableType.HasBaseImplementation() {
			if err := b.impl.AddMethod(KindComponentMethod, spec); err != nil {
				return err
			}
		}
	}
	return nil
}

// groupBySignature groups methods by structural signature, keeping the order
// in which each signature first appears.
func groupBySignature(methods []*ComponentMethod) [][]*ComponentMethod {
	index := make(map[MethodSignature]int)
	var groups [][]*ComponentMethod
	for _, m := range methods {
		sig := m.Signature()
		i, ok := index[sig]
		if !ok {
			i = len(groups)
			index[sig] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups
}

func (b *implementationBuilder) addChildComponents() error {
	for _, subgraph := range b.graph.Subgraphs {
		child, err := b.buildChildImplementation(subgraph)
		if err != nil {
			return err
		}
		b.impl.addChild(subgraph.Component, child)
	}
	return nil
}

func (b *implementationBuilder) buildChildImplementation(childGraph *BindingGraph) (*Implementation, error) {
	var (
		child *Implementation
		err   error
	)
	if b.factory.compiler.AheadOfTimeSubcomponents {
		child, err = b.abstractInnerSubcomponent(childGraph.Component)
	} else {
		child, err = b.concreteSubcomponent(childGraph.Component)
	}
	if err != nil {
		return nil, err
	}

	childBuilder, err := b.factory.builders.Create(child, childGraph)
	if err != nil {
		return nil, BuildError{Component: child.Name(), Phase: "create-builder", Cause: err}
	}
	childExpressions := b.expressions.ForChildComponent(childGraph, child, childBuilder)

	return newSubcomponentBuilder(b.factory, b, childGraph, child, childExpressions, childBuilder).build()
}

// childSuperclassImplementation returns the base implementation a child
// implementation extends in ahead-of-time mode.
func (b *implementationBuilder) childSuperclassImplementation(child *ComponentDescriptor) (*Implementation, error) {
	// If the current component has a superclass implementation, that
	// superclass has to contain the child's base implementation.
	if superclass, ok := b.impl.SuperclassImplementation(); ok {
		childSuperclass, ok := superclass.ChildImplementation(child)
		if !ok {
			return nil, ConsistencyError{
				Child:    child.TypeName,
				Ancestor: superclass.Name(),
				Current:  b.impl.Name(),
			}
		}
		return childSuperclass, nil
	}

	// Otherwise the current component is top-level, so the child's base
	// implementation is recreated from a graph truncated at the child.
	if b.factory.resolver == nil {
		return nil, IllegalStateError{Component: child.TypeName, Operation: "resolve", Cause: ErrResolverRequired}
	}
	truncated, err := b.factory.resolver.Resolve(child)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("rebuilding base implementation from truncated graph", zap.Stringer("child", child.TypeName))
	return b.factory.CreateImplementation(truncated)
}

// abstractInnerSubcomponent creates an inner implementation extending the
// child's base implementation.
func (b *implementationBuilder) abstractInnerSubcomponent(child *ComponentDescriptor) (*Implementation, error) {
	superclass, err := b.childSuperclassImplementation(child)
	if err != nil {
		return nil, err
	}
	modifiers := Public | Final
	if b.impl.IsAbstract() {
		modifiers = Public | Abstract
	}
	return newImplementation(
		child,
		b.impl.Name().Nested(b.impl.names.get(child)),
		Member,
		b.impl,
		superclass,
		b.impl.names,
		modifiers,
	)
}

// concreteSubcomponent creates a private inner implementation of the child
// that implements the user's type directly.
func (b *implementationBuilder) concreteSubcomponent(child *ComponentDescriptor) (*Implementation, error) {
	return newImplementation(
		child,
		b.impl.Name().Nested(b.impl.names.get(child)),
		Member,
		b.impl,
		nil, // superclass
		b.impl.names,
		Private|Final,
	)
}
