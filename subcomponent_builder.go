package godigen

// subcomponentVariant builds subcomponents: nested inside a parent build, or
// standalone as abstract base implementations when parent is nil.
type subcomponentVariant struct {
	parent *implementationBuilder
}

func newSubcomponentBuilder(
	factory *Factory,
	parent *implementationBuilder,
	graph *BindingGraph,
	impl *Implementation,
	expressions BindingExpressions,
	builder *BuilderImplementation,
) *implementationBuilder {
	return newImplementationBuilder(factory, graph, impl, expressions, builder, subcomponentVariant{parent: parent})
}

// addBuilderClass nests the builder next to the subcomponent, inside the
// parent's implementation.
func (v subcomponentVariant) addBuilderClass(b *implementationBuilder, builder *TypeSpec) {
	if v.parent != nil {
		v.parent.impl.AddType(TypeSubcomponent, builder)
		return
	}
	b.impl.AddType(TypeSubcomponent, builder)
}

// addFactoryMethods implements the parent's factory method for this
// subcomponent. Abstract implementations are never instantiated, and
// subcomponents created through a builder have no factory method.
func (v subcomponentVariant) addFactoryMethods(b *implementationBuilder) error {
	if b.impl.IsAbstract() || b.graph.FactoryMethod == nil {
		return nil
	}
	if v.parent == nil {
		return IllegalStateError{Component: b.impl.Name(), Operation: "add-factory-methods", Cause: ErrParentRequired}
	}

	factoryMethod := b.graph.FactoryMethod
	params := b.graph.FactoryMethodParameters()
	method := &MethodSpec{
		Name:        factoryMethod.Name,
		Modifiers:   Public,
		Annotations: []string{"Override"},
		Parameters:  params,
		Returns:     factoryMethod.Returns,
		Body:        []Statement{ReturnNew{Type: b.impl.Name(), Args: parameterNames(params)}},
	}

	return v.parent.impl.AddMethod(KindComponentMethod, method)
}

// addInterfaceMethods implements the entry points, or, when extending a base
// implementation, completes the modifiable binding methods that the larger
// graph now allows to be implemented.
func (subcomponentVariant) addInterfaceMethods(b *implementationBuilder) error {
	if _, ok := b.impl.SuperclassImplementation(); !ok {
		return b.addInterfaceMethods()
	}

	for _, m := range b.impl.ModifiableBindingMethods() {
		completed, ok, err := b.expressions.ModifiableBindingMethod(m)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := b.impl.AddImplementedModifiableBindingMethod(completed); err != nil {
			return err
		}
	}
	return nil
}

// addCancelParentStatement cancels the parent as well when the parent's
// cancellation policy propagates from subcomponents.
func (v subcomponentVariant) addCancelParentStatement(_ *implementationBuilder, listener *MethodSpec) {
	if v.parent == nil || !v.parent.impl.Descriptor().PropagatesCancellationFromSubcomponents() {
		return
	}
	listener.AddStatement(EnclosingMethodCall{
		Enclosing: v.parent.impl.Name(),
		Method:    CancellationListenerMethodName,
		Args:      []string{mayInterruptIfRunning},
	})
}
