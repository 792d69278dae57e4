package godigen

const (
	builderMethodName      = "builder"
	createMethodName       = "create"
	defaultBuildMethodName = "build"
)

// rootVariant builds concrete top-level components.
type rootVariant struct{}

func newRootBuilder(
	factory *Factory,
	graph *BindingGraph,
	impl *Implementation,
	expressions BindingExpressions,
	builder *BuilderImplementation,
) *implementationBuilder {
	return newImplementationBuilder(factory, graph, impl, expressions, builder, rootVariant{})
}

func (rootVariant) addBuilderClass(b *implementationBuilder, builder *TypeSpec) {
	b.impl.AddType(TypeComponentBuilder, builder)
}

// addFactoryMethods adds the static builder() method, mirroring the user's
// builder type when one is declared, and create() when no requirement needs an
// instance passed in.
func (rootVariant) addFactoryMethods(b *implementationBuilder) error {
	if b.builder == nil {
		return IllegalStateError{Component: b.impl.Name(), Operation: "add-factory-methods", Cause: ErrBuilderRequired}
	}
	spec := b.graph.Component.BuilderSpec

	returns := b.builder.Name
	if spec != nil {
		returns = spec.DefinitionType
	}
	builderMethod := &MethodSpec{
		Name:      builderMethodName,
		Modifiers: Public | Static,
		Returns:   returns,
		Body:      []Statement{ReturnNew{Type: b.builder.Name}},
	}
	if err := b.impl.AddMethod(KindBuilderMethod, builderMethod); err != nil {
		return err
	}

	if !b.graph.CanInstantiateAllRequirements() {
		return nil
	}
	buildMethod := defaultBuildMethodName
	if spec != nil && spec.BuildMethod != "" {
		buildMethod = spec.BuildMethod
	}
	return b.impl.AddMethod(KindBuilderMethod, &MethodSpec{
		Name:      createMethodName,
		Modifiers: Public | Static,
		Returns:   b.graph.Component.TypeName,
		Body:      []Statement{ReturnBuild{Builder: b.builder.Name, BuildMethod: buildMethod}},
	})
}

func (rootVariant) addInterfaceMethods(b *implementationBuilder) error {
	return b.addInterfaceMethods()
}

// Root components have no parent to notify.
func (rootVariant) addCancelParentStatement(*implementationBuilder, *MethodSpec) {}
