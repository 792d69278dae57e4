package godigen

import (
	"slices"
)

const (
	builderParameterName = "builder"
	initializeMethodName = "initialize"
)

// addConstructor synthesizes the constructor. Initialization statements are
// split into private initialize methods of at most StatementsPerMethod
// statements each, called in order from the constructor.
func (b *implementationBuilder) addConstructor() error {
	params, err := b.constructorParameters()
	if err != nil {
		return err
	}

	modifiers := Private
	if b.impl.IsAbstract() {
		modifiers = Protected
	}
	constructor := &MethodSpec{
		Modifiers:  modifiers,
		Parameters: params,
	}
	if err := b.impl.setConstructorParameters(params); err != nil {
		return err
	}

	if superclass, ok := b.impl.SuperclassImplementation(); ok {
		constructor.AddStatement(SuperConstructorCall{
			Args: parameterNames(superclass.ConstructorParameters()),
		})
	}

	initializeParams := finalParameters(params)
	args := parameterNames(params)
	for partition := range slices.Chunk(b.impl.finalizeInitializations(), StatementsPerMethod) {
		name := b.impl.UniqueMethodName(initializeMethodName)
		initialize := &MethodSpec{
			Name:        name,
			Modifiers:   Private,
			Annotations: []string{`SuppressWarnings("unchecked")`},
			Parameters:  initializeParams,
			Body:        partition,
		}
		constructor.AddStatement(MethodCall{Method: name, Args: args})
		if err := b.impl.AddMethod(KindInitializeMethod, initialize); err != nil {
			return err
		}
	}

	return b.impl.AddMethod(KindConstructor, constructor)
}

// constructorParameters derives the constructor parameters: the builder if
// there is one, nothing for abstract inner implementations, the factory
// method's parameters, or nothing for abstract base implementations.
func (b *implementationBuilder) constructorParameters() ([]ParameterSpec, error) {
	switch {
	case b.builder != nil:
		return []ParameterSpec{{Name: builderParameterName, Type: b.builder.Name}}, nil
	case b.impl.IsAbstract() && b.impl.IsNested():
		// Abstract inner implementations do not implement module instance
		// bindings and need no factory method parameters.
		return nil, nil
	case b.graph.FactoryMethod != nil:
		return slices.Clone(b.graph.FactoryMethodParameters()), nil
	case b.impl.IsAbstract():
		return nil, nil
	default:
		return nil, InvariantError{
			Component: b.impl.Name(),
			Detail:    "deriving constructor parameters",
			Cause:     ErrNoConstructorSource,
		}
	}
}
