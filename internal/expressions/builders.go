package expressions

import (
	"github.com/junioryono/godigen"
)

const defaultBuildMethod = "build"

// Builders creates component builders. Top-level components always get a
// nested Builder; subcomponents get one only when they declare a builder
// contract, and it is named after their implementation.
type Builders struct{}

var _ godigen.BuilderFactory = Builders{}

// Create returns the builder of impl, or nil when it has none.
func (Builders) Create(impl *godigen.Implementation, g *godigen.BindingGraph) (*godigen.BuilderImplementation, error) {
	component := g.Component
	if component.Kind.IsTopLevel() {
		return newBuilder(impl.Name().Nested("Builder"), impl, g), nil
	}
	if component.BuilderSpec == nil {
		return nil, nil
	}
	return newBuilder(impl.Name().Peer(impl.Name().Simple()+"Builder"), impl, g), nil
}

func newBuilder(name godigen.TypeName, impl *godigen.Implementation, g *godigen.BindingGraph) *godigen.BuilderImplementation {
	spec := &godigen.TypeSpec{
		Name:      name,
		Modifiers: godigen.Static | godigen.Final,
	}
	if impl.IsNested() {
		spec.Modifiers |= godigen.Private
	} else {
		spec.Modifiers |= godigen.Public
	}

	buildMethod := defaultBuildMethod
	if b := g.Component.BuilderSpec; b != nil {
		spec.Supertypes = append(spec.Supertypes, b.DefinitionType)
		if b.BuildMethod != "" {
			buildMethod = b.BuildMethod
		}
	}

	for _, r := range g.Requirements {
		param := lowerFirst(r.Type.Simple())
		spec.Methods = append(spec.Methods, &godigen.MethodSpec{
			Name:       param,
			Modifiers:  godigen.Public,
			Parameters: []godigen.ParameterSpec{{Name: param, Type: r.Type}},
			Returns:    name,
			Body: []godigen.Statement{
				godigen.Fragment{Code: godigen.CodeBlock("this." + param + " = Preconditions.checkNotNull(" + param + ")")},
				godigen.Fragment{Code: "return this"},
			},
		})
	}

	spec.Methods = append(spec.Methods, &godigen.MethodSpec{
		Name:      buildMethod,
		Modifiers: godigen.Public,
		Returns:   g.Component.TypeName,
		Body: []godigen.Statement{
			godigen.ReturnNew{Type: impl.Name(), Args: []string{"this"}},
		},
	})

	return &godigen.BuilderImplementation{Name: name, Type: spec}
}
