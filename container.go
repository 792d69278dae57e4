package godigen

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

// FactoryParams are the dependencies a Factory is assembled from when it is
// resolved from a dig container. Only the ExpressionsFactory is required.
type FactoryParams struct {
	dig.In

	Expressions ExpressionsFactory
	Resolver    GraphResolver    `optional:"true"`
	Builders    BuilderFactory   `optional:"true"`
	Logger      *zap.Logger      `optional:"true"`
	Options     *CompilerOptions `optional:"true"`
}

// NewFactoryFromParams creates a Factory from container-provided dependencies.
func NewFactoryFromParams(p FactoryParams) *Factory {
	opts := []Option{
		WithResolver(p.Resolver),
		WithBuilders(p.Builders),
		WithLogger(p.Logger),
	}
	if p.Options != nil {
		opts = append(opts, WithCompilerOptions(*p.Options))
	}
	return NewFactory(p.Expressions, opts...)
}

// NewContainer returns a dig container holding the given constructors and the
// Factory constructor.
//
// Example:
//
//	c, err := godigen.NewContainer(
//	    func() godigen.ExpressionsFactory { return expressions.NewFactory(opts) },
//	    func() *zap.Logger { return logger },
//	)
//	factory, err := godigen.ResolveFactory(c)
func NewContainer(constructors ...any) (*dig.Container, error) {
	c := dig.New()
	for _, constructor := range constructors {
		if err := c.Provide(constructor); err != nil {
			return nil, fmt.Errorf("provide %T: %w", constructor, err)
		}
	}
	if err := c.Provide(NewFactoryFromParams); err != nil {
		return nil, fmt.Errorf("provide factory: %w", err)
	}
	return c, nil
}

// ResolveFactory resolves the Factory from a container built by NewContainer.
func ResolveFactory(c *dig.Container) (*Factory, error) {
	var factory *Factory
	err := c.Invoke(func(f *Factory) {
		factory = f
	})
	if err != nil {
		return nil, fmt.Errorf("resolve factory: %w", err)
	}
	return factory, nil
}
