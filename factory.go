package godigen

import (
	"go.uber.org/zap"
)

// Factory synthesizes component implementations from resolved binding graphs.
//
// A Factory holds no per-build state and can be reused for any number of
// graphs; every call produces a fresh implementation tree.
type Factory struct {
	compiler    CompilerOptions
	resolver    GraphResolver
	builders    BuilderFactory
	expressions ExpressionsFactory
	logger      *zap.Logger
}

// NewFactory creates a Factory that obtains binding expressions from expressions.
//
// Example:
//
//	factory := godigen.NewFactory(exprs,
//	    godigen.WithAheadOfTimeSubcomponents(true),
//	    godigen.WithResolver(resolver),
//	)
//	impl, err := factory.CreateImplementation(graph)
func NewFactory(expressions ExpressionsFactory, opts ...Option) *Factory {
	options := &factoryOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(options)
		}
	}

	if options.compiler.NamePrefix == "" {
		options.compiler.NamePrefix = DefaultNamePrefix
	}
	if options.builders == nil {
		options.builders = noBuilders{}
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	return &Factory{
		compiler:    options.compiler,
		resolver:    options.resolver,
		builders:    options.builders,
		expressions: expressions,
		logger:      options.logger.Named("godigen"),
	}
}

// CompilerOptions returns the options the factory generates with.
func (f *Factory) CompilerOptions() CompilerOptions {
	return f.compiler
}

// CreateImplementation returns a fully built top-level implementation of graph.
//
// Graphs of subcomponents produce abstract implementations, which is only
// allowed with ahead-of-time subcomponents enabled; otherwise an
// IllegalStateError wrapping ErrAheadOfTimeRequired is returned.
func (f *Factory) CreateImplementation(graph *BindingGraph) (*Implementation, error) {
	if graph == nil || graph.Component == nil {
		return nil, ErrGraphNil
	}

	impl, err := f.topLevelImplementation(ComponentName(f.compiler.NamePrefix, graph.Component.TypeName), graph)
	if err != nil {
		return nil, err
	}

	builder, err := f.builders.Create(impl, graph)
	if err != nil {
		return nil, BuildError{Component: impl.Name(), Phase: "create-builder", Cause: err}
	}
	expressions := f.expressions.Create(graph, impl, builder)

	f.logger.Debug("creating component implementation",
		zap.Stringer("component", graph.Component.TypeName),
		zap.Stringer("implementation", impl.Name()),
		zap.Bool("abstract", impl.IsAbstract()),
	)

	if impl.IsAbstract() {
		if !f.compiler.AheadOfTimeSubcomponents {
			return nil, IllegalStateError{
				Component: graph.Component.TypeName,
				Operation: "create",
				Cause:     ErrAheadOfTimeRequired,
			}
		}
		return newSubcomponentBuilder(f, nil, graph, impl, expressions, builder).build()
	}
	return newRootBuilder(f, graph, impl, expressions, builder).build()
}

// topLevelImplementation creates a root component or top-level abstract
// subcomponent implementation.
func (f *Factory) topLevelImplementation(name TypeName, graph *BindingGraph) (*Implementation, error) {
	modifiers := Public | Abstract
	if graph.Component.Kind.IsTopLevel() {
		modifiers = Public | Final
	}
	return newImplementation(
		graph.Component,
		name,
		TopLevel,
		nil, // parent
		nil, // superclass
		newSubcomponentNames(graph),
		modifiers,
	)
}
