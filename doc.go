// Package godigen synthesizes the implementation of dependency injection
// components from their resolved binding graphs.
//
// # Overview
//
// A component is a type that hands out a fixed set of objects and may contain
// nested subcomponents. Given the resolved BindingGraph of a component, a
// Factory builds an Implementation tree: one generated type per component and
// subcomponent, each with a constructor, initialize methods, entry point
// methods and, for production components, a cancellation listener.
//
// The package produces the tree only. Resolving graphs, turning bindings into
// expressions and writing source text are left to collaborators:
//   - GraphResolver resolves graphs truncated at a subcomponent
//   - BindingExpressions translates bindings into code
//   - BuilderFactory creates component builders
//
// # Basic Usage
//
//	factory := godigen.NewFactory(expressionsFactory,
//	    godigen.WithBuilders(builders),
//	    godigen.WithLogger(logger),
//	)
//
//	impl, err := factory.CreateImplementation(graph)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range impl.AllMethods() {
//	    fmt.Println(m)
//	}
//
// # Ahead-of-Time Subcomponents
//
// With WithAheadOfTimeSubcomponents enabled, a subcomponent graph can be built
// on its own into an abstract base implementation. Implementations built later
// extend it and only add what the larger graph makes available: modifiable
// binding methods are completed and only newly registered producers are
// cancelled. A GraphResolver is needed so that base implementations of
// children can be rebuilt from truncated graphs.
//
//	factory := godigen.NewFactory(expressionsFactory,
//	    godigen.WithAheadOfTimeSubcomponents(true),
//	    godigen.WithResolver(resolver),
//	)
//
// # Statement Partitioning
//
// Initialization statements are split into initialize, initialize2, ...
// methods of at most StatementsPerMethod statements. Cancellation statements
// stay inline in onProducerFutureCancelled below that bound, and are split
// into cancelProducers helpers otherwise.
//
// # Error Handling
//
// Every failure aborts the build. Errors wrap sentinel values and carry context:
//
//	impl, err := factory.CreateImplementation(graph)
//	if errors.Is(err, godigen.ErrAheadOfTimeRequired) {
//	    // an abstract subcomponent was built without ahead-of-time mode
//	}
//
//	var buildErr godigen.BuildError
//	if errors.As(err, &buildErr) {
//	    fmt.Println("failed during", buildErr.Phase)
//	}
//
// # Dependency Injection
//
// NewContainer and ResolveFactory assemble a Factory with go.uber.org/dig:
//
//	c, err := godigen.NewContainer(
//	    func() godigen.ExpressionsFactory { return exprs },
//	    func() godigen.GraphResolver { return resolver },
//	)
//	factory, err := godigen.ResolveFactory(c)
package godigen
