package godigen

import "go.uber.org/zap"

// StatementsPerMethod is the largest number of statements a synthesized
// initialize or cancellation method holds before the statements are split
// across several methods.
const StatementsPerMethod = 100

// CompilerOptions are the settings that change what synthesis generates.
type CompilerOptions struct {
	// AheadOfTimeSubcomponents generates subcomponents as abstract base
	// implementations that later stages extend.
	AheadOfTimeSubcomponents bool `mapstructure:"ahead_of_time_subcomponents" json:"aheadOfTimeSubcomponents"`

	// NamePrefix is prepended to generated top-level type names.
	NamePrefix string `mapstructure:"name_prefix" json:"namePrefix"`
}

// Option configures a Factory.
type Option interface {
	apply(*factoryOptions)
}

// factoryOptions holds factory configuration.
type factoryOptions struct {
	compiler CompilerOptions
	resolver GraphResolver
	builders BuilderFactory
	logger   *zap.Logger
}

// optionFunc adapts a function to Option.
type optionFunc func(*factoryOptions)

func (f optionFunc) apply(opts *factoryOptions) {
	f(opts)
}

// WithCompilerOptions replaces all compiler options at once.
func WithCompilerOptions(compiler CompilerOptions) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.compiler = compiler
	})
}

// WithAheadOfTimeSubcomponents enables or disables ahead-of-time subcomponents.
func WithAheadOfTimeSubcomponents(enabled bool) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.compiler.AheadOfTimeSubcomponents = enabled
	})
}

// WithNamePrefix sets the prefix of generated top-level type names.
func WithNamePrefix(prefix string) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.compiler.NamePrefix = prefix
	})
}

// WithResolver sets the resolver used to rebuild base implementations from
// truncated graphs. Without one, ahead-of-time builds of top-level components
// with subcomponents fail.
func WithResolver(resolver GraphResolver) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.resolver = resolver
	})
}

// WithBuilders sets the factory of component builders.
func WithBuilders(builders BuilderFactory) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.builders = builders
	})
}

// WithLogger sets the logger synthesis reports its progress to.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *factoryOptions) {
		opts.logger = logger
	})
}
