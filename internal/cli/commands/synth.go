package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/config"
	"github.com/junioryono/godigen/internal/expressions"
	"github.com/junioryono/godigen/internal/loader"
	"github.com/junioryono/godigen/internal/render"
)

// NewSynthCommand creates the synth command
func NewSynthCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "synth <graph.yaml>",
		Short: "Synthesize the implementation of a component graph",
		Long: `Load a binding graph document and synthesize the implementation of its
component and all subcomponents.

Settings are read from godigen.yaml (or --config), GODIGEN_ environment
variables and flags, in increasing order of precedence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaderCfg := config.NewLoader()
			if err := loaderCfg.BindFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loaderCfg.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			impl, err := synthesize(args[0], cfg, logger)
			if err != nil {
				return err
			}

			format, err := render.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Output != "" {
				f, err := os.Create(cfg.Output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := render.Write(out, impl, format); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			if cfg.Output != "" {
				successColor := color.New(color.FgGreen)
				successColor.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s to %s\n", impl.Name(), cfg.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a config file (default ./godigen.yaml)")
	cmd.Flags().Bool("ahead-of-time", false, "Generate subcomponents as ahead-of-time base implementations")
	cmd.Flags().String("name-prefix", godigen.DefaultNamePrefix, "Prefix of generated top-level type names")
	cmd.Flags().StringP("format", "f", string(render.Text), "Output format: text, dot or json")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolP("verbose", "v", false, "Log every synthesis stage")

	return cmd
}

// synthesize loads the graph at path and builds its implementation with a
// factory assembled by the dig container.
func synthesize(path string, cfg *config.Config, logger *zap.Logger) (*godigen.Implementation, error) {
	g, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	opts := cfg.CompilerOptions()
	c, err := godigen.NewContainer(
		func() godigen.ExpressionsFactory { return expressions.NewFactory(opts) },
		func() godigen.GraphResolver { return loader.NewResolver(g) },
		func() godigen.BuilderFactory { return expressions.Builders{} },
		func() *godigen.CompilerOptions { return &opts },
		func() *zap.Logger { return logger },
	)
	if err != nil {
		return nil, err
	}
	factory, err := godigen.ResolveFactory(c)
	if err != nil {
		return nil, err
	}

	logger.Info("synthesizing component",
		zap.String("graph", path),
		zap.Stringer("component", g.Component.TypeName),
		zap.Bool("aheadOfTime", opts.AheadOfTimeSubcomponents),
	)
	return factory.CreateImplementation(g)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
