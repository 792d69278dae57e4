// Package config loads godigen settings from godigen.yaml, GODIGEN_
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/render"
)

// Config represents the godigen configuration
type Config struct {
	AheadOfTimeSubcomponents bool   `mapstructure:"ahead_of_time_subcomponents"`
	NamePrefix               string `mapstructure:"name_prefix"`

	// Format is the output format: text, dot or json.
	Format string `mapstructure:"format"`

	// Output is the file written to; empty means standard output.
	Output string `mapstructure:"output"`

	Verbose bool `mapstructure:"verbose"`
}

// CompilerOptions returns the options passed to the synthesis factory.
func (c *Config) CompilerOptions() godigen.CompilerOptions {
	return godigen.CompilerOptions{
		AheadOfTimeSubcomponents: c.AheadOfTimeSubcomponents,
		NamePrefix:               c.NamePrefix,
	}
}

// Keys of the configuration, shared by the config file, the environment and
// flags.
const (
	KeyAheadOfTime = "ahead_of_time_subcomponents"
	KeyNamePrefix  = "name_prefix"
	KeyFormat      = "format"
	KeyOutput      = "output"
	KeyVerbose     = "verbose"
)

// Loader reads configuration. The zero value is not usable; use NewLoader.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with defaults applied.
func NewLoader() *Loader {
	v := viper.New()

	// Set defaults
	v.SetDefault(KeyAheadOfTime, false)
	v.SetDefault(KeyNamePrefix, godigen.DefaultNamePrefix)
	v.SetDefault(KeyFormat, string(render.Text))
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyVerbose, false)

	// Enable environment variable support
	v.SetEnvPrefix("GODIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlags makes the flags override the config file and environment. Flags
// are matched by name, with dashes in flag names standing for underscores in
// keys.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyAheadOfTime: "ahead-of-time",
		KeyNamePrefix:  "name-prefix",
		KeyFormat:      "format",
		KeyOutput:      "output",
		KeyVerbose:     "verbose",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads path, or godigen.yaml from the working directory when path is
// empty. A missing default config file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("godigen")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	format, err := render.ParseFormat(config.Format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	config.Format = string(format)

	if strings.ContainsAny(config.NamePrefix, ". /") {
		return fmt.Errorf("invalid name_prefix %q: must be a simple identifier", config.NamePrefix)
	}
	return nil
}
