// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/wire-csv/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Statement struct {
		// SkipRows counts the leading records dropped before data rows:
		// the header plus the header-like rows bank exports carry.
		SkipRows  int    `mapstructure:"skip_rows" yaml:"skip_rows"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"statement" yaml:"statement"`

	Processing struct {
		Workers              int `mapstructure:"workers" yaml:"workers"`
		ConcurrencyThreshold int `mapstructure:"concurrency_threshold" yaml:"concurrency_threshold"`
	} `mapstructure:"processing" yaml:"processing"`

	Output struct {
		Suffix string `mapstructure:"suffix" yaml:"suffix"`
	} `mapstructure:"output" yaml:"output"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`

	Rules struct {
		// File optionally replaces the built-in decomposition rules.
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig loads configuration from defaults, the first config.yaml
// found in the search path, and WIRE_* environment variables.
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig is InitializeConfig with an explicit config file. An empty
// configFile searches $HOME/.wire-csv, .wire-csv and the working directory.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.wire-csv")
		v.AddConfigPath(".wire-csv")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("WIRE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("statement.skip_rows", 4)
	v.SetDefault("statement.delimiter", ",")

	v.SetDefault("processing.workers", 0)
	v.SetDefault("processing.concurrency_threshold", 100)

	v.SetDefault("output.suffix", "_processed")

	v.SetDefault("report.format", "table")

	v.SetDefault("rules.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if err := validation.IsValidDelimiter(config.CSV.Delimiter); err != nil {
		return fmt.Errorf("csv.delimiter: %w", err)
	}

	if err := validation.IsValidDelimiter(config.Statement.Delimiter); err != nil {
		return fmt.Errorf("statement.delimiter: %w", err)
	}

	if config.Statement.SkipRows < 0 {
		return fmt.Errorf("statement.skip_rows must not be negative, got: %d", config.Statement.SkipRows)
	}

	if config.Processing.Workers < 0 || config.Processing.Workers > 256 {
		return fmt.Errorf("processing.workers must be between 0 and 256, got: %d", config.Processing.Workers)
	}

	if config.Processing.ConcurrencyThreshold < 1 {
		return fmt.Errorf("processing.concurrency_threshold must be at least 1, got: %d", config.Processing.ConcurrencyThreshold)
	}

	if config.Output.Suffix == "" || strings.ContainsAny(config.Output.Suffix, `/\`) {
		return fmt.Errorf("output.suffix must be a non-empty file name fragment, got: %q", config.Output.Suffix)
	}

	switch config.Report.Format {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'table', 'yaml' or 'json')", config.Report.Format)
	}

	return nil
}

// CSVDelimiter returns the output delimiter as a rune.
func (c *Config) CSVDelimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// StatementDelimiter returns the input delimiter as a rune.
func (c *Config) StatementDelimiter() rune {
	return []rune(c.Statement.Delimiter)[0]
}
