// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/wire-csv/internal/config"
	"fjacquet/wire-csv/internal/container"
	"fjacquet/wire-csv/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "wire-csv",
		Short: "A CLI tool to split wire transfer descriptions into CSV columns.",
		Long: `wire-csv is a CLI tool that reads bank statement CSV exports and splits
the free-text description of each wire transfer into sender, receiver,
bank, reference and transaction ID columns.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to wire-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile overrides the config.yaml search path
	ConfigFile string

	// LogLevel overrides log.level from the configuration
	LogLevel string

	// AppConfig is the configuration loaded before any command runs
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Only validate the statement format")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.wire-csv, .wire-csv and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func initialize(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if ConfigFile == "" {
		cfg, err = config.InitializeConfig()
	} else {
		cfg, err = config.LoadConfig(ConfigFile)
	}
	if err != nil {
		return err
	}
	if LogLevel != "" {
		if _, err := logrus.ParseLevel(LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %s", LogLevel)
		}
		cfg.Log.Level = LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetLogger returns the configured logger
func GetLogger() logging.Logger {
	return Log
}

// GetContainer returns the application container, or nil before initialization
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before initialization
func GetConfig() *config.Config {
	return AppConfig
}
