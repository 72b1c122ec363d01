// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/mood-journal/internal/config"
	"fjacquet/mood-journal/internal/container"
	"fjacquet/mood-journal/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig = config.Default()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "mood-journal",
		Short: "A journaling service that tags each entry with an emotion.",
		Long: `mood-journal stores short journal entries and tags each one with an emotion.
Entries are classified by a hosted text-classification model when an API token
is configured, and by a keyword heuristic otherwise.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to mood-journal!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
	}

	// ConfigFile is an explicit configuration file path
	ConfigFile string
	// LogLevel overrides log.level when set
	LogLevel string
	// LogFormat overrides log.format when set
	LogFormat string
)

// Init initializes the root command and all flags
func Init() {
	if Cmd.PersistentFlags().Lookup("config") != nil {
		return
	}
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.mood-journal, .mood-journal or .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text or json)")
}

// Setup loads .env and the configuration, applies flag overrides and
// configures Log.
func Setup() error {
	config.LoadEnv()

	var cfg *config.Config
	var err error
	if ConfigFile == "" {
		cfg, err = config.InitializeConfig()
	} else {
		cfg, err = config.Load(ConfigFile)
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
	if LogFormat != "" {
		if LogFormat != "text" && LogFormat != "json" {
			return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", LogFormat)
		}
		cfg.Log.Format = LogFormat
	}

	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)
	Log.WithField(logging.FieldOperation, "setup").Debug("Configuration loaded")
	return nil
}

// Logger returns Log behind the application's logging interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// NewContainer wires the application from AppConfig using Log.
func NewContainer(ctx context.Context, opts ...container.Option) (*container.Container, error) {
	opts = append([]container.Option{container.WithLogger(Logger())}, opts...)
	return container.NewContainer(ctx, AppConfig, opts...)
}
