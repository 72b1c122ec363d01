// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/mood-journal/internal/classifier"
	"fjacquet/mood-journal/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables mapped onto config keys,
// e.g. MOODJOURNAL_REMOTE_MODEL for remote.model.
const EnvPrefix = "MOODJOURNAL"

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RemoteConfig configures the hosted emotion model.
type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Model          string `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// DatabaseConfig locates the entries database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// FeedConfig shapes the public feed.
type FeedConfig struct {
	Limit         int `mapstructure:"limit" yaml:"limit"`
	SnippetLength int `mapstructure:"snippet_length" yaml:"snippet_length"`
}

// BatchConfig controls CSV imports.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Remote   RemoteConfig   `mapstructure:"remote" yaml:"remote"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Feed     FeedConfig     `mapstructure:"feed" yaml:"feed"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
// from the default locations.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration. An explicit configFile must exist; otherwise
// config.yaml is looked up in the standard locations and may be absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.mood-journal")
		v.AddConfigPath(".mood-journal")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed variables understood by earlier deployments
	bindings := map[string][]string{
		"remote.api_key": {EnvPrefix + "_REMOTE_API_KEY", "HUGGINGFACE_API_KEY"},
		"remote.model":   {EnvPrefix + "_REMOTE_MODEL", "HF_MODEL"},
		"database.path":  {EnvPrefix + "_DATABASE_PATH", "DB_PATH"},
		"server.port":    {EnvPrefix + "_SERVER_PORT", "PORT"},
		"log.level":      {EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
		"log.format":     {EnvPrefix + "_LOG_FORMAT", "LOG_FORMAT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("remote.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("remote.model", "j-hartmann/emotion-english-distilroberta-base")
	v.SetDefault("remote.timeout_seconds", int(classifier.DefaultRemoteTimeout/time.Second))
	v.SetDefault("remote.api_key", "")

	v.SetDefault("database.path", "mood-journal.db")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("feed.limit", 50)
	v.SetDefault("feed.snippet_length", 280)

	v.SetDefault("batch.concurrency", 4)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Remote.BaseURL) == "" {
		return fmt.Errorf("remote.base_url must not be empty")
	}

	if config.Remote.TimeoutSeconds < 1 || config.Remote.TimeoutSeconds > 300 {
		return fmt.Errorf("remote.timeout_seconds must be between 1 and 300, got: %d", config.Remote.TimeoutSeconds)
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", config.Server.Port)
	}

	if config.Feed.Limit < 1 || config.Feed.Limit > 1000 {
		return fmt.Errorf("feed.limit must be between 1 and 1000, got: %d", config.Feed.Limit)
	}

	if config.Feed.SnippetLength < 1 {
		return fmt.Errorf("feed.snippet_length must be positive, got: %d", config.Feed.SnippetLength)
	}

	if config.Batch.Concurrency < 1 || config.Batch.Concurrency > 64 {
		return fmt.Errorf("batch.concurrency must be between 1 and 64, got: %d", config.Batch.Concurrency)
	}

	return nil
}

// ClassifierConfig converts the remote section into the classifier's own
// configuration value.
func (c *Config) ClassifierConfig() classifier.RemoteConfig {
	return classifier.RemoteConfig{
		BaseURL: c.Remote.BaseURL,
		Model:   c.Remote.Model,
		APIKey:  c.Remote.APIKey,
		Timeout: time.Duration(c.Remote.TimeoutSeconds) * time.Second,
	}
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrus(config.Log.Level, config.Log.Format, nil)
}
