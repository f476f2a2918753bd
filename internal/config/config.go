package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Cloud     CloudConfig
	Analyzer  AnalyzerConfig
	Assistant AssistantConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StoreConfig holds the local key-value store configuration
type StoreConfig struct {
	Path string
}

// CloudConfig holds the optional Postgres-backed cloud store configuration.
// When URL is empty the app runs on local storage only.
type CloudConfig struct {
	URL          string
	DatasetTable string
}

// AnalyzerConfig holds the remote analysis collaborator configuration
type AnalyzerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AssistantConfig holds the optional chat assistant configuration.
// BaseURL defaults to OpenRouter; an empty APIKey disables the assistant.
type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("store.path", "pcos-assistant.db")

	v.SetDefault("cloud.datasettable", "pcos_dataset_raw")

	v.SetDefault("analyzer.timeout", 5*time.Second)

	v.SetDefault("assistant.baseurl", "https://openrouter.ai/api/v1")
	v.SetDefault("assistant.model", "openai/gpt-4o-mini")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("store.path", "STORE_PATH")

	v.BindEnv("cloud.url", "CLOUD_DATABASE_URL", "SUPABASE_DB_URL")
	v.BindEnv("cloud.datasettable", "CLOUD_DATASET_TABLE")

	v.BindEnv("analyzer.baseurl", "ANALYZER_BASE_URL")
	v.BindEnv("analyzer.timeout", "ANALYZER_TIMEOUT")

	v.BindEnv("assistant.apikey", "OPENROUTER_API_KEY")
	v.BindEnv("assistant.baseurl", "OPENROUTER_BASE_URL")
	v.BindEnv("assistant.model", "ASSISTANT_MODEL")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.Analyzer.Timeout <= 0 {
		return fmt.Errorf("analyzer.timeout must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdowntimeout must be positive")
	}

	return nil
}
