// Package config provides configuration loading, validation, and management
// for the backend. It handles reading from a YAML file, GENIE_* environment
// variables, and default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components:
// logging, HTTP server, Telegram integration, Gemini integration, and storage.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Health      HealthConfig      `mapstructure:"health"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"       validate:"required"`
	Region          string        `mapstructure:"region"`
	Env             string        `mapstructure:"env"        validate:"oneof=development staging production"`
	PublicURL       string        `mapstructure:"public_url" validate:"omitempty,url"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=1m"`
}

type TelegramConfig struct {
	// Token is the bot credential. Its absence is a fatal misconfiguration at
	// startup, never a per-request error.
	Token         string `mapstructure:"token"          validate:"required"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	WebhookPath   string `mapstructure:"webhook_path"   validate:"required,startswith=/"`
}

type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"             validate:"required"`
	ModelName         string        `mapstructure:"model_name"          validate:"required"`
	Temperature       float32       `mapstructure:"temperature"         validate:"min=0,max=2"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"min=1s,max=10m"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"min=0,max=5"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"min=1,max=60"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type HealthConfig struct {
	// Timeout bounds the store reachability probe; on expiry the health
	// endpoint reports success=false rather than hanging.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=100ms,max=30s"`
}

type MaintenanceConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a cron expression (with optional seconds field).
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// Load reads configuration from the given YAML file (optional), GENIE_*
// environment variables, and defaults, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GENIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file; env and defaults may be enough.
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every known key so environment variables bind even
// when the config file omits them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.region", "")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.webhook_secret", "")
	v.SetDefault("telegram.webhook_path", "/webhook/telegram")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.timeout", 2*time.Minute)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 2)

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("health.timeout", 8*time.Second)

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "0 0 3 * * *")
}
