// Package config provides configuration loading, validation, and management
// for the menu bot. It reads an optional YAML file, environment variables
// (BOT_* plus the MONGO_URI and PORT conventions) and applies defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "github.com/villani/menubot/internal/errors"
)

// Session kinds.
const (
	SessionWhatsApp = "whatsapp"
	SessionTelegram = "telegram"
)

// Config defines the application configuration parameters for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Bot       BotConfig       `mapstructure:"bot"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig holds the persistence connection string. A mongodb:// URI
// selects the MongoDB backend, anything else is treated as a SQLite path.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"  validate:"required"`
	Name string `mapstructure:"name" validate:"required"`
}

type SessionConfig struct {
	Kind          string `mapstructure:"kind"           validate:"oneof=whatsapp telegram"`
	WhatsAppStore string `mapstructure:"whatsapp_store" validate:"required_if=Kind whatsapp"`
	QRInTerminal  bool   `mapstructure:"qr_in_terminal"`
	TelegramToken string `mapstructure:"telegram_token" validate:"required_if=Kind telegram"`
}

// BotConfig tunes the reply pipeline.
type BotConfig struct {
	ReplyDelay   time.Duration `mapstructure:"reply_delay"   validate:"min=0"`
	TypingDelay  time.Duration `mapstructure:"typing_delay"  validate:"min=0"`
	FallbackName string        `mapstructure:"fallback_name" validate:"required"`
}

// MessagesConfig holds the user-facing texts. Greeting may contain
// NamePlaceholder. Options maps "1".."5" to canned replies.
type MessagesConfig struct {
	Greeting string            `mapstructure:"greeting" validate:"required"`
	Menu     string            `mapstructure:"menu"     validate:"required"`
	Options  map[string]string `mapstructure:"options"  validate:"len=5,dive,keys,oneof=1 2 3 4 5,endkeys,required"`
}

type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"    validate:"min=1,max=65535"`
	Status  string `mapstructure:"status"  validate:"required"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from the YAML file at path (optional),
// overlays environment variables and validates the result.
func LoadConfig(path string) (*Config, error) {
	startTime := time.Now()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional names used by hosting platforms take part in the lookup too.
	_ = v.BindEnv("database.uri", "BOT_DATABASE_URI", "MONGO_URI", "DATABASE_URI")
	_ = v.BindEnv("http.port", "BOT_HTTP_PORT", "PORT")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
			}
			slog.Debug("Configuration file loaded", "path", path)
		} else if errors.Is(err, os.ErrNotExist) {
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		} else {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to stat config file %s", path), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to parse config", err)
	}
	cfg.Messages.Options = mergeOptions(cfg.Messages.Options)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Configuration loaded",
		"session_kind", cfg.Session.Kind,
		"http_enabled", cfg.HTTP.Enabled,
		"http_port", cfg.HTTP.Port,
		"duration_ms", time.Since(startTime).Milliseconds())

	return cfg, nil
}

// Validate checks struct tags on the complete configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("configuration validation failed", err)
	}
	return nil
}

// mergeOptions fills the canned replies missing from configured with the
// defaults, so a config file may override a single option.
func mergeOptions(configured map[string]string) map[string]string {
	merged := make(map[string]string, len(DefaultOptions)+len(configured))
	for k, v := range DefaultOptions {
		merged[k] = v
	}
	for k, v := range configured {
		merged[k] = v
	}
	return merged
}
