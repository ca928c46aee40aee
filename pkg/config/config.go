package config

import (
	"fmt"
	"time"
)

// Config holds runtime configuration for the Calma bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Logger   LoggerConfig   `mapstructure:"logger"`
	Server   ServerConfig   `mapstructure:"server"`
	Bot      BotConfig      `mapstructure:"bot" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Operator OperatorConfig `mapstructure:"operator"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Store    StoreConfig    `mapstructure:"store"`
}

// LoggerConfig controls the slog setup.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File   string `mapstructure:"file"`
}

// ServerConfig controls the diagnostics HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BotConfig controls the Telegram connection.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig controls the durable lead store. Leaving Host empty
// disables the store entirely and the bot runs cache-only.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig controls the optional Redis session cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SentryConfig controls error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// OperatorConfig identifies the operator notification channel. A zero chat
// ID disables notifications.
type OperatorConfig struct {
	ChatID int64 `mapstructure:"chat_id"`
}

// ContactConfig holds the optional external contact link shown under the
// final confirmation.
type ContactConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// StoreConfig tunes the best-effort store adapter.
type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseEnabled reports whether durable store credentials are present.
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != "" && c.Database.User != "" && c.Database.Name != ""
}

// RedisEnabled reports whether the Redis cache backend is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// OperatorEnabled reports whether the operator channel is configured.
func (c *Config) OperatorEnabled() bool {
	return c.Operator.ChatID != 0
}

// ContactEnabled reports whether the contact link button is configured.
func (c *Config) ContactEnabled() bool {
	return c.Contact.URL != ""
}

// DSN returns the PostgreSQL connection string based on config values.
func (c *Config) DSN() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	port := c.Database.Port
	if port == "" {
		port = "5432"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}
