// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Session backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// DefaultSessionSecret is only suitable for local development
const DefaultSessionSecret = "development-secret-change-in-production"

// Config holds every setting of the service
type Config struct {
	Host string `env:"WEBAUTH_HOST" envDefault:"0.0.0.0" validate:"required"`
	Port int    `env:"WEBAUTH_PORT" envDefault:"8080" validate:"min=1,max=65535"`

	// Box endpoints
	BoxAuthURL      string        `env:"WEBAUTH_BOX_AUTH_URL" envDefault:"https://app.box.com/api/oauth2/authorize" validate:"required,url"`
	BoxTokenURL     string        `env:"WEBAUTH_BOX_TOKEN_URL" envDefault:"https://api.box.com/oauth2/token" validate:"required,url"`
	BoxRedirectURI  string        `env:"WEBAUTH_BOX_REDIRECT_URI" validate:"omitempty,url"`
	ExchangeTimeout time.Duration `env:"WEBAUTH_EXCHANGE_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// Sessions
	SessionBackend         string        `env:"WEBAUTH_SESSION_BACKEND" envDefault:"memory" validate:"oneof=memory redis postgres sqlite"`
	RedisURL               string        `env:"WEBAUTH_REDIS_URL" validate:"required_if=SessionBackend redis"`
	DatabaseURL            string        `env:"WEBAUTH_DATABASE_URL" validate:"required_if=SessionBackend postgres,required_if=SessionBackend sqlite"`
	SessionSecret          string        `env:"WEBAUTH_SESSION_SECRET" envDefault:"development-secret-change-in-production" validate:"required,min=16"`
	SessionTTL             time.Duration `env:"WEBAUTH_SESSION_TTL" envDefault:"30m" validate:"gt=0"`
	SessionCleanupInterval time.Duration `env:"WEBAUTH_SESSION_CLEANUP_INTERVAL" envDefault:"5m" validate:"gt=0"`
	CookieSecure           bool          `env:"WEBAUTH_COOKIE_SECURE" envDefault:"false"`

	// Error pages carry the wrapped error chain of unexpected failures
	ShowDiagnostics bool `env:"WEBAUTH_SHOW_DIAGNOSTICS" envDefault:"true"`

	LogLevel  string `env:"WEBAUTH_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"WEBAUTH_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Load reads optional .env files, then the process environment.
// Missing .env files are ignored; variables already set win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, cfg.Validate()
}

// LoadFrom parses configuration from the given variables only
func LoadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate checks field constraints
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// UsesDefaultSecret reports whether the development session secret is in use
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
