package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://app.box.com/api/oauth2/authorize", cfg.BoxAuthURL)
	assert.Equal(t, "https://api.box.com/oauth2/token", cfg.BoxTokenURL)
	assert.Empty(t, cfg.BoxRedirectURI)
	assert.Equal(t, 30*time.Second, cfg.ExchangeTimeout)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionCleanupInterval)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.ShowDiagnostics)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"WEBAUTH_PORT":             "9090",
		"WEBAUTH_SESSION_BACKEND":  "redis",
		"WEBAUTH_REDIS_URL":        "redis://localhost:6379/0",
		"WEBAUTH_SESSION_SECRET":   "a-much-longer-production-secret",
		"WEBAUTH_SESSION_TTL":      "10m",
		"WEBAUTH_SHOW_DIAGNOSTICS": "false",
		"WEBAUTH_LOG_FORMAT":       "json",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.ShowDiagnostics)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		field   string
	}{
		{"unknown backend", map[string]string{"WEBAUTH_SESSION_BACKEND": "mongo"}, "SessionBackend"},
		{"redis without url", map[string]string{"WEBAUTH_SESSION_BACKEND": "redis"}, "RedisURL"},
		{"postgres without url", map[string]string{"WEBAUTH_SESSION_BACKEND": "postgres"}, "DatabaseURL"},
		{"sqlite without path", map[string]string{"WEBAUTH_SESSION_BACKEND": "sqlite"}, "DatabaseURL"},
		{"short secret", map[string]string{"WEBAUTH_SESSION_SECRET": "short"}, "SessionSecret"},
		{"bad port", map[string]string{"WEBAUTH_PORT": "70000"}, "Port"},
		{"bad redirect uri", map[string]string{"WEBAUTH_BOX_REDIRECT_URI": "not a url"}, "BoxRedirectURI"},
		{"bad log level", map[string]string{"WEBAUTH_LOG_LEVEL": "verbose"}, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadFrom_ParseError(t *testing.T) {
	_, err := LoadFrom(map[string]string{"WEBAUTH_SESSION_TTL": "forever"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEBAUTH_PORT=9191\n"), 0o600))

	t.Setenv("WEBAUTH_PORT", "")
	require.NoError(t, os.Unsetenv("WEBAUTH_PORT"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
}

func TestLoad_MissingDotEnv(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
