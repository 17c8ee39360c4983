package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "STORE_BACKEND", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_ENABLED", "CACHE_TTL",
		"AVIATIONSTACK_KEY", "AVIATIONSTACK_URL", "GEOCODING_URL", "FORECAST_URL",
		"MYMAPS_URL", "PRESET_DIR", "MAX_UPLOAD_BYTES", "HTTP_TIMEOUT", "CONFIG_FILE",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every optional variable falls back to its
// default and that the memory backend needs nothing else.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, config.BackendMemory, cfg.StoreBackend)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 15*time.Minute, cfg.CacheTTL)
	require.False(t, cfg.CacheEnabled)
}

// TestLoad_overrides verifies that values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/mydb")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("AVIATIONSTACK_KEY", "secret")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, config.BackendPostgres, cfg.StoreBackend)
	require.Equal(t, "postgres://user:pass@db:5432/mydb", cfg.DatabaseURL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.True(t, cfg.CacheEnabled)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, time.Hour, cfg.CacheTTL)
	require.Equal(t, "secret", cfg.AviationstackKey)
}

// TestLoad_missingRequired verifies that every missing variable is named in
// a single error.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("CACHE_ENABLED", "true")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DATABASE_URL")
	require.ErrorContains(t, err, "REDIS_ADDR")
}

func TestLoad_unknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := config.Load()

	require.ErrorContains(t, err, "STORE_BACKEND")
}

// TestLoad_configFile verifies that file values apply and env vars win.
func TestLoad_configFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tripboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nlog_format: text\npreset_dir: /srv/presets\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "6060", cfg.Port)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "/srv/presets", cfg.PresetDir)
}

func TestLoad_configFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := config.Load()

	require.ErrorContains(t, err, "not found")
}
