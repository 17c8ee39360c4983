// Package config loads and validates application configuration from
// environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration values shared by the API server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat is json (default for the API), text or pretty.
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	CORSOrigins []string

	// StoreBackend selects where collections are kept: memory, postgres
	// or redis. Defaults to memory.
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for the
	// postgres backend.
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CacheEnabled turns on the Redis response cache for remote lookups.
	CacheEnabled bool
	CacheTTL     time.Duration

	// AviationstackKey enables flight lookups. Without it they fail with
	// a not-configured error.
	AviationstackKey string
	AviationstackURL string
	GeocodingURL     string
	ForecastURL      string
	MyMapsURL        string

	// PresetDir overrides the bundled presets with a directory on disk.
	PresetDir string

	// MaxUploadBytes caps request bodies. Defaults to 5 MiB.
	MaxUploadBytes int64

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration
}

// New returns a viper instance with every default set and environment
// variables bound. Callers may bind flags to it before FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", 15*time.Minute)
	v.SetDefault("AVIATIONSTACK_KEY", "")
	v.SetDefault("AVIATIONSTACK_URL", "http://api.aviationstack.com")
	v.SetDefault("GEOCODING_URL", "https://geocoding-api.open-meteo.com")
	v.SetDefault("FORECAST_URL", "https://api.open-meteo.com")
	v.SetDefault("MYMAPS_URL", "https://www.google.com")
	v.SetDefault("PRESET_DIR", "")
	v.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("CONFIG_FILE", "")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	return FromViper(New())
}

// FromViper reads CONFIG_FILE (if set) into v and builds a Config.
// Environment variables and bound flags win over file values.
func FromViper(v *viper.Viper) (Config, error) {
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config file %s not found", path)
			}
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:             v.GetString("PORT"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
		CORSOrigins:      splitCSV(v.GetString("CORS_ORIGINS")),
		StoreBackend:     strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CacheEnabled:     v.GetBool("CACHE_ENABLED"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),
		AviationstackKey: v.GetString("AVIATIONSTACK_KEY"),
		AviationstackURL: v.GetString("AVIATIONSTACK_URL"),
		GeocodingURL:     v.GetString("GEOCODING_URL"),
		ForecastURL:      v.GetString("FORECAST_URL"),
		MyMapsURL:        v.GetString("MYMAPS_URL"),
		PresetDir:        v.GetString("PRESET_DIR"),
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_BYTES"),
		HTTPTimeout:      v.GetDuration("HTTP_TIMEOUT"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, postgres, redis; got %q", c.StoreBackend)
	}
	if c.CacheEnabled && c.RedisAddr == "" && !containsString(missing, "REDIS_ADDR") {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch c.LogFormat {
	case "json", "text", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of json, text, pretty; got %q", c.LogFormat)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
