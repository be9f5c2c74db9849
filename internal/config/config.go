// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), layers them over
// built-in defaults, loads them into structured Go types and validates
// them so the app fails fast on bad or missing config.
//
// Responsibilities:
//   - Provide defaults so `catalog serve` works with no environment at all.
//   - Map CATALOG_* env vars into a structured Go config.
//   - Validate required values and cross-field rules (e.g. a postgres
//     backend needs database settings).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the prefix CATALOG_. The prefix is removed,
	the key is lowercased and a double underscore marks nesting:

	  CATALOG_SERVER__PORT          -> server.port
	  CATALOG_STORE__BACKEND        -> store.backend
	  CATALOG_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
*/

const envPrefix = "CATALOG_"

// Storage backends for the persisted service list.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of admin mutations per second allowed per
	// client IP. Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// StoreConfig selects where the service list is persisted and where the
// one-time bootstrap copy comes from.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory file redis postgres sqlite"`

	// Key names the single slot holding the serialized list.
	Key string `koanf:"key" validate:"required"`

	// DataDir is where the file backend keeps its slot files.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// Bootstrap is a relative file path or an http(s) URL.
	Bootstrap string `koanf:"bootstrap" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only required when Store.Backend is "postgres".
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Used by the redis backend and by jobs.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// JobsConfig toggles background change notifications.
type JobsConfig struct {
	Enabled bool `koanf:"enabled"`

	// NotifyEmail receives a message for every catalog change when set.
	NotifyEmail string `koanf:"notify_email" validate:"omitempty,email"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// defaults are loaded before the environment so every key has a value.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           20,

		"store.backend":     BackendFile,
		"store.key":         "servicios",
		"store.data_dir":    "var",
		"store.sqlite_path": "var/catalog.db",
		"store.bootstrap":   "data/services.json",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  300,
		"database.conn_max_idle_time": 60,

		"redis.address": "localhost:6379",

		"observability.logging.format":                        "json",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{"store", "redis"},
	}
}

// LoadConfig loads configuration from defaults and environment variables,
// validates it, applies observability defaults and returns it.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		key = strings.ReplaceAll(key, "__", ".")

		// Comma-separated values become lists.
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs the struct-tag validator, the cross-field rules and the
// observability checks. Missing observability config is replaced by
// DefaultObservabilityConfig.
func (c *Config) Validate() error {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the %s backend", c.Store.Backend)
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the %s backend", c.Store.Backend)
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the %s backend", c.Store.Backend)
		}
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("database.host, database.user and database.name are required for the %s backend", c.Store.Backend)
		}
	}

	if c.Jobs.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when jobs are enabled")
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Store.Backend == BackendRedis || c.Jobs.Enabled
}
