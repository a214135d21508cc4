// Package config reads the server configuration from the environment.
//
// Defaults exist for local development only. With APP_ENV=production a
// missing secret or storage location is an error instead of a silent
// fallback to the development value.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"

	devJWTSecret     = "dev-only-secret-change-in-production"
	devDBPath        = "data/journal.db"
	devMongoURL      = "mongodb://localhost:27017"
	devMongoDatabase = "journal_db"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8080"`

	JWTSecret  string `env:"JWT_SECRET"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"DB_PATH"`
	MongoURL      string `env:"MONGODB_URL"`
	MongoDatabase string `env:"MONGODB_DB_NAME"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint   string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// applyDefaults fills development defaults, or reports every missing
// setting in production.
func (c *Config) applyDefaults() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("config: APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv)
	}
	if c.StoreDriver != DriverSQLite && c.StoreDriver != DriverMongo {
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMongo, c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", c.Port)
	}

	var missing []string
	fill := func(name string, field *string, dev string) {
		if *field != "" {
			return
		}
		if c.IsProduction() {
			missing = append(missing, name)
			return
		}
		*field = dev
	}

	fill("JWT_SECRET", &c.JWTSecret, devJWTSecret)
	switch c.StoreDriver {
	case DriverSQLite:
		fill("DB_PATH", &c.DBPath, devDBPath)
	case DriverMongo:
		fill("MONGODB_URL", &c.MongoURL, devMongoURL)
		fill("MONGODB_DB_NAME", &c.MongoDatabase, devMongoDatabase)
	}

	if len(missing) > 0 {
		return errors.New("config: required in production: " + strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
