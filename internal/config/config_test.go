package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DevelopmentDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, devDBPath, cfg.DBPath)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_MongoDevelopmentDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"STORE_DRIVER": "Mongo"})
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, devMongoURL, cfg.MongoURL)
	assert.Equal(t, devMongoDatabase, cfg.MongoDatabase)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadFrom_ExplicitValues(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"APP_ENV":         "production",
		"PORT":            "9090",
		"JWT_SECRET":      "a-real-production-secret",
		"DB_PATH":         "/var/lib/journal/prod.db",
		"ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"BCRYPT_COST":     "12",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "a-real-production-secret", cfg.JWTSecret)
	assert.Equal(t, "/var/lib/journal/prod.db", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadFrom_ProductionRequiresSecrets(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		missing []string
	}{
		{
			name:    "sqlite without secret or path",
			vars:    map[string]string{"APP_ENV": "production"},
			missing: []string{"JWT_SECRET", "DB_PATH"},
		},
		{
			name:    "sqlite without secret",
			vars:    map[string]string{"APP_ENV": "production", "DB_PATH": "/data/j.db"},
			missing: []string{"JWT_SECRET"},
		},
		{
			name:    "mongo without database name",
			vars:    map[string]string{"APP_ENV": "production", "STORE_DRIVER": "mongo", "JWT_SECRET": "s", "MONGODB_URL": "mongodb://db"},
			missing: []string{"MONGODB_DB_NAME"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			require.Error(t, err)
			for _, name := range tt.missing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestLoadFrom_RejectsUnknownValues(t *testing.T) {
	for _, vars := range []map[string]string{
		{"APP_ENV": "staging"},
		{"STORE_DRIVER": "postgres"},
		{"PORT": "0"},
		{"PORT": "not-a-number"},
	} {
		_, err := LoadFrom(vars)
		assert.Error(t, err, "vars %v", vars)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "LOG_LEVEL=%q", in)
	}
}
