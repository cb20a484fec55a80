package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.False(t, cfg.Server.SeedDatabase)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "shopapi", cfg.Database.DBName)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_READ_TIMEOUT", "30")
	t.Setenv("SEED_DATABASE", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TRUSTED_ORIGINS", "https://shop.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.SeedDatabase)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidNumericFallsBackToDefault(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "shop",
		Password: "secret",
		DBName:   "shopapi",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=shop password=secret dbname=shopapi sslmode=disable",
		cfg.ConnectionString(),
	)
}

func TestRedisConfig_Address(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: "6380"}
	assert.Equal(t, "cache.internal:6380", cfg.Address())
}
