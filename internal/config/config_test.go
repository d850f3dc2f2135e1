package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "shopdesk-service", cfg.Inngest.AppID)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "product-qr-codes", cfg.Storage.Bucket)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("REDIS_CACHE_TTL", "30s")
	t.Setenv("STORAGE_TYPE", "s3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "s3", cfg.Storage.Type)
}

func TestGetDSN(t *testing.T) {
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPORT", "5433")
	t.Setenv("PGUSER", "app")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("PGDATABASE", "shopdesk")
	t.Setenv("DB_SSLMODE", "require")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=shopdesk sslmode=require",
		cfg.GetDSN())
}

func TestGetRedisAddr(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", cfg.GetRedisAddr())
}
