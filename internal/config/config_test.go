package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Coupon.Timeout)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 8, cfg.BatchConcurrency)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("COUPON_BASE_URL", "https://api.example.com")
	t.Setenv("COUPON_TIMEOUT", "3s")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("RATELIMIT_RPS", "2.5")

	cfg, err := FromViper(New())
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "https://api.example.com", cfg.Coupon.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Coupon.Timeout)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestLoadConfigFileAndDotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("coupon:\n  base_url: https://pricing.example.com\ncache:\n  backend: none\n"), 0o600))
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load(dotenv, file)
	require.NoError(t, err)

	assert.Equal(t, "https://pricing.example.com", cfg.Coupon.BaseURL)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingDotenvIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), "")
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := FromViper(New())
	assert.ErrorContains(t, err, "cache.backend")
}
