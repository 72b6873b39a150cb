package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PLANNER_PASSWORD_HASH", "$2a$04$abcdefghijklmnopqrstuu")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendBolt, cfg.StorageBackend)
	assert.Equal(t, "weddingSeatingChart", cfg.StorageKey)
	assert.Equal(t, 720, cfg.AccessTTLMin)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, []string{"GET"}, cfg.Cache.Methods)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.TTL)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PLANNER_PASSWORD_HASH", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Backends(t *testing.T) {
	setRequired(t)

	t.Setenv("STORAGE_BACKEND", "MySQL")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_USER")

	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "seating")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMySQL, cfg.StorageBackend)

	t.Setenv("STORAGE_BACKEND", "floppy")
	_, err = Load()
	assert.ErrorContains(t, err, "floppy")
}

func TestLoad_RateLimitNormalized(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 50*time.Second, cfg.RateLimit.TTL)
}

func TestRedisConfig_Address(t *testing.T) {
	assert.Equal(t, "redis:6380", RedisConfig{Host: "redis", Port: "6380", Addr: "ignored:1"}.Address())
	assert.Equal(t, "cache:6379", RedisConfig{Addr: "cache:6379"}.Address())
	assert.Equal(t, "localhost:6379", RedisConfig{}.Address())
}
