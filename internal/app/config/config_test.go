package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_PORT", "APP_ENV", "PASSWORD_HASHER", "CACHE_TTL", "CORS_ALLOW_ORIGINS", "MAX_BODY_BYTES",
		"RATE_LIMIT_WRITES_PER_MINUTE", "RATE_LIMIT_BURST",
		"DB_DRIVER", "REDIS_HOST",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "plain", cfg.PasswordHasher)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Zero(t, cfg.WriteRateLimit)
	assert.Equal(t, 5, cfg.WriteBurst)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PASSWORD_HASHER", "bcrypt")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("RATE_LIMIT_WRITES_PER_MINUTE", "30")
	t.Setenv("RATE_LIMIT_BURST", "2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "bcrypt", cfg.PasswordHasher)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30, cfg.WriteRateLimit)
	assert.Equal(t, 2, cfg.WriteBurst)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "unparseable ttl", key: "CACHE_TTL", value: "soon", wantErr: "invalid CACHE_TTL"},
		{name: "negative ttl", key: "CACHE_TTL", value: "-1m", wantErr: "invalid CACHE_TTL"},
		{name: "bad port", key: "HTTP_PORT", value: "http", wantErr: "invalid HTTP_PORT"},
		{name: "bad body limit", key: "MAX_BODY_BYTES", value: "1MB", wantErr: "invalid MAX_BODY_BYTES"},
		{name: "negative rate limit", key: "RATE_LIMIT_WRITES_PER_MINUTE", value: "-5", wantErr: "invalid RATE_LIMIT_WRITES_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
