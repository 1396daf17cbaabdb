// Package config aggregates the environment-driven settings of the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"user_backend/internal/platform/db"
	"user_backend/internal/platform/redis"
)

// Config is the full server configuration.
type Config struct {
	HTTPPort         string
	Env              string
	PasswordHasher   string
	CacheTTL         time.Duration
	CORSAllowOrigins []string
	MaxBodyBytes     int64

	// WriteRateLimit is the number of writes per minute allowed per client IP. Zero disables limiting.
	WriteRateLimit int
	WriteBurst     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DB    db.Config
	Redis redis.Config
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		Env:              getEnv("APP_ENV", "dev"),
		PasswordHasher:   getEnv("PASSWORD_HASHER", "plain"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		DB:               db.LoadConfigFromEnv(),
		Redis:            redis.LoadConfigFromEnv(),
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("invalid CACHE_TTL: must be positive, got %s", ttl)
	}
	cfg.CacheTTL = ttl

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}
	cfg.MaxBodyBytes = maxBody

	if cfg.WriteRateLimit, err = nonNegativeInt("RATE_LIMIT_WRITES_PER_MINUTE", "0"); err != nil {
		return Config{}, err
	}
	if cfg.WriteBurst, err = nonNegativeInt("RATE_LIMIT_BURST", "5"); err != nil {
		return Config{}, err
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT %q: %w", cfg.HTTPPort, err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.HTTPPort
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func nonNegativeInt(key, def string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, def))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
