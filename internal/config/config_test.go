package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "APP_ENV", "DB_DRIVER", "SESSION_LIFETIME", "ADMIN_BOOTSTRAP", "LOGIN_RATE_LIMIT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.True(t, cfg.AdminBootstrap)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("ADMIN_BOOTSTRAP", "false")
	t.Setenv("LOGIN_RATE_LIMIT", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.False(t, cfg.AdminBootstrap)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "forever")
	t.Setenv("ADMIN_BOOTSTRAP", "maybe")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.True(t, cfg.AdminBootstrap)
	assert.Equal(t, 0, cfg.RedisDB)
}
