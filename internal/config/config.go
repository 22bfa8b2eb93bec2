package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   slog.Level

	DBDriver    string
	DatabaseDSN string

	SessionStore    string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	SessionLifetime time.Duration

	ResetTokenSecret string
	AdminBootstrap   bool
	LoginRateLimit   int
	PublicBaseURL    string

	SwaggerHost string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedUserUsername  string
	SeedUserPassword  string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", EnvDevelopment),
		LogLevel:   parseLevel(getEnv("LOG_LEVEL", "info")),

		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/agency?charset=utf8mb4&parseTime=True&loc=Local"),

		SessionStore:    getEnv("SESSION_STORE", "redis"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		SessionLifetime: getEnvDuration("SESSION_LIFETIME", 24*time.Hour),

		ResetTokenSecret: getEnv("RESET_TOKEN_SECRET", "change-me"),
		AdminBootstrap:   getEnvBool("ADMIN_BOOTSTRAP", true),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 5),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedUserUsername:  os.Getenv("SEED_USER_USERNAME"),
		SeedUserPassword:  os.Getenv("SEED_USER_PASSWORD"),
	}
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
