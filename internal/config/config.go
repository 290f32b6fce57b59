package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Upstream monitoring backend
	BackendBaseURL string
	BackendTimeout time.Duration

	// Bearer auth for dashboard API routes
	AuthJWTSecret string

	// Dose-taken store
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Event outbox
	DatabaseURL string

	// Local day boundary for dose tracking, e.g. "America/New_York"
	Timezone string

	CORSAllowedOrigins []string

	// Appointment reconciliation and alert filter-switch delays.
	// Overridable so tests and demos can shorten them.
	ReconcileDelay    time.Duration
	FilterSwitchDelay time.Duration

	OutboxPollInterval time.Duration

	// Per-caller API rate limiting; zero disables it.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", ""),
		BackendBaseURL:     getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		BackendTimeout:     getEnvAsDuration("BACKEND_TIMEOUT", 20*time.Second),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Timezone:           getEnv("TIMEZONE", "UTC"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		ReconcileDelay:     getEnvAsDuration("APPOINTMENT_RECONCILE_DELAY", 2*time.Second),
		FilterSwitchDelay:  getEnvAsDuration("ALERT_FILTER_SWITCH_DELAY", 100*time.Millisecond),
		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		RateLimitPerSec:    getEnvAsFloat("RATE_LIMIT_PER_SEC", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
