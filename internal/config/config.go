package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultSessionSecret is a placeholder. Deployments must override it via
// SESSION_SECRET; main logs a warning when it is still in use.
const DefaultSessionSecret = "change-me-for-production"

// Config holds all environment-driven settings.
type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	SessionTTL    time.Duration
	TemplateDir   string
	StaticDir     string
	SecureCookie  bool
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "expenses.db"),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		TemplateDir:   getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
		SecureCookie:  getEnvBool("SECURE_COOKIE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
