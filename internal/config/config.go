package config

import (
	"os"
	"strconv"
	"strings"
)

const defaultMaxMelodyBars = 32

// Config holds the application configuration.
// The service is stateless: nothing here points at a database or user store.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Generation
	GenreProfilesPath string // optional YAML overrides for the genre table
	MaxMelodyBars     int    // upper clamp for the length query parameter

	// HTTP
	StaticDir          string   // served under /static when set
	CORSAllowedOrigins []string // "*" allows every origin
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		GenreProfilesPath:  getEnv("GENRE_PROFILES_PATH", ""),
		MaxMelodyBars:      getEnvInt("MAX_MELODY_BARS", defaultMaxMelodyBars),
		StaticDir:          getEnv("STATIC_DIR", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
