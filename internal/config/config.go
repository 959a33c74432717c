package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port                 string
	DBDriver             string
	DBConn               string
	LogLevel             string
	SecretKey            string
	TokenLifetimeMinutes int
	CORSOrigins          []string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite3"),
		DBConn:      getEnv("DB_CONN", "file:careerbuddy.db?_foreign_keys=on"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		SecretKey:   getEnv("SECRET_KEY", "change-me-in-prod"),
		CORSOrigins: splitOrigins(getEnv("CORS_ORIGINS", "*")),
	}

	lifetime, err := strconv.Atoi(getEnv("TOKEN_LIFETIME_MINUTES", "1440"))
	if err != nil || lifetime <= 0 {
		return nil, fmt.Errorf("TOKEN_LIFETIME_MINUTES must be a positive integer")
	}
	cfg.TokenLifetimeMinutes = lifetime

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite3" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", cfg.DBDriver)
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
