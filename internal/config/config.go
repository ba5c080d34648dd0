// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	RedisURL    string

	JWTSecret     string
	JWTExpiry     int // hours
	RefreshExpiry int // days

	// Email configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Base URL for public invite links (token is appended as ?token=)
	InviteBaseURL string
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// have no usable defaults and are fatal when missing.
func Load() *Config {
	cfg := &Config{
		Port:          getEnv("API_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiry:     getEnvInt("JWT_EXPIRY", 24),
		RefreshExpiry: getEnvInt("REFRESH_EXPIRY", 7),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@mymudarisacademy.com"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Mudaris Academy"),

		InviteBaseURL: getEnv("INVITE_BASE_URL", "https://mymudarisacademy.com/invite/verify"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("❌ Missing DATABASE_URL environment variable")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("❌ Missing JWT_SECRET environment variable")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
