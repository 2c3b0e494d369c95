// Package config loads server configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminEmail is the one address allowed to register the admin
// account unless ADMIN_EMAIL overrides it.
const DefaultAdminEmail = "admin@example.com"

// Config holds everything the server needs to start.
type Config struct {
	// HTTP server
	Addr string

	// Database
	DBPath string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	AdminEmail string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first, without overriding variables
// already set.
func Load() *Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return &Config{
		Addr:       getEnv("ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "./data/gramkosh.db"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		TokenTTL:   getEnvDuration("TOKEN_TTL", 24*time.Hour),
		AdminEmail: getEnv("ADMIN_EMAIL", DefaultAdminEmail),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 16 {
		problems = append(problems, fmt.Sprintf("JWT_SECRET is %d bytes: must be at least 16", len(c.JWTSecret)))
	}
	if c.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}
	if !strings.Contains(c.AdminEmail, "@") {
		problems = append(problems, fmt.Sprintf("invalid admin email %q", c.AdminEmail))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if hours, err := strconv.Atoi(value); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultValue
}
