package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP configuration
	ListenAddr    string
	SessionSecret string

	// Betting configuration
	StartingBalance int64

	// Usernames allowed to resolve combats under review
	AdminUsernames []string

	// Bounded wait for contended ledger rows
	LockTimeout time.Duration

	// Environment is "development", "production" or "test"
	Environment string
}

// Load reads configuration from the environment, with a .env file applied
// first if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ListenAddr:      getEnvWithDefault("LISTEN_ADDR", ":3000"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		StartingBalance: 1000,
		LockTimeout:     5 * time.Second,
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := strconv.ParseInt(balance, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid STARTING_BALANCE: %q", balance)
		}
		cfg.StartingBalance = parsed
	}

	if timeout := os.Getenv("LOCK_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid LOCK_TIMEOUT: %q", timeout)
		}
		cfg.LockTimeout = parsed
	}

	for _, name := range strings.Split(os.Getenv("ADMIN_USERNAMES"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			cfg.AdminUsernames = append(cfg.AdminUsernames, name)
		}
	}

	if cfg.Environment != "test" {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
	}

	return cfg, nil
}

// IsAdmin reports whether a username holds the admin capability
func (c *Config) IsAdmin(username string) bool {
	for _, admin := range c.AdminUsernames {
		if admin == username {
			return true
		}
	}
	return false
}

// getEnvWithDefault returns an environment variable value or a default
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
