// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP event publishing. Disabled when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expense-ledger"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "sqlite database path is required")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if c.AMQPURL != "" && c.AMQPExchange == "" {
		problems = append(problems, "AMQP exchange is required when AMQP_URL is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
