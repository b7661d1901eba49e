// Package config provides configuration management for the show status service.
// It handles loading configuration from environment variables with sensible defaults
// and validates the configuration to ensure the application starts safely.
//
// The service degrades gracefully: either cache tier may be switched off and the
// service still answers requests, only slower and at higher provider cost.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Fast Tier (volatile cache):
//   - FAST_TIER: Backend - "redis", "local" or "off" (default: local)
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Durable Tier (persistent document store):
//   - DURABLE_TIER: Backend - "sqlite", "postgres" or "off" (default: sqlite)
//   - DATABASE_PATH: SQLite database file path (default: ./show_status.db)
//   - POSTGRES_HOST: PostgreSQL host (required if using PostgreSQL)
//   - POSTGRES_PORT: PostgreSQL port (default: 5432)
//   - POSTGRES_DB: PostgreSQL database name (required if using PostgreSQL)
//   - POSTGRES_USER: PostgreSQL username (required if using PostgreSQL)
//   - POSTGRES_PASSWORD: PostgreSQL password
//   - POSTGRES_SSL_MODE: PostgreSQL SSL mode (default: disable)
//
// Retention:
//   - FAST_TIER_TTL: Fast-tier entry lifetime (default: 12h)
//   - DURABLE_TIER_TTL: Durable retention for terminal statuses (default: 876000h, ~100 years)
//   - TERMINAL_CLASSIFICATIONS: Comma-separated status labels considered final
//     (default: cancelled,concluded,ended)
//   - SWEEP_SCHEDULE: Cron schedule for the expired-document sweep (default: @hourly)
//
// Providers:
//   - SEARCH_API_URL: Web-search provider endpoint (required)
//   - SEARCH_API_KEY: Web-search provider API key
//   - LLM_BASE_URL: Chat-completions base URL (default: https://api.openai.com/v1)
//   - LLM_API_KEY: Language-model API key (required)
//   - LLM_MODEL: Model name (default: gpt-4o-mini)
//
// Security:
//   - JWT_SECRET: Secret for the admin purge endpoint; when empty the endpoint is
//     disabled (minimum 32 characters when set)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the retention policy. DurableTierTTL is long enough to count
// as "never expires" for facts that cannot change again.
const (
	DefaultFastTierTTL    = 12 * time.Hour
	DefaultDurableTierTTL = 100 * 365 * 24 * time.Hour
)

// Config holds all configuration values for the show status service.
// All string fields correspond to environment variables that can be set to
// override the default values.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Fast tier configuration
	FastTier      string // Fast tier backend: "redis", "local" or "off"
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Durable tier configuration
	DurableTier      string // Durable tier backend: "sqlite", "postgres" or "off"
	DatabasePath     string // Path to SQLite database file
	PostgresHost     string // PostgreSQL host address
	PostgresPort     string // PostgreSQL port number
	PostgresDB       string // PostgreSQL database name
	PostgresUser     string // PostgreSQL username
	PostgresPassword string // PostgreSQL password
	PostgresSSLMode  string // PostgreSQL SSL mode (disable, require, etc.)

	// Retention configuration
	FastTierTTL             string // Fast-tier entry lifetime (e.g. "12h")
	DurableTierTTL          string // Durable retention for terminal statuses
	TerminalClassifications string // Comma-separated terminal status labels
	SweepSchedule           string // Cron schedule for the expired-document sweep

	// Provider configuration
	SearchAPIURL string // Web-search provider endpoint
	SearchAPIKey string // Web-search provider API key
	LLMBaseURL   string // Chat-completions base URL
	LLMAPIKey    string // Language-model API key
	LLMModel     string // Language-model model name

	// Admin endpoint configuration
	JWTSecret string // Secret for the admin purge endpoint; empty disables it
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		FastTier:      getEnv("FAST_TIER", "local"),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		DurableTier:      getEnv("DURABLE_TIER", "sqlite"),
		DatabasePath:     getEnv("DATABASE_PATH", "./show_status.db"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "show_status"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		FastTierTTL:             getEnv("FAST_TIER_TTL", "12h"),
		DurableTierTTL:          getEnv("DURABLE_TIER_TTL", "876000h"),
		TerminalClassifications: getEnv("TERMINAL_CLASSIFICATIONS", "cancelled,concluded,ended"),
		SweepSchedule:           getEnv("SWEEP_SCHEDULE", "@hourly"),

		SearchAPIURL: getEnv("SEARCH_API_URL", ""),
		SearchAPIKey: getEnv("SEARCH_API_KEY", ""),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate performs validation on the configuration to ensure all required
// fields are present and all values are valid.
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	switch c.FastTier {
	case "redis", "local", "off":
		// Valid fast tier backends
	default:
		return fmt.Errorf("FAST_TIER must be 'redis', 'local' or 'off'")
	}

	if c.FastTier == "redis" {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	switch c.DurableTier {
	case "sqlite", "postgres", "postgresql", "off":
		// Valid durable tier backends
	default:
		return fmt.Errorf("DURABLE_TIER must be 'sqlite', 'postgres' or 'off'")
	}

	if c.DurableTier == "postgres" || c.DurableTier == "postgresql" {
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
	}

	if _, err := time.ParseDuration(c.FastTierTTL); err != nil {
		return fmt.Errorf("FAST_TIER_TTL must be a valid duration (e.g., '12h')")
	}
	if _, err := time.ParseDuration(c.DurableTierTTL); err != nil {
		return fmt.Errorf("DURABLE_TIER_TTL must be a valid duration (e.g., '876000h')")
	}
	if strings.TrimSpace(c.TerminalClassifications) == "" {
		return fmt.Errorf("TERMINAL_CLASSIFICATIONS must list at least one status label")
	}

	if c.SearchAPIURL == "" {
		return fmt.Errorf("SEARCH_API_URL environment variable is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY environment variable is required")
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}

	return nil
}

// FastTTL returns the parsed fast-tier TTL, falling back to the default
// when the configured value is invalid.
func (c *Config) FastTTL() time.Duration {
	if d, err := time.ParseDuration(c.FastTierTTL); err == nil && d > 0 {
		return d
	}
	return DefaultFastTierTTL
}

// DurableTTL returns the parsed durable-tier TTL, falling back to the default
// when the configured value is invalid.
func (c *Config) DurableTTL() time.Duration {
	if d, err := time.ParseDuration(c.DurableTierTTL); err == nil && d > 0 {
		return d
	}
	return DefaultDurableTierTTL
}

// TerminalSet returns the configured terminal classification labels,
// trimmed and with empty entries removed.
func (c *Config) TerminalSet() []string {
	parts := strings.Split(c.TerminalClassifications, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if label := strings.TrimSpace(p); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// PostgresDSN builds the PostgreSQL connection string from the configured fields.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresUser, c.PostgresPassword, c.PostgresSSLMode)
}
