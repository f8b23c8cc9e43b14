package config

import (
	"os"
	"strconv"

	"seqalloc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Sequence SequenceConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string `validate:"required"`
	SSLMode string
}

// SequenceConfig holds allocator settings
type SequenceConfig struct {
	// EnforceCounterExistence makes allocation fail when no native counter
	// has been provisioned instead of falling back to a computed value
	EnforceCounterExistence bool

	// MaxProbeDoublings bounds the boundary search before it falls back to
	// an aggregate query
	MaxProbeDoublings int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string
	Development bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}

	return &Config{
		Database: *dbConfig,
		Sequence: SequenceConfig{
			EnforceCounterExistence: getEnvBoolOrDefault("SEQ_ENFORCE_COUNTER_EXISTENCE", false),
			MaxProbeDoublings:       getEnvIntOrDefault("SEQ_MAX_PROBE_DOUBLINGS", 40),
		},
		Logging: LoggingConfig{
			Level:       getEnvOrDefault("SEQ_LOG_LEVEL", "info"),
			Development: getEnvBoolOrDefault("SEQ_LOG_DEVELOPMENT", false),
		},
	}, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
