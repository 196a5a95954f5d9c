package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"riskuq/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	// Workers is the default parallelism of batch evaluations.
	Workers int
	// LogLevel is the logrus level name used for all loggers.
	LogLevel string
	// DataDir is where output container files are written.
	DataDir string
	// DatabaseURL enables the postgres output repository when set.
	DatabaseURL string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present, and validates it.
func Load() (*Config, error) {
	// Missing .env is fine, real environment variables still apply.
	_ = godotenv.Load()

	config := &Config{
		Workers:     getEnvIntOrDefault("RISKUQ_WORKERS", runtime.NumCPU()),
		LogLevel:    getEnvOrDefault("RISKUQ_LOG_LEVEL", "info"),
		DataDir:     getEnvOrDefault("RISKUQ_DATA_DIR", "./data"),
		DatabaseURL: os.Getenv("RISKUQ_DATABASE_URL"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Workers < 1 {
		return errors.ConfigInvalid("RISKUQ_WORKERS must be at least 1")
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return errors.ConfigInvalid("RISKUQ_LOG_LEVEL is not a valid log level: " + config.LogLevel)
	}
	if config.DataDir == "" {
		return errors.ConfigInvalid("RISKUQ_DATA_DIR cannot be empty")
	}
	return nil
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
