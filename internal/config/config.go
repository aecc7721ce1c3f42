package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the jobs process
type Config struct {
	// Database
	DatabaseURL string

	// Job schedule
	MaterializeInterval time.Duration
	BudgetCheckInterval time.Duration

	// Materializer pass bounds
	UnitTimeout     time.Duration
	UnitConcurrency int
	UnitsPerSecond  float64

	Env string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MaterializeInterval: getEnvDuration("MATERIALIZE_INTERVAL", 1*time.Hour),
		BudgetCheckInterval: getEnvDuration("BUDGET_CHECK_INTERVAL", 24*time.Hour),
		UnitTimeout:         getEnvDuration("UNIT_TIMEOUT", 10*time.Second),
		UnitConcurrency:     getEnvInt("UNIT_CONCURRENCY", 4),
		UnitsPerSecond:      getEnvFloat("UNITS_PER_SECOND", 50),
		Env:                 getEnv("ENV", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaterializeInterval <= 0 {
		return fmt.Errorf("MATERIALIZE_INTERVAL must be positive")
	}
	if c.BudgetCheckInterval <= 0 {
		return fmt.Errorf("BUDGET_CHECK_INTERVAL must be positive")
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
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
