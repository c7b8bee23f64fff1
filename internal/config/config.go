package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the gateway.
type Config struct {
	Port        string
	Origin      string
	Environment string
	TimeZone    string
	ClinicAPI   ClinicAPIConfig
}

// ClinicAPIConfig holds the connection details for the clinic backend.
type ClinicAPIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	timeout, err := strconv.Atoi(getEnv("CLINIC_API_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_API_TIMEOUT_SECONDS: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:4200"),
		Environment: getEnv("APP_ENV", "development"),
		TimeZone:    getEnv("TIME_ZONE", "Local"),
		ClinicAPI: ClinicAPIConfig{
			BaseURL:        getEnv("CLINIC_API_BASE_URL", "http://localhost:8080"),
			TimeoutSeconds: timeout,
		},
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	return cfg, nil
}

// Location resolves the time zone slot strings are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// IsProduction reports whether the gateway runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
