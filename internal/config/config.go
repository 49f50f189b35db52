// Package config provides configuration management for the HTTP service.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the service configuration.
type Config struct {
	Port           string
	AllowedOrigin  string
	AWSRegion      string
	S3Bucket       string // Publishing is disabled when empty
	S3Prefix       string
	DimensionsFile string // Tag file used when a request carries no dimensions
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Prefix:       getEnv("S3_PREFIX", "layouts"),
		DimensionsFile: getEnv("DIMENSIONS_FILE", ""),
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return errors.New("invalid port: must be a number")
	}
	if port < 1 || port > 65535 {
		return errors.New("invalid port: must be between 1 and 65535")
	}
	return nil
}

// PublishingEnabled reports whether exports can be published to S3.
func (c *Config) PublishingEnabled() bool {
	return c.S3Bucket != ""
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
