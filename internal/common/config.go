package common

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LLM     LLMConfig
	Output  OutputConfig
	Catalog CatalogConfig
}

// LLMConfig holds completion-service configuration.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// OutputConfig holds artifact destination configuration.
type OutputConfig struct {
	Dir string
}

// CatalogConfig holds the extraction job catalog location.
type CatalogConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Output: OutputConfig{
			Dir: getEnv("RECIPE_OUTPUT_DIR", ""),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_DB_PATH", ""),
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("OPENAI_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
