package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Store   StoreConfig
	Refresh RefreshConfig
	App     AppConfig
}

type StoreConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RateLimit      float64
	RateBurst      int
}

type RefreshConfig struct {
	Enabled bool
	// Spec is a cron expression with a seconds field, e.g. "0 */5 * * * *".
	Spec string
}

type AppConfig struct {
	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Store: StoreConfig{
			BaseURL:        getEnv("STORE_BASE_URL", "http://localhost:8081"),
			TimeoutSeconds: getEnvAsInt("STORE_TIMEOUT_SECONDS", 30),
			RateLimit:      getEnvAsFloat("STORE_RATE_LIMIT", 50),
			RateBurst:      getEnvAsInt("STORE_RATE_BURST", 100),
		},
		Refresh: RefreshConfig{
			Enabled: getEnv("REFRESH_ENABLED", "true") == "true",
			Spec:    getEnv("REFRESH_CRON", "0 */5 * * * *"),
		},
		App: AppConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("STORE_BASE_URL is required")
	}

	if c.Store.TimeoutSeconds <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
