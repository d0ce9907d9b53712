// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	FinancialAPIKey string // Financial Modeling Prep key; empty means synthetic data only
	FMPBaseURL      string
	LookbackDays    int // trading days of history requested per instrument

	FetchTimeout   time.Duration // per-instrument market data timeout
	RequestTimeout time.Duration // whole HTTP request timeout

	ProfileTablePath string // optional YAML profile table; built-in table when empty
	CacheDBPath      string // optional SQLite response cache; disabled when empty

	GeminiAPIKey string // enables AI-written reports
	GeminiModel  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		FinancialAPIKey:  getEnv("FINANCIAL_API_KEY", ""),
		FMPBaseURL:       getEnv("FMP_BASE_URL", "https://financialmodelingprep.com"),
		LookbackDays:     getEnvAsInt("FMP_LOOKBACK_DAYS", 1260),
		FetchTimeout:     time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		RequestTimeout:   time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		ProfileTablePath: getEnv("PROFILE_TABLE_PATH", ""),
		CacheDBPath:      getEnv("CACHE_DB_PATH", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.LookbackDays <= 1 {
		return fmt.Errorf("FMP_LOOKBACK_DAYS must be greater than 1, got %d", c.LookbackDays)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive, got %s", c.FetchTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
