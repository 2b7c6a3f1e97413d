package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default ticker universe, matching the reference deployment. Both lists are
// fixed at load time: a ticker's category never changes at runtime.
var (
	defaultREITTickers = []string{"AGNC", "NLY", "ARR", "ORC", "TWO"}
	defaultETFTickers  = []string{
		"JEPI", "QYLD", "XYLD", "DIVO", "SPYD", "SDIV", "PGX",
		"SPHD", "DRIP", "REM", "MORT", "IWM", "EWZ", "HDVB",
	}
)

// Config holds all configuration for the application.
// Only this package reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data artifacts
	DataDir string

	// Tickers
	REITTickers []string
	ETFTickers  []string

	// Provider
	Yahoo YahooConfig

	// Fetch schedule
	Fetch FetchConfig

	// Dashboard read side
	Dashboard DashboardConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// YahooConfig holds Yahoo Finance endpoints and pacing.
type YahooConfig struct {
	ChartBaseURL string
	QuoteBaseURL string
	PageBaseURL  string

	// Requests per second against the provider; Yahoo throttles bursts.
	RateLimit float64
	Timeout   time.Duration
}

// FetchConfig holds the fetch run configuration.
type FetchConfig struct {
	Workers int

	// Hour of day (UTC) the scheduled fetch fires, Monday-Friday.
	UpdateHourUTC int

	// Advisory flag carried into last_update.json; does not gate the scheduler.
	AutoUpdateEnabled bool
}

// DashboardConfig holds the dashboard loader configuration.
type DashboardConfig struct {
	BaseURL         string
	RefreshInterval time.Duration
	AutoRefresh     bool
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DataDir: getEnv("DATA_DIR", "public/data"),

		REITTickers: getEnvAsList("REIT_TICKERS", defaultREITTickers),
		ETFTickers:  getEnvAsList("ETF_TICKERS", defaultETFTickers),

		Yahoo: YahooConfig{
			ChartBaseURL: getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			QuoteBaseURL: getEnv("YAHOO_QUOTE_BASE_URL", "https://query1.finance.yahoo.com/v10/finance/quoteSummary"),
			PageBaseURL:  getEnv("YAHOO_PAGE_BASE_URL", "https://finance.yahoo.com/quote"),
			RateLimit:    getEnvAsFloat("YAHOO_RATE_LIMIT", 2.0),
			Timeout:      getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
		},

		Fetch: FetchConfig{
			Workers:           getEnvAsInt("FETCH_WORKERS", 4),
			UpdateHourUTC:     getEnvAsInt("FETCH_UPDATE_HOUR_UTC", 21),
			AutoUpdateEnabled: getEnvAsBool("FETCH_AUTO_UPDATE", true),
		},

		Dashboard: DashboardConfig{
			BaseURL:         getEnv("DASHBOARD_BASE_URL", "http://localhost:8080/data"),
			RefreshInterval: getEnvAsDuration("DASHBOARD_REFRESH_INTERVAL", "5m"),
			AutoRefresh:     getEnvAsBool("DASHBOARD_AUTO_REFRESH", true),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}

	if len(c.REITTickers) == 0 && len(c.ETFTickers) == 0 {
		return fmt.Errorf("at least one of REIT_TICKERS or ETF_TICKERS must be set")
	}

	if c.Fetch.UpdateHourUTC < 0 || c.Fetch.UpdateHourUTC > 23 {
		return fmt.Errorf("FETCH_UPDATE_HOUR_UTC must be in 0..23")
	}

	if c.Fetch.Workers < 1 {
		return fmt.Errorf("FETCH_WORKERS must be at least 1")
	}

	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
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
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated ticker list, uppercasing each entry.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return defaultValue
	}
	return out
}
