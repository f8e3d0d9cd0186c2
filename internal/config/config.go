package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Log        LogConfig
	MarketData MarketDataConfig
	Snapshot   SnapshotConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	Host            string
	Addr            string // Combined host:port for convenience
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// MarketDataConfig holds the Yahoo Finance client and cache settings
type MarketDataConfig struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxConcurrent     int
	QuoteCacheTTL     time.Duration
	ChainCacheTTL     time.Duration
}

// SnapshotConfig holds the daily portfolio snapshot job settings
type SnapshotConfig struct {
	Enabled  bool
	Schedule string // cron expression with a seconds field
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "5001"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second, &errs),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false, &errs),
		},
		MarketData: MarketDataConfig{
			BaseURL:           getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestTimeout:    getEnvDuration("YAHOO_REQUEST_TIMEOUT", 10*time.Second, &errs),
			RequestsPerSecond: getEnvFloat("YAHOO_REQUESTS_PER_SECOND", 5, &errs),
			Burst:             getEnvInt("YAHOO_BURST", 5, &errs),
			MaxConcurrent:     getEnvInt("MARKET_MAX_CONCURRENT", 4, &errs),
			QuoteCacheTTL:     getEnvDuration("QUOTE_CACHE_TTL", time.Minute, &errs),
			ChainCacheTTL:     getEnvDuration("CHAIN_CACHE_TTL", 5*time.Minute, &errs),
		},
		Snapshot: SnapshotConfig{
			Enabled: getEnvBool("SNAPSHOT_ENABLED", true, &errs),
			// 22:30 UTC, after the US market close
			Schedule: getEnv("SNAPSHOT_SCHEDULE", "0 30 22 * * 1-5"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int, errs *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be an integer", key))
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64, errs *[]string) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be a number", key))
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool, errs *[]string) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be a boolean", key))
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be a duration such as 30s", key))
		return defaultValue
	}
	return d
}
