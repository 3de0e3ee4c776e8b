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

// Config holds all configuration for the application. Every environment
// variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data source
	Market MarketConfig

	// Indicator/signal parameter profile, optional YAML path
	ProfilePath string

	// Symbols the scheduler re-analyzes, comma separated
	Watchlist string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// MarketConfig holds the historical bar provider settings. The proxy is an
// explicit option here, never read from ambient process state by the client.
type MarketConfig struct {
	BaseURL   string
	ProxyURL  string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	RateBurst int
	CacheTTL  time.Duration
	MaxBars   int
}

// Load reads configuration from environment variables. Only this function
// calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8086"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "tessa"),
			User:            getEnv("DB_USER", "tessa"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Market data
		Market: MarketConfig{
			BaseURL:   getEnv("MARKET_BASE_URL", "https://quotes.example-exchange.com/api"),
			ProxyURL:  getEnv("MARKET_PROXY_URL", ""),
			Timeout:   getEnvAsDuration("MARKET_TIMEOUT", "10s"),
			RateLimit: getEnvAsFloat("MARKET_RATE_LIMIT", 5),
			RateBurst: getEnvAsInt("MARKET_RATE_BURST", 10),
			CacheTTL:  getEnvAsDuration("MARKET_CACHE_TTL", "10m"),
			MaxBars:   getEnvAsInt("MARKET_MAX_BARS", 500),
		},

		ProfilePath: getEnv("PROFILE_PATH", ""),
		Watchlist:   getEnv("WATCHLIST", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// WatchlistSymbols splits the comma separated WATCHLIST value, dropping
// empty entries.
func (c *Config) WatchlistSymbols() []string {
	var symbols []string
	for _, s := range strings.Split(c.Watchlist, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Market.RateLimit <= 0 {
		return fmt.Errorf("MARKET_RATE_LIMIT must be positive")
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
			filepath.Join(exeDir, "..", "..", ".env"),
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
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
