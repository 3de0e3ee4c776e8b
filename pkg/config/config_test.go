package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8086" {
		t.Errorf("Expected Port to be 8086, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 25 {
		t.Errorf("Expected DB MaxConns to be 25, got %d", cfg.Database.MaxConns)
	}

	if cfg.Market.RateLimit != 5 {
		t.Errorf("Expected Market RateLimit to be 5, got %v", cfg.Market.RateLimit)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	// Set custom environment variables
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("LOG_LEVEL", "info")
	os.Setenv("MARKET_RATE_LIMIT", "2.5")
	os.Setenv("WATCHLIST", "600519,000001")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("MARKET_RATE_LIMIT")
		os.Unsetenv("WATCHLIST")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}

	if cfg.Market.RateLimit != 2.5 {
		t.Errorf("Expected Market RateLimit to be 2.5, got %v", cfg.Market.RateLimit)
	}

	if cfg.Watchlist != "600519,000001" {
		t.Errorf("Expected Watchlist to round-trip, got %s", cfg.Watchlist)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidRateLimit(t *testing.T) {
	os.Setenv("MARKET_RATE_LIMIT", "-1")
	defer os.Unsetenv("MARKET_RATE_LIMIT")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MARKET_RATE_LIMIT is non-positive, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "1.5")
	defer os.Unsetenv("TEST_FLOAT")

	value := getEnvAsFloat("TEST_FLOAT", 3.0)
	if value != 1.5 {
		t.Errorf("Expected value to be 1.5, got %v", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}

func TestWatchlistSymbols(t *testing.T) {
	cfg := &Config{Watchlist: " ACME, , BETA ,GAMMA"}
	got := cfg.WatchlistSymbols()
	want := []string{"ACME", "BETA", "GAMMA"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d symbols, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected symbol %d to be %s, got %s", i, want[i], got[i])
		}
	}

	if syms := (&Config{}).WatchlistSymbols(); syms != nil {
		t.Errorf("Expected empty watchlist to yield nil, got %v", syms)
	}
}
