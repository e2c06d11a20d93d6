package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Query defaults
	DefaultSymbol string

	// Upstream fetch behaviour
	CacheTTL         time.Duration
	MinFetchInterval time.Duration
	UpstreamTimeout  time.Duration

	// Live stream refresh period
	StreamInterval time.Duration

	// Deployment variants
	IncludeAnalytics   bool
	EnforceMarketHours bool
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		DefaultSymbol: getEnv("DEFAULT_SYMBOL", "NIFTY"),

		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 12)) * time.Second,
		MinFetchInterval: time.Duration(getEnvInt("MIN_FETCH_INTERVAL_MS", 1500)) * time.Millisecond,
		UpstreamTimeout:  time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
		StreamInterval:   time.Duration(getEnvInt("STREAM_INTERVAL_SECONDS", 12)) * time.Second,

		IncludeAnalytics:   getEnvBool("INCLUDE_ANALYTICS", true),
		EnforceMarketHours: getEnvBool("ENFORCE_MARKET_HOURS", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
