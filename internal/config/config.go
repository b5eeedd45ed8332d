package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// CacheConfig carries TTL and size bounds for one cache family.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	Port               string
	ChangeChannel      string
	QueryTimeout       time.Duration
	SlowQueryThreshold time.Duration
	RateLimitSearch    RateLimitConfig
	SearchCache        CacheConfig
	SuggestCache       CacheConfig
}

// Load reads configuration from environment variables and applies sane defaults.
// Cache defaults follow the data families: search results stay fresh for 15
// minutes, area suggestions for an hour.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               getEnv("PORT", "8080"),
		ChangeChannel:      getEnv("CHANGE_CHANNEL", "directory_changes"),
		QueryTimeout:       parseDuration(getEnv("QUERY_TIMEOUT", "10s"), 10*time.Second),
		SlowQueryThreshold: parseDuration(getEnv("SLOW_QUERY_THRESHOLD", "200ms"), 200*time.Millisecond),
		SearchCache: CacheConfig{
			TTL:        parseDuration(getEnv("SEARCH_CACHE_TTL", "15m"), 15*time.Minute),
			MaxEntries: parseInt(getEnv("SEARCH_CACHE_MAX_ENTRIES", "500"), 500),
		},
		SuggestCache: CacheConfig{
			TTL:        parseDuration(getEnv("SUGGEST_CACHE_TTL", "1h"), time.Hour),
			MaxEntries: parseInt(getEnv("SUGGEST_CACHE_MAX_ENTRIES", "100"), 100),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(input)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
