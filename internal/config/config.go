package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Requests are unauthenticated when empty.
	APIKey string

	// Input limits
	MaxUploadBytes int64
	MaxInputBytes  int64

	// Parser
	MaxDepth int

	// Batch fan-out
	MaxConcurrentParse int

	// Result cache and latency window
	CacheTTL    time.Duration
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MDTREE_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		MaxInputBytes:  envInt64("MAX_INPUT_BYTES", 1048576),   // 1MB

		MaxDepth: envInt("PARSE_MAX_DEPTH", 256),

		MaxConcurrentParse: envInt("MAX_CONCURRENT_PARSE", 4),

		CacheTTL:    envDuration("CACHE_TTL", 15*time.Minute),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	return cfg.Normalize()
}

// Normalize replaces out-of-range limits with their defaults. A zero MaxDepth
// (unlimited) and a zero CacheTTL (cache disabled) are kept.
func (c Config) Normalize() Config {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10485760
	}
	if c.MaxInputBytes <= 0 {
		c.MaxInputBytes = 1048576
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 256
	}
	if c.MaxConcurrentParse <= 0 {
		c.MaxConcurrentParse = 4
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = 15 * time.Minute
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = 1 * time.Hour
	}
	return c
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MaxInputBytes > c.MaxUploadBytes {
		return fmt.Errorf("MAX_INPUT_BYTES (%d) must not exceed MAX_UPLOAD_BYTES (%d)", c.MaxInputBytes, c.MaxUploadBytes)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
