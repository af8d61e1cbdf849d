package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config controls how pages are fetched.
//
// Security settings:
//   - DenyPrivateIPs: blocks private addresses (SSRF)
//   - MaxBodySize: rejects oversized responses while reading
//   - MaxRedirects: bounds the redirect chain, every hop is validated
type Config struct {
	// Timeout is the maximum duration of a single page request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes.
	// Default: 5MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private addresses.
	// Should always be true outside tests.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    5 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "QuickMind/1.0",
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv overlays PAGE_FETCH_* environment variables on the defaults.
//
// Environment variables:
//   - PAGE_FETCH_TIMEOUT: duration string, e.g. "10s"
//   - PAGE_FETCH_MAX_BODY_SIZE: integer in bytes
//   - PAGE_FETCH_MAX_REDIRECTS: integer
//   - PAGE_FETCH_DENY_PRIVATE_IPS: "true" or "false"
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("PAGE_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("PAGE_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
