package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvDecoderBaseURL   = "VINPOINT_DECODER_BASE_URL"
	EnvDecoderTimeout   = "VINPOINT_DECODER_TIMEOUT"
	EnvDecoderCacheSize = "VINPOINT_DECODER_CACHE_SIZE"
)

// DecoderConfig holds NHTSA vPIC VIN decoder client parameters.
type DecoderConfig struct {
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	CacheSize int    `toml:"cache_size"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *DecoderConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DecoderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DecoderConfig) Merge(overlay *DecoderConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
}

func (c *DecoderConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://vpic.nhtsa.dot.gov/api"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.CacheSize == 0 {
		c.CacheSize = 512
	}
}

func (c *DecoderConfig) loadEnv() {
	if v := os.Getenv(EnvDecoderBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvDecoderTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvDecoderCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CacheSize = n
		}
	}
}

func (c *DecoderConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive")
	}
	return nil
}
