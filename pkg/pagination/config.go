package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for pagination configuration.
const (
	EnvPaginationDefaultLimit = "PAGINATION_DEFAULT_LIMIT"
	EnvPaginationMaxLimit     = "PAGINATION_MAX_LIMIT"
)

// Config holds pagination settings including default and maximum page limits.
type Config struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultLimit != 0 {
		c.DefaultLimit = overlay.DefaultLimit
	}
	if overlay.MaxLimit != 0 {
		c.MaxLimit = overlay.MaxLimit
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 20
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 100
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPaginationDefaultLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultLimit = n
		}
	}
	if v := os.Getenv(EnvPaginationMaxLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxLimit = n
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive")
	}
	if c.MaxLimit < 1 {
		return fmt.Errorf("max_limit must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit cannot exceed max_limit")
	}
	return nil
}
