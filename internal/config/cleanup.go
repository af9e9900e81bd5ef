package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvCleanupInterval overrides the scheduled cleanup run interval.
	EnvCleanupInterval = "CLEANUP_INTERVAL"

	// EnvCleanupBatchLimit overrides the number of tasks drained per run.
	EnvCleanupBatchLimit = "CLEANUP_BATCH_LIMIT"
)

// CleanupConfig contains settings for the scheduled cleanup runner.
type CleanupConfig struct {
	Interval   string `toml:"interval"`
	BatchLimit int    `toml:"batch_limit"`
}

// IntervalDuration parses and returns the run interval as a time.Duration.
func (c *CleanupConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the cleanup configuration.
func (c *CleanupConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *CleanupConfig) Merge(overlay *CleanupConfig) {
	if overlay.Interval != "" {
		c.Interval = overlay.Interval
	}
	if overlay.BatchLimit != 0 {
		c.BatchLimit = overlay.BatchLimit
	}
}

func (c *CleanupConfig) loadDefaults() {
	if c.Interval == "" {
		c.Interval = "5m"
	}
	if c.BatchLimit == 0 {
		c.BatchLimit = 50
	}
}

func (c *CleanupConfig) loadEnv() {
	if v := os.Getenv(EnvCleanupInterval); v != "" {
		c.Interval = v
	}
	if v := os.Getenv(EnvCleanupBatchLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchLimit = n
		}
	}
}

func (c *CleanupConfig) validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	if c.BatchLimit < 1 || c.BatchLimit > 100 {
		return fmt.Errorf("batch_limit must be between 1 and 100")
	}
	return nil
}
