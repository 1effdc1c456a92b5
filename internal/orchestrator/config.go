package orchestrator

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Config controls pipeline execution.
type Config struct {
	Workers int  `toml:"workers"`
	Archive bool `toml:"archive"`
}

// Env maps environment variable names for pipeline configuration.
type Env struct {
	Workers string
	Archive string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Archive {
		c.Archive = true
	}
}

func (c *Config) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Workers = n
			}
		}
	}
	if env.Archive != "" {
		if v := os.Getenv(env.Archive); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Archive = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
