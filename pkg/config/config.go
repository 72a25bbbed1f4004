// Package config loads the Coordinator's process-level configuration: the
// ambient concern the routing core itself never touches (SPEC_FULL.md §10.3).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-sourced configuration for the coordinator
// binary. The routing core only ever sees the fields it actually needs
// (Name, Port, PingThreshold, EvictionThreshold); the rest is process
// wiring (scheduling, logging).
type Config struct {
	// Name forms the Coordinator's namespace; its full name on the wire is
	// Name+".COORDINATOR".
	Name string `env:"LECO_COORDINATOR_NAME" envDefault:"R1"`

	// Port is the bind port for the router transport. 0 means "do not
	// bind", used by tests that construct a Coordinator in-process.
	Port uint16 `env:"LECO_COORDINATOR_PORT" envDefault:"12300"`

	PingThreshold     time.Duration `env:"LECO_PING_THRESHOLD" envDefault:"10s"`
	EvictionThreshold time.Duration `env:"LECO_EVICTION_THRESHOLD" envDefault:"30s"`

	// HousekeepingCron schedules the directory-stats logging pass
	// independent of the ping/eviction scan (SPEC_FULL.md §11.4).
	HousekeepingCron string `env:"LECO_HOUSEKEEPING_CRON" envDefault:"*/5 * * * *"`

	LogLevel string `env:"LECO_LOG_LEVEL" envDefault:"info"`
}

// Load reads Config from the process environment, applying the defaults
// above for anything unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("loading coordinator config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that would put the routing core into an
// inconsistent state (e.g. eviction firing before ping ever would).
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("coordinator name must not be empty")
	}
	if c.PingThreshold <= 0 {
		return fmt.Errorf("ping threshold must be positive")
	}
	if c.EvictionThreshold <= c.PingThreshold {
		return fmt.Errorf("eviction threshold (%s) must exceed ping threshold (%s)", c.EvictionThreshold, c.PingThreshold)
	}
	return nil
}
