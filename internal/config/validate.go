package config

import (
	"fmt"
	"net"
)

// Validate checks invariants the rest of the system relies on. Exported
// so the daemon can re-check after applying flag overrides.
func Validate(cfg *Config) error {
	if _, err := net.ResolveUDPAddr("udp", cfg.Listen); err != nil {
		return fmt.Errorf("config: invalid listen address %q: %w", cfg.Listen, err)
	}
	if cfg.ConnectTimeout <= 0 {
		return fmt.Errorf("config: connect_timeout must be positive, got %s", cfg.ConnectTimeout)
	}
	if cfg.EvictTimeout <= cfg.ConnectTimeout {
		return fmt.Errorf("config: evict_timeout (%s) must exceed connect_timeout (%s)",
			cfg.EvictTimeout, cfg.ConnectTimeout)
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("config: sweep_interval must be positive, got %s", cfg.SweepInterval)
	}
	return nil
}
