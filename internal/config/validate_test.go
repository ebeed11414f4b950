package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return Default()
}

func TestValidateAccepts(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad listen", func(c *Config) { c.Listen = "not-an-address:port:extra" }},
		{"zero connect timeout", func(c *Config) { c.ConnectTimeout = 0 }},
		{"negative connect timeout", func(c *Config) { c.ConnectTimeout = -time.Second }},
		{"evict equals connect", func(c *Config) { c.EvictTimeout = c.ConnectTimeout }},
		{"evict below connect", func(c *Config) { c.EvictTimeout = time.Second }},
		{"zero sweep interval", func(c *Config) { c.SweepInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
