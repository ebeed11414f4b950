package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen         string        `yaml:"listen"`       // UDP telemetry address
	AdminListen    string        `yaml:"admin_listen"` // HTTP admin/metrics address
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	EvictTimeout   time.Duration `yaml:"evict_timeout"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	Relay          Relay         `yaml:"relay"`
}

// Relay configures the optional NATS bridge. Disabled unless URL is set.
type Relay struct {
	URL            string        `yaml:"url"`
	Token          string        `yaml:"token"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Default returns the configuration used when no file is given, matching
// what robots on a pitch-side network expect.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file. A missing file is not an error; the
// defaults are returned so the daemon can run configless.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.AdminListen == "" {
		cfg.AdminListen = ":9090"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.EvictTimeout == 0 {
		cfg.EvictTimeout = 30 * time.Second
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Second
	}
	if cfg.Relay.URL != "" && cfg.Relay.ConnectTimeout == 0 {
		cfg.Relay.ConnectTimeout = 5 * time.Second
	}
}
