// Package config loads SDK client configuration from YAML, unmarshalling
// directly into a defaults-populated struct.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig controls how the SDK client talks to a blockchain node and
// how its message monitor behaves.
type ClientConfig struct {
	Network NetworkConfig `yaml:"network"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// NetworkConfig describes the upstream node endpoint.
type NetworkConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// MonitorConfig tunes the message monitor's reference SDK services
// implementation; a production transport would have its own equivalent
// knobs (spec.md §1 leaves the real transport out of scope).
type MonitorConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"`
}

// Default returns the configuration the CLI and tests fall back to when no
// file is supplied.
func Default() ClientConfig {
	return ClientConfig{
		Network: NetworkConfig{
			Endpoint:       "https://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Monitor: MonitorConfig{
			PollInterval: 500 * time.Millisecond,
		},
	}
}

// Load reads and parses a YAML configuration file. Fields absent from the
// file keep Default()'s values.
func Load(path string) (ClientConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}
