package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models teamtasks.yml. The data directory holds one JSON
// document per project plus the event journal database.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Journal struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"journal"`
}

// Default returns the built-in configuration: records under
// ~/.team-tasks with the journal enabled.
func Default() *Config {
	var cfg Config
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.DataDir = filepath.Join(home, ".team-tasks")
	cfg.Journal.Enabled = true
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional reads path if it exists; a missing file yields the
// defaults.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config.data_dir is required")
	}
	return nil
}
