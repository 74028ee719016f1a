// Package config loads the lpi configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultAPIURL   = "https://api.linear.app/graphql"
	DefaultDebounce = 300 * time.Millisecond
	DefaultPageSize = 50
)

// ConfigFileName is the configuration file name inside the config directory
const ConfigFileName = "config.yml"

// Config represents the lpi configuration file
type Config struct {
	APIURL      string        `yaml:"api_url"`
	APIKey      string        `yaml:"api_key,omitempty"`
	Project     string        `yaml:"project,omitempty"`
	Debounce    time.Duration `yaml:"debounce"`
	PageSize    int           `yaml:"page_size"`
	CycleFilter bool          `yaml:"cycle_filter"`
	LogFile     string        `yaml:"log_file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		Debounce:    DefaultDebounce,
		PageSize:    DefaultPageSize,
		CycleFilter: true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lpi/config.yml, falling back to
// ~/.config/lpi/config.yml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lpi", ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lpi", ConfigFileName), nil
}

// Load reads and parses a configuration file from the given path.
// Keys missing from the file keep their defaults, and a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return nil
}
