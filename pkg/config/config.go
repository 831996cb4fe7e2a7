// Package config loads factory defaults from a YAML file.
//
// A defaults file replaces the compiled-in last tier of option resolution.
// Fields left out of the file keep their built-in values:
//
//	version: "1.0"
//	runtime:
//	  browser: firefox
//	  headless: false
//	trace_stop:
//	  path: out/trace.zip
//	retry:
//	  max_attempts: 3
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pwfactory/pkg/options"
)

// EnvConfigPath names the environment variable holding the defaults file path.
const EnvConfigPath = "PWFACTORY_CONFIG"

// CurrentVersion is written by Save.
const CurrentVersion = "1.0"

// Default bootstrap retry values. Engine start-up is occasionally flaky.
const (
	DefaultBootstrapDelay       = time.Second
	DefaultBootstrapMaxAttempts = 5
)

// RetryConfig controls retries of environment bootstrap.
type RetryConfig struct {
	Delay       time.Duration `yaml:"delay" json:"delay"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
}

// Config is the on-disk defaults document.
type Config struct {
	Version          string `yaml:"version" json:"version"`
	options.Defaults `yaml:",inline"`
	Retry            RetryConfig `yaml:"retry" json:"retry"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:  CurrentVersion,
		Defaults: options.BuiltinDefaults(),
		Retry: RetryConfig{
			Delay:       DefaultBootstrapDelay,
			MaxAttempts: DefaultBootstrapMaxAttempts,
		},
	}
}

// Load reads the defaults file at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by PWFACTORY_CONFIG, or returns Default()
// when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values that cannot be repaired by defaulting.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must not be negative")
	}
	if c.Launch.StartTimeout < 0 {
		return fmt.Errorf("runtime.start_timeout must not be negative")
	}
	if c.Session.Viewport.Width <= 0 || c.Session.Viewport.Height <= 0 {
		return fmt.Errorf("session.viewport must be positive, got %dx%d",
			c.Session.Viewport.Width, c.Session.Viewport.Height)
	}
	return nil
}

// Save writes c to path atomically.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
