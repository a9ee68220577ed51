// Package config resolves runtime settings from defaults, an optional YAML
// file and TABSTASH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TABSTASH"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendKV     = "kv"
)

// Config holds all application configuration. Fields without an env or
// file value keep their defaults.
type Config struct {
	Backend    string `yaml:"backend" envconfig:"BACKEND"`
	DBPath     string `yaml:"db" envconfig:"DB"`
	KVDir      string `yaml:"kv_dir" envconfig:"KV_DIR"`
	LogDir     string `yaml:"log_dir" envconfig:"LOG_DIR"`
	LogLevel   string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Port       int    `yaml:"port" envconfig:"PORT"`
	Profile    string `yaml:"profile" envconfig:"PROFILE"`
	TopDomains int    `yaml:"top_domains" envconfig:"TOP_DOMAINS"`
}

// Default returns default configuration rooted at the user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".local", "share", "tabstash")
	return &Config{
		Backend:    BackendSQLite,
		DBPath:     filepath.Join(dataDir, "tabstash.db"),
		KVDir:      filepath.Join(dataDir, "kv"),
		LogDir:     filepath.Join(dataDir, "logs"),
		LogLevel:   "info",
		Port:       19191,
		TopDomains: 3,
	}
}

// DefaultPath returns the config file location: ~/.config/tabstash/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tabstash", "config.yaml"), nil
}

// Load builds the configuration. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("config: db path is empty")
		}
	case BackendKV:
		if c.KVDir == "" {
			return errors.New("config: kv_dir is empty")
		}
	default:
		return fmt.Errorf("config: unknown backend %q (want %s or %s)", c.Backend, BackendSQLite, BackendKV)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.TopDomains < 0 {
		return fmt.Errorf("config: top_domains must not be negative, got %d", c.TopDomains)
	}
	return nil
}
