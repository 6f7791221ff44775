// Package config provides the client runtime configuration typically passed
// to the dispatcher via contract.WithConfig: the transport-level settings
// (base URL, timeout, default headers) every resolver shares.
//
// Configuration loads from a TOML file, from environment variables, or both
// (environment values win). The loaded *Config is shared by reference across
// all calls; the dispatcher never copies it, so runtime mutations are
// visible to subsequent calls.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the environment variables: CONTRACT_BASE_URL etc.
const envPrefix = "contract"

// Config is the endpoint-independent transport configuration.
type Config struct {
	BaseURL string            `envconfig:"BASE_URL"`
	Timeout time.Duration     `envconfig:"TIMEOUT"`
	Headers map[string]string `envconfig:"HEADERS"`
}

// fileConfig is the TOML shape. Durations are strings ("5s") parsed with
// time.ParseDuration rather than raw nanosecond integers.
type fileConfig struct {
	BaseURL string            `toml:"base_url"`
	Timeout string            `toml:"timeout"`
	Headers map[string]string `toml:"headers"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// FromFile loads configuration from a TOML file over the defaults.
func FromFile(path string) (*Config, error) {
	cfg, err := fromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(path string) (*Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("headers") {
		cfg.Headers = raw.Headers
	}
	return cfg, nil
}

// FromEnv loads configuration from CONTRACT_-prefixed environment variables
// over the defaults.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the TOML file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := fromFile(path)
	if err != nil {
		return nil, err
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url: %q is not an absolute URL", c.BaseURL)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
