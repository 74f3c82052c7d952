// Package config holds the persisted defaults for the zkenc CLI
// (default curve, log level/file, Encap retry bound), adapted from the
// auction daemon's Config/DefaultConfig/LoadConfig/SaveConfig pattern.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the CLI's persisted defaults; any field may be overridden
// per-invocation by a command-line flag.
type Config struct {
	Curve         string `json:"curve"`
	LogLevel      string `json:"log_level"`
	LogFile       string `json:"log_file"`
	MaxRetries    int    `json:"max_retries"`
	NoPublicInput bool   `json:"no_public_input"`
}

// Default returns zkenc's built-in defaults.
func Default() *Config {
	return &Config{
		Curve:      "bn254",
		LogLevel:   "info",
		LogFile:    "",
		MaxRetries: 8,
	}
}

// Load reads configPath if it exists, otherwise writes and returns the
// built-in defaults.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer f.Close()

		var c Config
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return nil, fmt.Errorf("decoding config file: %w", err)
		}
		return &c, nil
	}

	c := Default()
	if err := Save(c, configPath); err != nil {
		return nil, fmt.Errorf("saving default config: %w", err)
	}
	return c, nil
}

// Save writes c to configPath as indented JSON, creating parent
// directories as needed.
func Save(c *Config, configPath string) error {
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Curve != "bn254" && c.Curve != "bls12-381" {
		return fmt.Errorf("curve must be \"bn254\" or \"bls12-381\", got %q", c.Curve)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive")
	}
	return nil
}
