package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tradebook/analytics"
)

// Config holds everything the CLI needs to run against one journal.
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
}

// DatabaseConfig points at the SQLite journal file.
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// AnalysisConfig carries defaults for the analyze command.
type AnalysisConfig struct {
	DefaultPeriod  string `json:"default_period" yaml:"default_period"`
	DefaultAccount string `json:"default_account,omitempty" yaml:"default_account,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./tradebook.sqlite"},
		Log:      LogConfig{Level: "info"},
		Analysis: AnalysisConfig{DefaultPeriod: analytics.PeriodAll},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file, then applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load returns the default configuration with environment overrides, for
// runs without a config file.
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv layers TRADEBOOK_* variables over the file values. A local .env
// is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TRADEBOOK_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TRADEBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("TRADEBOOK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("TRADEBOOK_PERIOD"); v != "" {
		c.Analysis.DefaultPeriod = v
	}
	if v := os.Getenv("TRADEBOOK_ACCOUNT"); v != "" {
		c.Analysis.DefaultAccount = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if _, _, err := analytics.CutoffTime(c.Analysis.DefaultPeriod, time.Now()); err != nil {
		return fmt.Errorf("analysis.default_period: %w", err)
	}
	return nil
}
