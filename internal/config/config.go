package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all priorconf configuration.
type Config struct {
	// Where default priors are read from
	Priors PriorsConfig `yaml:"priors"`

	// Search chaining policy
	Promotion PromotionConfig `yaml:"promotion"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Priors: PriorsConfig{
			UseDefaults: true,
			Watch:       false,
			Debounce:    "250ms",
		},
		Promotion: PromotionConfig{
			Output:       OutputPreserve,
			MinHalfWidth: 0,
			UseSpread:    false,
			SpreadScale:  1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if paths := os.Getenv("PRIORCONF_PATHS"); paths != "" {
		c.Priors.Paths = nil
		for _, p := range filepath.SplitList(paths) {
			if p = strings.TrimSpace(p); p != "" {
				c.Priors.Paths = append(c.Priors.Paths, p)
			}
		}
	}
	if watch := os.Getenv("PRIORCONF_WATCH"); watch != "" {
		if v, err := strconv.ParseBool(watch); err == nil {
			c.Priors.Watch = v
		}
	}
	if output := os.Getenv("PRIORCONF_PROMOTION_OUTPUT"); output != "" {
		c.Promotion.Output = output
	}
	if level := os.Getenv("PRIORCONF_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Priors.Validate(); err != nil {
		return err
	}
	if _, err := c.PromoterOptions(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
