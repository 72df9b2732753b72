package config

import (
	"fmt"
	"io/fs"
	"time"

	"priorconf/internal/defaults"
	"priorconf/internal/loader"

	"go.uber.org/zap"
)

// PriorsConfig configures where prior definitions are loaded from.
type PriorsConfig struct {
	// Files (whole trees) or directories (one file per category), applied in order
	Paths []string `yaml:"paths,omitempty"`

	// Layer the bundled defaults underneath Paths
	UseDefaults bool `yaml:"use_defaults"`

	// Reload when a watched prior file changes
	Watch    bool   `yaml:"watch"`
	Debounce string `yaml:"debounce"`
}

// Validate validates the priors section.
func (c PriorsConfig) Validate() error {
	if len(c.Paths) == 0 && !c.UseDefaults {
		return fmt.Errorf("no prior sources: set priors.paths or priors.use_defaults")
	}
	if c.Debounce != "" {
		if _, err := time.ParseDuration(c.Debounce); err != nil {
			return fmt.Errorf("invalid priors.debounce %q: %w", c.Debounce, err)
		}
	}
	return nil
}

// GetDebounce returns the watcher debounce as a duration.
func (c PriorsConfig) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// Sources builds the loader sources described by the section.
func (c PriorsConfig) Sources(logger *zap.Logger) loader.Sources {
	var base fs.FS
	if c.UseDefaults {
		base = defaults.FS()
	}
	return loader.Sources{
		Defaults: base,
		Paths:    append([]string(nil), c.Paths...),
		Logger:   logger,
	}
}
