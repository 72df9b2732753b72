package config

import (
	"fmt"
	"strings"

	"priorconf/internal/priors"
)

// Promotion output kinds.
const (
	OutputPreserve = "preserve"
	OutputUniform  = "Uniform"
	OutputGaussian = "Gaussian"
)

// PromotionConfig configures how fitted estimates become next-stage priors.
type PromotionConfig struct {
	// preserve, Uniform, Gaussian
	Output string `yaml:"output"`

	// Floor for Relative half-widths; 0 makes a zero fitted value fail
	MinHalfWidth float64 `yaml:"min_half_width"`

	// Widen to the estimate's spread (times SpreadScale) when it is larger
	UseSpread   bool    `yaml:"use_spread"`
	SpreadScale float64 `yaml:"spread_scale"`
}

// PromoterOptions converts the section into promoter options.
func (c *Config) PromoterOptions() (priors.PromoterOptions, error) {
	opts := priors.PromoterOptions{
		MinHalfWidth: c.Promotion.MinHalfWidth,
		UseSpread:    c.Promotion.UseSpread,
		SpreadScale:  c.Promotion.SpreadScale,
	}
	switch strings.TrimSpace(c.Promotion.Output) {
	case "", OutputPreserve:
		opts.Output = priors.KindUnknown
	default:
		kind, err := priors.ParseKind(c.Promotion.Output)
		if err != nil {
			return priors.PromoterOptions{}, fmt.Errorf("invalid promotion.output: %w", err)
		}
		opts.Output = kind
	}
	if err := opts.Validate(); err != nil {
		return priors.PromoterOptions{}, fmt.Errorf("invalid promotion config: %w", err)
	}
	return opts, nil
}
