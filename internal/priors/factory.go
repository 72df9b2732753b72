package priors

import (
	"errors"
	"fmt"
	"math"
)

// Prior is a sampling-ready distribution instance. It is a value: every
// model that builds one owns its copy.
type Prior struct {
	Kind Kind
	// Low and High are the support of Uniform and LogUniform priors and the
	// clip bounds of Gaussian priors (infinite when unclipped).
	Low   float64
	High  float64
	Mean  float64
	Sigma float64
}

// Bounds returns the support of the prior.
func (p Prior) Bounds() Interval { return Interval{Lower: p.Low, Upper: p.High} }

// Contains reports whether x lies inside the support.
func (p Prior) Contains(x float64) bool {
	return !math.IsNaN(x) && x >= p.Low && x <= p.High
}

func (p Prior) String() string {
	switch p.Kind {
	case KindGaussian:
		return fmt.Sprintf("Gaussian(mean=%g, sigma=%g, clip=[%g, %g])", p.Mean, p.Sigma, p.Low, p.High)
	default:
		return fmt.Sprintf("%s(%g, %g)", p.Kind, p.Low, p.High)
	}
}

// Factory materialises priors from definitions.
type Factory struct {
	store *Store
}

// NewFactory returns a factory that resolves paths against store. A nil store
// is allowed when only Build is used.
func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

// Build turns a definition into a prior.
func (f *Factory) Build(def Definition) (Prior, error) {
	switch def.Kind {
	case KindUniform, KindLogUniform, KindGaussian:
	default:
		return Prior{}, fmt.Errorf("build prior: %w: %s", ErrUnsupportedDistribution, def.Kind)
	}
	if err := def.Validate(); err != nil {
		return Prior{}, fmt.Errorf("build prior: %w", err)
	}

	switch def.Kind {
	case KindGaussian:
		return Prior{Kind: KindGaussian, Mean: def.Mean, Sigma: def.Sigma, Low: def.LowerLimit, High: def.UpperLimit}, nil
	default:
		return Prior{Kind: def.Kind, Low: def.LowerLimit, High: def.UpperLimit}, nil
	}
}

// BuildPath resolves a path against the factory's store and builds its prior.
func (f *Factory) BuildPath(p Path) (Prior, error) {
	if f.store == nil {
		return Prior{}, errors.New("build prior: factory has no store")
	}
	def, err := f.store.Resolve(p)
	if err != nil {
		return Prior{}, err
	}
	return f.Build(def)
}

// BuildAll builds priors for every path of a model, keyed by Path.Key.
// All failures are reported together; the map holds the successful builds.
func (f *Factory) BuildAll(paths []Path) (map[string]Prior, error) {
	out := make(map[string]Prior, len(paths))
	var errs []error
	for _, p := range paths {
		prior, err := f.BuildPath(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Key(), err))
			continue
		}
		out[p.Key()] = prior
	}
	return out, errors.Join(errs...)
}
