package priors

import (
	"errors"
	"fmt"
	"math"
)

// Estimate is a fitted point value (and optional spread) from a previous
// pipeline stage.
type Estimate struct {
	Path   Path
	Value  float64
	Spread *float64
}

// WithSpread returns a copy of the estimate carrying a spread.
func (e Estimate) WithSpread(spread float64) Estimate {
	e.Spread = &spread
	return e
}

// PromoterOptions tune how promoted intervals are derived.
type PromoterOptions struct {
	// Output selects the kind of promoted definitions. KindUnknown keeps the
	// kind of the definition being promoted.
	Output Kind
	// MinHalfWidth floors Relative half-widths. Zero disables the floor, so a
	// fitted value of exactly zero yields a degenerate interval.
	MinHalfWidth float64
	// UseSpread widens the half-width to Spread*SpreadScale when the estimate
	// carries a larger spread.
	UseSpread   bool
	SpreadScale float64
}

// Validate checks the options.
func (o PromoterOptions) Validate() error {
	switch o.Output {
	case KindUnknown, KindUniform, KindGaussian, KindLogUniform:
	default:
		return fmt.Errorf("promoter output: %w: %s", ErrUnsupportedDistribution, o.Output)
	}
	if math.IsNaN(o.MinHalfWidth) || o.MinHalfWidth < 0 {
		return fmt.Errorf("promoter min half width must be >= 0, got %g", o.MinHalfWidth)
	}
	if o.UseSpread && (math.IsNaN(o.SpreadScale) || o.SpreadScale <= 0) {
		return fmt.Errorf("promoter spread scale must be > 0, got %g", o.SpreadScale)
	}
	return nil
}

// Promoter narrows definitions around fitted estimates for the next stage.
type Promoter struct {
	store *Store
	opts  PromoterOptions
}

// NewPromoter returns a promoter. store is only needed by PromotePath and
// PromoteAll and may be nil otherwise.
func NewPromoter(store *Store, opts PromoterOptions) (*Promoter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Promoter{store: store, opts: opts}, nil
}

// Options returns the options the promoter was built with.
func (p *Promoter) Options() PromoterOptions { return p.opts }

// Interval computes the clipped interval a promotion of def around est would use.
// A definition that fails validation is rejected with ErrMalformedConfig.
func (p *Promoter) Interval(def Definition, est Estimate) (Interval, error) {
	if err := def.Validate(); err != nil {
		return Interval{}, fmt.Errorf("promote: %w", err)
	}
	if !finite(est.Value) {
		return Interval{}, fmt.Errorf("%w: value %g", ErrInvalidEstimate, est.Value)
	}

	h := def.Width.HalfWidth(est.Value)
	if def.Width.Kind == WidthRelative && h < p.opts.MinHalfWidth {
		h = p.opts.MinHalfWidth
	}
	if p.opts.UseSpread && est.Spread != nil {
		spread := *est.Spread
		if !finite(spread) || spread < 0 {
			return Interval{}, fmt.Errorf("%w: spread %g", ErrInvalidEstimate, spread)
		}
		h = math.Max(h, spread*p.opts.SpreadScale)
	}

	candidate := Interval{Lower: est.Value - h, Upper: est.Value + h}
	if h <= 0 {
		return Interval{}, &IntervalError{Candidate: candidate, Limits: def.GaussianLimits, Reason: "zero half-width"}
	}

	clipped := def.GaussianLimits.Clip(candidate)
	switch {
	case candidate.Lower >= def.GaussianLimits.Upper || candidate.Upper <= def.GaussianLimits.Lower:
		return Interval{}, &IntervalError{Candidate: candidate, Limits: def.GaussianLimits, Reason: "candidate lies outside gaussian limits"}
	case clipped.Lower >= clipped.Upper:
		return Interval{}, &IntervalError{Candidate: candidate, Limits: def.GaussianLimits, Reason: "clipped interval has zero width"}
	}
	return clipped, nil
}

// Promote returns a new definition centred on the fitted value and bounded by
// the clipped interval. The width modifier and gaussian limits carry over so
// the result can be promoted again. Promote is deterministic. A result that
// would not validate, e.g. an interval overflowing to infinity, fails with
// ErrDegenerateInterval.
func (p *Promoter) Promote(def Definition, est Estimate) (Definition, error) {
	iv, err := p.Interval(def, est)
	if err != nil {
		return Definition{}, err
	}

	kind := p.opts.Output
	if kind == KindUnknown {
		kind = def.Kind
	}

	next := Definition{
		Kind:           kind,
		Width:          def.Width,
		GaussianLimits: def.GaussianLimits,
		Generation:     def.Generation + 1,
	}
	switch kind {
	case KindUniform:
		next.LowerLimit, next.UpperLimit = iv.Lower, iv.Upper
	case KindLogUniform:
		if iv.Lower <= 0 {
			return Definition{}, &IntervalError{Candidate: iv, Limits: def.GaussianLimits, Reason: "log-uniform interval must be positive"}
		}
		next.LowerLimit, next.UpperLimit = iv.Lower, iv.Upper
	case KindGaussian:
		next.Mean = iv.Clamp(est.Value)
		next.Sigma = iv.Width() / 2
		next.LowerLimit, next.UpperLimit = iv.Lower, iv.Upper
	default:
		return Definition{}, fmt.Errorf("promote: %w: %s", ErrUnsupportedDistribution, kind)
	}
	if issues := next.check(""); len(issues) > 0 {
		return Definition{}, &IntervalError{Candidate: iv, Limits: def.GaussianLimits, Reason: issues[0].Message}
	}
	return next, nil
}

// PromotePath resolves the estimate's path and promotes the resolved definition.
func (p *Promoter) PromotePath(est Estimate) (Definition, error) {
	if p.store == nil {
		return Definition{}, errors.New("promote: promoter has no store")
	}
	def, err := p.store.Resolve(est.Path)
	if err != nil {
		return Definition{}, err
	}
	return p.Promote(def, est)
}

// PromoteAll promotes every estimate of a stage against the stored defaults,
// keyed by Path.Key. All failures are joined; the map holds the successes so
// an orchestrator can decide per parameter whether to retry.
func (p *Promoter) PromoteAll(ests []Estimate) (map[string]Definition, error) {
	out := make(map[string]Definition, len(ests))
	var errs []error
	for _, est := range ests {
		def, err := p.PromotePath(est)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", est.Path.Key(), err))
			continue
		}
		out[est.Path.Key()] = def
	}
	return out, errors.Join(errs...)
}
