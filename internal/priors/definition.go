package priors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Leaf field names as they appear in prior files.
const (
	fieldType           = "type"
	fieldLowerLimit     = "lower_limit"
	fieldUpperLimit     = "upper_limit"
	fieldMean           = "mean"
	fieldSigma          = "sigma"
	fieldWidthModifier  = "width_modifier"
	fieldGaussianLimits = "gaussian_limits"
	fieldValue          = "value"
	fieldLower          = "lower"
	fieldUpper          = "upper"
)

// WidthModifier derives the half-width of a promoted prior.
type WidthModifier struct {
	Kind  WidthKind
	Value float64
}

// HalfWidth returns the raw half-width for a fitted value.
func (w WidthModifier) HalfWidth(fitted float64) float64 {
	if w.Kind == WidthRelative {
		return w.Value * math.Abs(fitted)
	}
	return w.Value
}

// Limits are the absolute bounds a promoted interval may never exceed.
type Limits struct {
	Lower float64
	Upper float64
}

// Unbounded returns limits covering the whole real line.
func Unbounded() Limits {
	return Limits{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Clip intersects an interval with the limits.
func (l Limits) Clip(iv Interval) Interval {
	return Interval{Lower: math.Max(iv.Lower, l.Lower), Upper: math.Min(iv.Upper, l.Upper)}
}

// Interval is a closed range [Lower, Upper].
type Interval struct {
	Lower float64
	Upper float64
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 { return iv.Upper - iv.Lower }

// Clamp moves x into the interval.
func (iv Interval) Clamp(x float64) float64 {
	return math.Min(math.Max(x, iv.Lower), iv.Upper)
}

// Definition is a validated, immutable description of a default prior.
//
// LowerLimit and UpperLimit bound Uniform and LogUniform priors; for Gaussian
// priors they are optional clip bounds and default to -Inf and +Inf.
// Mean and Sigma are only meaningful for Gaussian priors.
type Definition struct {
	Kind           Kind
	LowerLimit     float64
	UpperLimit     float64
	Mean           float64
	Sigma          float64
	Width          WidthModifier
	GaussianLimits Limits
	// Generation counts promotion cycles; declared definitions are generation 0.
	Generation int
}

// State reports where the definition sits in its lifecycle.
func (d Definition) State() State {
	if d.Generation > 0 {
		return StatePromoted
	}
	return StateValidated
}

// Bounds returns the support of the prior.
func (d Definition) Bounds() Interval {
	return Interval{Lower: d.LowerLimit, Upper: d.UpperLimit}
}

// Validate checks the invariants of the definition.
func (d Definition) Validate() error {
	issues := d.check("")
	if len(issues) == 0 {
		return nil
	}
	return &LoadError{Issues: issues}
}

func (d Definition) check(loc string) []Issue {
	var issues []Issue
	add := func(err error, format string, args ...any) {
		issues = append(issues, Issue{Location: loc, Message: fmt.Sprintf(format, args...), Err: err})
	}

	switch d.Kind {
	case KindUniform:
		if !finite(d.LowerLimit) || !finite(d.UpperLimit) {
			add(nil, "uniform limits must be finite, got [%g, %g]", d.LowerLimit, d.UpperLimit)
		} else if d.LowerLimit >= d.UpperLimit {
			add(nil, "lower_limit %g must be below upper_limit %g", d.LowerLimit, d.UpperLimit)
		}
	case KindLogUniform:
		if !finite(d.LowerLimit) || !finite(d.UpperLimit) {
			add(nil, "log-uniform limits must be finite, got [%g, %g]", d.LowerLimit, d.UpperLimit)
		} else if d.LowerLimit <= 0 {
			add(nil, "log-uniform lower_limit must be positive, got %g", d.LowerLimit)
		} else if d.LowerLimit >= d.UpperLimit {
			add(nil, "lower_limit %g must be below upper_limit %g", d.LowerLimit, d.UpperLimit)
		}
	case KindGaussian:
		if !finite(d.Mean) {
			add(nil, "gaussian mean must be finite, got %g", d.Mean)
		}
		if !finite(d.Sigma) || d.Sigma <= 0 {
			add(nil, "gaussian sigma must be positive, got %g", d.Sigma)
		}
		if math.IsNaN(d.LowerLimit) || math.IsNaN(d.UpperLimit) || d.LowerLimit > d.UpperLimit {
			add(nil, "lower_limit %g must not exceed upper_limit %g", d.LowerLimit, d.UpperLimit)
		}
	default:
		add(ErrUnsupportedDistribution, "unsupported distribution %s", d.Kind)
	}

	switch d.Width.Kind {
	case WidthAbsolute, WidthRelative:
		if !finite(d.Width.Value) || d.Width.Value <= 0 {
			add(nil, "width_modifier.value must be positive, got %g", d.Width.Value)
		}
	default:
		add(nil, "unknown width_modifier.type %s", d.Width.Kind)
	}

	if math.IsNaN(d.GaussianLimits.Lower) || math.IsNaN(d.GaussianLimits.Upper) {
		add(nil, "gaussian_limits must be numbers")
	} else if d.GaussianLimits.Lower > d.GaussianLimits.Upper {
		add(nil, "gaussian_limits.lower %g exceeds gaussian_limits.upper %g", d.GaussianLimits.Lower, d.GaussianLimits.Upper)
	}
	return issues
}

// NewUniform builds a validated Uniform definition.
func NewUniform(lower, upper float64, width WidthModifier, limits Limits) (Definition, error) {
	d := Definition{Kind: KindUniform, LowerLimit: lower, UpperLimit: upper, Width: width, GaussianLimits: limits}
	return d, d.Validate()
}

// NewLogUniform builds a validated LogUniform definition.
func NewLogUniform(lower, upper float64, width WidthModifier, limits Limits) (Definition, error) {
	d := Definition{Kind: KindLogUniform, LowerLimit: lower, UpperLimit: upper, Width: width, GaussianLimits: limits}
	return d, d.Validate()
}

// NewGaussian builds a validated Gaussian definition without clip bounds.
func NewGaussian(mean, sigma float64, width WidthModifier, limits Limits) (Definition, error) {
	d := Definition{
		Kind:           KindGaussian,
		Mean:           mean,
		Sigma:          sigma,
		LowerLimit:     math.Inf(-1),
		UpperLimit:     math.Inf(1),
		Width:          width,
		GaussianLimits: limits,
	}
	return d, d.Validate()
}

// RawDefinition is a prior leaf as parsed from a file, before validation.
type RawDefinition struct {
	Location string
	Fields   map[string]any
}

// Validate parses and checks the raw leaf. On failure no Definition is
// produced and every problem found is reported.
func (r RawDefinition) Validate() (Definition, []Issue) {
	p := leafParser{loc: r.Location}
	var d Definition

	typeName, ok := p.str(r.Fields, fieldType, fieldType)
	if ok {
		kind, err := ParseKind(typeName)
		if err != nil {
			p.fail(ErrUnsupportedDistribution, "unsupported distribution type %q", typeName)
		}
		d.Kind = kind
	}

	switch d.Kind {
	case KindUniform, KindLogUniform:
		d.LowerLimit, _ = p.num(r.Fields, fieldLowerLimit, fieldLowerLimit)
		d.UpperLimit, _ = p.num(r.Fields, fieldUpperLimit, fieldUpperLimit)
	case KindGaussian:
		d.Mean, _ = p.num(r.Fields, fieldMean, fieldMean)
		d.Sigma, _ = p.num(r.Fields, fieldSigma, fieldSigma)
		d.LowerLimit = p.optionalNum(r.Fields, fieldLowerLimit, math.Inf(-1))
		d.UpperLimit = p.optionalNum(r.Fields, fieldUpperLimit, math.Inf(1))
	}

	if width, ok := p.mapping(r.Fields, fieldWidthModifier, fieldWidthModifier); ok {
		if name, ok := p.str(width, fieldType, fieldWidthModifier+"."+fieldType); ok {
			kind, err := ParseWidthKind(name)
			if err != nil {
				p.fail(nil, "%v", err)
			}
			d.Width.Kind = kind
		}
		d.Width.Value, _ = p.num(width, fieldValue, fieldWidthModifier+"."+fieldValue)
	}

	if limits, ok := p.mapping(r.Fields, fieldGaussianLimits, fieldGaussianLimits); ok {
		d.GaussianLimits.Lower, _ = p.num(limits, fieldLower, fieldGaussianLimits+"."+fieldLower)
		d.GaussianLimits.Upper, _ = p.num(limits, fieldUpper, fieldGaussianLimits+"."+fieldUpper)
	}

	if len(p.issues) > 0 {
		return Definition{}, p.issues
	}
	if issues := d.check(r.Location); len(issues) > 0 {
		return Definition{}, issues
	}
	return d, nil
}

// leafParser accumulates issues while reading loosely typed leaf fields.
type leafParser struct {
	loc    string
	issues []Issue
}

func (p *leafParser) fail(err error, format string, args ...any) {
	p.issues = append(p.issues, Issue{Location: p.loc, Message: fmt.Sprintf(format, args...), Err: err})
}

func (p *leafParser) str(m map[string]any, key, name string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		p.fail(nil, "missing required field %s", name)
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		p.fail(nil, "field %s must be a string, got %T", name, v)
		return "", false
	}
	return s, true
}

func (p *leafParser) num(m map[string]any, key, name string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		p.fail(nil, "missing required field %s", name)
		return 0, false
	}
	f, err := toFloat(v)
	if err != nil {
		p.fail(nil, "field %s: %v", name, err)
		return 0, false
	}
	return f, true
}

func (p *leafParser) optionalNum(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; !ok || v == nil {
		return def
	}
	f, _ := p.num(m, key, key)
	return f
}

func (p *leafParser) mapping(m map[string]any, key, name string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		p.fail(nil, "missing required field %s", name)
		return nil, false
	}
	out, ok := asMap(v)
	if !ok {
		p.fail(nil, "field %s must be a mapping, got %T", name, v)
		return nil, false
	}
	return out, true
}

// toFloat accepts the numeric shapes produced by YAML and JSON decoders, plus
// the strings "inf", "-inf" and their YAML spellings.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		s := strings.TrimSpace(strings.ToLower(n))
		switch s {
		case ".inf", "+.inf":
			return math.Inf(1), nil
		case "-.inf":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not a number: %v (%T)", v, v)
}

// asMap normalises the mapping shapes decoders produce.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
