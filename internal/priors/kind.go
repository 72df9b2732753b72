package priors

import "fmt"

// Kind is the distribution family of a prior definition.
type Kind int

const (
	// KindUnknown is the zero value and is never produced by a successful load.
	KindUnknown Kind = iota
	KindUniform
	KindGaussian
	KindLogUniform
)

var kindNames = map[Kind]string{
	KindUnknown:    "Unknown",
	KindUniform:    "Uniform",
	KindGaussian:   "Gaussian",
	KindLogUniform: "LogUniform",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps the `type` tag of a prior leaf to a Kind.
// The tags GaussianPrior, UniformPrior and LogUniformPrior are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Uniform", "UniformPrior":
		return KindUniform, nil
	case "Gaussian", "GaussianPrior":
		return KindGaussian, nil
	case "LogUniform", "LogUniformPrior":
		return KindLogUniform, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedDistribution, s)
}

// WidthKind selects how a promoted half-width is derived.
type WidthKind int

const (
	WidthUnknown WidthKind = iota
	// WidthAbsolute uses the modifier value as the half-width.
	WidthAbsolute
	// WidthRelative scales the modifier value by the fitted magnitude.
	WidthRelative
)

func (w WidthKind) String() string {
	switch w {
	case WidthAbsolute:
		return "Absolute"
	case WidthRelative:
		return "Relative"
	}
	return fmt.Sprintf("WidthKind(%d)", int(w))
}

// ParseWidthKind maps the `width_modifier.type` tag to a WidthKind.
func ParseWidthKind(s string) (WidthKind, error) {
	switch s {
	case "Absolute":
		return WidthAbsolute, nil
	case "Relative":
		return WidthRelative, nil
	}
	return WidthUnknown, fmt.Errorf("unknown width modifier type %q", s)
}
