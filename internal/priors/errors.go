package priors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedConfig reports a structural or schema violation in the raw tree.
	ErrMalformedConfig = errors.New("malformed prior config")
	// ErrUnknownCategory reports a resolution miss on the category key.
	ErrUnknownCategory = errors.New("unknown prior category")
	// ErrUnknownParameter reports that no class in the fallback chain declares the parameter.
	ErrUnknownParameter = errors.New("unknown prior parameter")
	// ErrUnsupportedDistribution reports a distribution kind the factory cannot build.
	ErrUnsupportedDistribution = errors.New("unsupported distribution")
	// ErrDegenerateInterval reports a promoted interval that is empty after clipping.
	ErrDegenerateInterval = errors.New("degenerate prior interval")
	// ErrInvalidPath reports a parameter path that cannot be resolved at all.
	ErrInvalidPath = errors.New("invalid parameter path")
	// ErrInvalidEstimate reports a fitted estimate that is not a finite number.
	ErrInvalidEstimate = errors.New("invalid fitted estimate")
)

// Issue is a single problem found at one location of the raw tree.
type Issue struct {
	// Location is the dotted key path, e.g. "light_profiles/EllipticalLightProfile/centre_0".
	Location string
	Message  string
	// Err optionally carries a more specific sentinel (ErrUnsupportedDistribution).
	Err error
}

func (i Issue) String() string {
	return i.Location + ": " + i.Message
}

// LoadError collects every issue found while loading a raw tree.
// A load that returns a LoadError published nothing.
type LoadError struct {
	Issues []Issue
}

func (e *LoadError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%v: %s", ErrMalformedConfig, e.Issues[0])
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%v: %d issues: %s", ErrMalformedConfig, len(e.Issues), strings.Join(parts, "; "))
}

// Is matches ErrMalformedConfig and any sentinel carried by an issue.
func (e *LoadError) Is(target error) bool {
	if target == ErrMalformedConfig {
		return true
	}
	for _, issue := range e.Issues {
		if issue.Err != nil && errors.Is(issue.Err, target) {
			return true
		}
	}
	return false
}

// ResolveError is returned when a path does not resolve.
type ResolveError struct {
	Path Path
	// Kind is ErrUnknownCategory, ErrUnknownParameter or ErrInvalidPath.
	Kind error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

func (e *ResolveError) Unwrap() error { return e.Kind }

// IntervalError is returned when promotion cannot produce a usable interval.
type IntervalError struct {
	Candidate Interval
	Limits    Limits
	Reason    string
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("%v: candidate [%g, %g] within limits [%g, %g]: %s",
		ErrDegenerateInterval, e.Candidate.Lower, e.Candidate.Upper, e.Limits.Lower, e.Limits.Upper, e.Reason)
}

func (e *IntervalError) Unwrap() error { return ErrDegenerateInterval }
