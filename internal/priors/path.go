package priors

import (
	"fmt"
	"strings"
)

// Wildcard is the class key that holds a category's default entries.
const Wildcard = "*"

// Path identifies one tunable parameter: the category, the class fallback
// chain (most specific first) and the parameter name.
//
// A Path built as a literal resolves against exactly the classes it lists.
// Only NewPath and MustPath append Wildcard, so a literal chain without it
// never falls back to the category defaults.
type Path struct {
	Category  string
	Classes   []string
	Parameter string
}

// NewPath builds a path and appends the category wildcard to the chain when
// it is not already the last entry.
func NewPath(category, parameter string, classes ...string) (Path, error) {
	chain := make([]string, 0, len(classes)+1)
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			chain = append(chain, c)
		}
	}
	if len(chain) == 0 || chain[len(chain)-1] != Wildcard {
		chain = append(chain, Wildcard)
	}
	p := Path{Category: category, Classes: chain, Parameter: parameter}
	if err := p.Validate(); err != nil {
		return Path{}, err
	}
	return p, nil
}

// MustPath is NewPath for static paths; it panics on an invalid path.
func MustPath(category, parameter string, classes ...string) Path {
	p, err := NewPath(category, parameter, classes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that the path can be resolved.
func (p Path) Validate() error {
	switch {
	case p.Category == "":
		return &ResolveError{Path: p, Kind: fmt.Errorf("%w: empty category", ErrInvalidPath)}
	case p.Parameter == "":
		return &ResolveError{Path: p, Kind: fmt.Errorf("%w: empty parameter name", ErrInvalidPath)}
	case len(p.Classes) == 0:
		return &ResolveError{Path: p, Kind: fmt.Errorf("%w: empty class fallback chain", ErrInvalidPath)}
	}
	return nil
}

// Class returns the most specific class of the chain.
func (p Path) Class() string {
	if len(p.Classes) == 0 {
		return ""
	}
	return p.Classes[0]
}

// Key is a stable string key for maps keyed by path.
func (p Path) Key() string {
	return p.Category + "/" + p.Class() + "/" + p.Parameter
}

func (p Path) String() string {
	return fmt.Sprintf("%s/[%s]/%s", p.Category, strings.Join(p.Classes, ","), p.Parameter)
}
