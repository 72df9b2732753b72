package priors

import (
	"fmt"
	"sort"
)

// RawTree is the nested mapping handed over by a file loader:
// category -> class -> parameter -> leaf fields.
type RawTree map[string]any

// Store maps parameter paths to prior definitions. It is immutable once Load
// returns, so any number of goroutines may read it without locking.
type Store struct {
	categories map[string]*category
	order      []string
	leaves     int
}

type category struct {
	classes map[string]*class
	order   []string
}

type class struct {
	params map[string]Definition
	order  []string
}

// Resolution is a definition attached to the path that requested it.
type Resolution struct {
	Path Path
	// Class is the entry of the fallback chain that supplied the definition.
	Class      string
	Definition Definition
}

// State is always StateResolved.
func (Resolution) State() State { return StateResolved }

// Fallback reports whether the definition came from a class other than the
// most specific one.
func (r Resolution) Fallback() bool { return r.Class != r.Path.Class() }

// Load validates the whole raw tree and builds a Store. Any malformed leaf
// fails the entire load with a *LoadError listing every issue.
func Load(raw RawTree) (*Store, error) {
	s := &Store{categories: make(map[string]*category, len(raw))}
	var issues []Issue

	for _, catName := range sortedKeys(raw) {
		classes, ok := asMap(raw[catName])
		if !ok {
			issues = append(issues, Issue{Location: catName, Message: fmt.Sprintf("category must be a mapping of classes, got %T", raw[catName])})
			continue
		}
		cat := &category{classes: make(map[string]*class, len(classes))}
		for _, className := range sortedKeys(classes) {
			loc := catName + "/" + className
			params, ok := asMap(classes[className])
			if !ok {
				issues = append(issues, Issue{Location: loc, Message: fmt.Sprintf("class must be a mapping of parameters, got %T", classes[className])})
				continue
			}
			cls := &class{params: make(map[string]Definition, len(params))}
			for _, paramName := range sortedKeys(params) {
				leafLoc := loc + "/" + paramName
				fields, ok := asMap(params[paramName])
				if !ok {
					issues = append(issues, Issue{Location: leafLoc, Message: fmt.Sprintf("prior must be a mapping, got %T", params[paramName])})
					continue
				}
				def, leafIssues := RawDefinition{Location: leafLoc, Fields: fields}.Validate()
				if len(leafIssues) > 0 {
					issues = append(issues, leafIssues...)
					continue
				}
				cls.params[paramName] = def
				cls.order = append(cls.order, paramName)
				s.leaves++
			}
			cat.classes[className] = cls
			cat.order = append(cat.order, className)
		}
		s.categories[catName] = cat
		s.order = append(s.order, catName)
	}

	if len(issues) > 0 {
		return nil, &LoadError{Issues: issues}
	}
	return s, nil
}

// Resolve returns the definition for a path by walking its class fallback
// chain. The first class that declares the parameter wins.
func (s *Store) Resolve(p Path) (Definition, error) {
	r, err := s.ResolveWithSource(p)
	if err != nil {
		return Definition{}, err
	}
	return r.Definition, nil
}

// ResolveWithSource is Resolve that also reports which class supplied the definition.
func (s *Store) ResolveWithSource(p Path) (Resolution, error) {
	if err := p.Validate(); err != nil {
		return Resolution{}, err
	}
	cat, ok := s.categories[p.Category]
	if !ok {
		return Resolution{}, &ResolveError{Path: p, Kind: ErrUnknownCategory}
	}
	for _, className := range p.Classes {
		cls, ok := cat.classes[className]
		if !ok {
			continue
		}
		if def, ok := cls.params[p.Parameter]; ok {
			return Resolution{Path: p, Class: className, Definition: def}, nil
		}
	}
	return Resolution{}, &ResolveError{Path: p, Kind: ErrUnknownParameter}
}

// Lookup returns the definition declared exactly at (category, class, parameter),
// without any fallback.
func (s *Store) Lookup(categoryName, className, parameter string) (Definition, bool) {
	cat, ok := s.categories[categoryName]
	if !ok {
		return Definition{}, false
	}
	cls, ok := cat.classes[className]
	if !ok {
		return Definition{}, false
	}
	def, ok := cls.params[parameter]
	return def, ok
}

// Categories returns the category names in sorted order.
func (s *Store) Categories() []string {
	return append([]string(nil), s.order...)
}

// Classes returns the class names of a category in sorted order.
func (s *Store) Classes(categoryName string) []string {
	cat, ok := s.categories[categoryName]
	if !ok {
		return nil
	}
	return append([]string(nil), cat.order...)
}

// Parameters returns the parameter names declared by a class in sorted order.
func (s *Store) Parameters(categoryName, className string) []string {
	cat, ok := s.categories[categoryName]
	if !ok {
		return nil
	}
	cls, ok := cat.classes[className]
	if !ok {
		return nil
	}
	return append([]string(nil), cls.order...)
}

// Len returns the number of declared leaves.
func (s *Store) Len() int { return s.leaves }

// Walk visits every declared leaf in key order. It stops at the first error fn returns.
func (s *Store) Walk(fn func(categoryName, className, parameter string, def Definition) error) error {
	for _, catName := range s.order {
		cat := s.categories[catName]
		for _, className := range cat.order {
			cls := cat.classes[className]
			for _, param := range cls.order {
				if err := fn(catName, className, param, cls.params[param]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
