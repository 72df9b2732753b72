// Package loader reads prior files from disk or any fs.FS into the raw tree
// consumed by priors.Load.
//
// A single file passed to LoadFile holds whole categories at its top level.
// A directory passed to LoadFS holds one file per category, named after the
// category with dots replaced by path separators.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"priorconf/internal/priors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxParallelDecodes bounds concurrent file decodes in LoadFS.
const maxParallelDecodes = 8

var extensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// IsPriorFile reports whether name has an extension the loader reads.
func IsPriorFile(name string) bool {
	return extensions[strings.ToLower(path.Ext(name))]
}

// Decode parses YAML or JSON text into a mapping. Empty input yields an empty mapping.
func Decode(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse prior file: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// LoadFile reads a file whose top-level keys are categories.
func LoadFile(filename string) (priors.RawTree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prior file: %w", err)
	}
	tree, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return priors.RawTree(tree), nil
}

// CategoryFor maps a relative file name to its category:
// "mass_profiles/dark_mass_profiles.yaml" -> "mass_profiles.dark_mass_profiles".
func CategoryFor(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", ".")
}

// LoadFS reads every prior file under fsys, one category per file, decoding
// files concurrently. Two files naming the same category are merged; a class
// declared by both is an error.
func LoadFS(ctx context.Context, fsys fs.FS, logger *zap.Logger) (priors.RawTree, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var names []string
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if IsPriorFile(name) && !strings.HasPrefix(d.Name(), ".") {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list prior files: %w", err)
	}
	sort.Strings(names)

	var (
		mu      sync.Mutex
		decoded = make(map[string]map[string]any, len(names))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)
	for _, name := range names {
		name := name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("failed to read prior file %s: %w", name, err)
			}
			classes, err := Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Debug("decoded prior file", zap.String("file", name), zap.Int("classes", len(classes)))
			mu.Lock()
			decoded[name] = classes
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree := priors.RawTree{}
	owner := map[string]string{}
	for _, name := range names {
		cat := CategoryFor(name)
		classes, _ := tree[cat].(map[string]any)
		if classes == nil {
			classes = map[string]any{}
			tree[cat] = classes
		}
		for cls, params := range decoded[name] {
			key := cat + "/" + cls
			if prev, dup := owner[key]; dup {
				return nil, fmt.Errorf("%w: class %s of category %s declared in both %s and %s",
					priors.ErrMalformedConfig, cls, cat, prev, name)
			}
			owner[key] = name
			classes[cls] = params
		}
	}
	return tree, nil
}

// Merge layers raw trees: a class entry of a later tree replaces the same
// class of an earlier one as a whole. The inputs are not modified.
func Merge(trees ...priors.RawTree) priors.RawTree {
	out := priors.RawTree{}
	for _, tree := range trees {
		for cat, v := range tree {
			classes, ok := toMap(v)
			if !ok {
				// Leave a non-mapping category in place so priors.Load reports it.
				out[cat] = v
				continue
			}
			merged, _ := out[cat].(map[string]any)
			if merged == nil {
				merged = make(map[string]any, len(classes))
				out[cat] = merged
			}
			for cls, params := range classes {
				merged[cls] = params
			}
		}
	}
	return out
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
