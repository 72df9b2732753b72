package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"priorconf/internal/priors"

	"go.uber.org/zap"
)

// Sources is an ordered list of prior locations layered on top of optional
// bundled defaults. Later sources override earlier ones per class.
type Sources struct {
	// Defaults is read first when set.
	Defaults fs.FS
	// Paths are files (whole trees) or directories (one file per category).
	Paths  []string
	Logger *zap.Logger
}

// Load reads and merges every source.
func (s Sources) Load(ctx context.Context) (priors.RawTree, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var layers []priors.RawTree
	if s.Defaults != nil {
		tree, err := LoadFS(ctx, s.Defaults, logger)
		if err != nil {
			return nil, fmt.Errorf("bundled defaults: %w", err)
		}
		layers = append(layers, tree)
	}

	for _, p := range s.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("prior source %s: %w", p, err)
		}
		var tree priors.RawTree
		if info.IsDir() {
			tree, err = LoadFS(ctx, os.DirFS(p), logger.With(zap.String("dir", p)))
		} else {
			tree, err = LoadFile(p)
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded prior source", zap.String("path", p), zap.Int("categories", len(tree)))
		layers = append(layers, tree)
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("no prior sources configured")
	}
	return Merge(layers...), nil
}

// WatchDirs returns the directories a watcher must observe to see changes to
// the configured paths. Files are watched through their parent directory.
func (s Sources) WatchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, p := range s.Paths {
		info, err := os.Stat(p)
		switch {
		case err != nil:
			continue
		case info.IsDir():
			_ = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					add(name)
				}
				return nil
			})
		default:
			add(filepath.Dir(p))
		}
	}
	return dirs
}
