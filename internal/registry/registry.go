// Package registry owns the process-wide prior store. The current snapshot
// sits behind a single atomic pointer: a reload builds a complete new Store
// and swaps it in, so readers always see either the old or the new snapshot.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"priorconf/internal/priors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("prior store not loaded")

// Loader produces the raw prior tree; loader.Sources implements it.
type Loader interface {
	Load(ctx context.Context) (priors.RawTree, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (priors.RawTree, error)

func (f LoaderFunc) Load(ctx context.Context) (priors.RawTree, error) { return f(ctx) }

// Snapshot is one published store. Snapshots are never modified.
type Snapshot struct {
	ID         uuid.UUID
	Generation uint64
	LoadedAt   time.Time
	Store      *priors.Store
}

// Factory returns a factory bound to this snapshot.
func (s *Snapshot) Factory() *priors.Factory {
	return priors.NewFactory(s.Store)
}

// Promoter returns a promoter bound to this snapshot.
func (s *Snapshot) Promoter(opts priors.PromoterOptions) (*priors.Promoter, error) {
	return priors.NewPromoter(s.Store, opts)
}

// Registry publishes store snapshots.
type Registry struct {
	loader Loader
	logger *zap.Logger

	current atomic.Pointer[Snapshot]

	// reloadMu serialises loads so generations are published in order.
	reloadMu   sync.Mutex
	generation uint64

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts load outcomes.
type Stats struct {
	Loads     int
	Failures  int
	LastError error
}

// New creates a registry. Nothing is loaded until Load is called.
func New(loader Loader, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{loader: loader, logger: logger}
}

// Load reads the sources, builds a new store and publishes it. On any error
// the previous snapshot stays current.
func (r *Registry) Load(ctx context.Context) (*Snapshot, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	start := time.Now()
	raw, err := r.loader.Load(ctx)
	if err != nil {
		return nil, r.fail(fmt.Errorf("load prior sources: %w", err))
	}
	store, err := priors.Load(raw)
	if err != nil {
		return nil, r.fail(err)
	}
	snap := r.publishLocked(store)
	r.logger.Info("prior store published",
		zap.String("snapshot", snap.ID.String()),
		zap.Uint64("generation", snap.Generation),
		zap.Int("categories", len(store.Categories())),
		zap.Int("leaves", store.Len()),
		zap.Duration("took", time.Since(start)))
	return snap, nil
}

// Publish installs an already built store as the current snapshot.
func (r *Registry) Publish(store *priors.Store) *Snapshot {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.publishLocked(store)
}

func (r *Registry) publishLocked(store *priors.Store) *Snapshot {
	r.generation++
	snap := &Snapshot{
		ID:         uuid.New(),
		Generation: r.generation,
		LoadedAt:   time.Now(),
		Store:      store,
	}
	r.current.Store(snap)

	r.statsMu.Lock()
	r.stats.Loads++
	r.statsMu.Unlock()
	return snap
}

func (r *Registry) fail(err error) error {
	r.statsMu.Lock()
	r.stats.Failures++
	r.stats.LastError = err
	r.statsMu.Unlock()

	fields := []zap.Field{zap.Error(err)}
	if cur := r.current.Load(); cur != nil {
		fields = append(fields, zap.String("kept_snapshot", cur.ID.String()))
	}
	var lerr *priors.LoadError
	if errors.As(err, &lerr) {
		fields = append(fields, zap.Int("issues", len(lerr.Issues)))
	}
	r.logger.Error("prior store load failed", fields...)
	return err
}

// Current returns the published snapshot, or nil before the first load.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Store returns the current store.
func (r *Registry) Store() (*priors.Store, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Store, nil
}

// Stats returns a copy of the load counters.
func (r *Registry) Stats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}
