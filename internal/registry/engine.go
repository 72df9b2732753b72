package registry

import (
	"context"
	"fmt"

	"priorconf/internal/config"
	"priorconf/internal/logging"
	"priorconf/internal/priors"

	"go.uber.org/zap"
)

// Engine wires a Registry, its optional Watcher and the promotion policy
// from configuration. It is the handle passed to model-building code.
type Engine struct {
	Registry *Registry
	Watcher  *Watcher

	opts   priors.PromoterOptions
	cancel context.CancelFunc
}

// Open validates cfg, performs the initial synchronous load and, when
// configured, starts watching the prior sources. ctx bounds the initial load
// only: the watcher keeps its values but not its cancellation and runs until
// Close.
func Open(ctx context.Context, cfg *config.Config, logs *logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts, err := cfg.PromoterOptions()
	if err != nil {
		return nil, err
	}

	sources := cfg.Priors.Sources(logs.Get(logging.CategoryLoader))
	reg := New(sources, logs.Get(logging.CategoryStore))
	if _, err := reg.Load(ctx); err != nil {
		return nil, err
	}

	e := &Engine{Registry: reg, opts: opts}
	if cfg.Priors.Watch {
		w, err := NewWatcher(reg, sources.WatchDirs(), cfg.Priors.GetDebounce(), logs.Get(logging.CategoryWatcher))
		if err != nil {
			return nil, fmt.Errorf("failed to create watcher: %w", err)
		}
		watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		if err := w.Start(watchCtx); err != nil {
			cancel()
			w.Stop()
			return nil, err
		}
		e.Watcher, e.cancel = w, cancel
	}

	logs.Get(logging.CategoryBoot).Info("prior engine ready",
		zap.Bool("watch", e.Watcher != nil),
		zap.String("promotion_output", cfg.Promotion.Output),
		zap.Float64("min_half_width", opts.MinHalfWidth))
	return e, nil
}

// Factory returns a factory bound to the current snapshot.
func (e *Engine) Factory() (*priors.Factory, error) {
	snap := e.Registry.Current()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Factory(), nil
}

// Promoter returns a promoter bound to the current snapshot.
func (e *Engine) Promoter() (*priors.Promoter, error) {
	snap := e.Registry.Current()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Promoter(e.opts)
}

// Close stops the watcher, if any.
func (e *Engine) Close() {
	if e.cancel != nil {
		e.cancel()
	}
	if e.Watcher != nil {
		e.Watcher.Stop()
	}
}
