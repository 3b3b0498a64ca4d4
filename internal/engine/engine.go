// Package engine implements the widget computation and caching engine: the
// façade callers talk to, the result cache, and pattern-driven
// invalidation.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/engine/compute"
	"go.trai.ch/facet/internal/engine/match"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Engine is the public entry point of the widget engine. It owns the widget
// catalog and the cache, dispatches computations to the registered
// computers, and deduplicates concurrent computations per cache key.
//
// One shared instance serves all concurrent callers. Results are cached
// until a matching file change or InvalidateAll removes them; there is no
// time-based expiry. A computation that is in flight when an invalidating
// change arrives is allowed to complete and populate the cache one last
// time with now-stale data; the next lookup after a further invalidation
// observes absence. Cancelling in-flight work instead was considered and
// rejected as not worth the complexity.
type Engine struct {
	widgets  []domain.WidgetDefinition
	byID     map[string]domain.WidgetDefinition
	provider ports.ContentProvider
	registry *compute.Registry
	cache    *Cache
	logger   ports.Logger
	tracer   ports.Tracer

	group  singleflight.Group
	closed atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracer attaches a tracer recording spans around widget computations.
func WithTracer(t ports.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New creates an Engine over an already-validated widget catalog. Widgets
// whose type has no registered computer are kept in the catalog (the loader
// reports them); their computations fail individually at request time.
func New(
	widgets []domain.WidgetDefinition,
	provider ports.ContentProvider,
	registry *compute.Registry,
	logger ports.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		widgets:  append([]domain.WidgetDefinition(nil), widgets...),
		byID:     make(map[string]domain.WidgetDefinition, len(widgets)),
		provider: provider,
		registry: registry,
		cache:    NewCache(),
		logger:   logger,
		tracer:   noopTracer{},
	}
	for _, w := range e.widgets {
		e.byID[w.ID] = w
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Widgets returns a read-only snapshot of the widget catalog.
func (e *Engine) Widgets() []domain.WidgetDefinition {
	return append([]domain.WidgetDefinition(nil), e.widgets...)
}

// CacheSize returns the number of cached results.
func (e *Engine) CacheSize() int {
	return e.cache.Len()
}

// ComputeGroundWidgets computes every ground widget, serving from the cache
// unless force is set. Widgets are independent: one widget's failure is
// logged and its result omitted while sibling widgets still complete.
// Results are returned in catalog order.
func (e *Engine) ComputeGroundWidgets(ctx context.Context, force bool) []domain.WidgetResult {
	ground := make([]domain.WidgetDefinition, 0, len(e.widgets))
	for _, w := range e.widgets {
		if w.Location == domain.LocationGround {
			ground = append(ground, w)
		}
	}

	// Each goroutine writes its own index; no further synchronization
	// is needed beyond the group wait.
	results := make([]*domain.WidgetResult, len(ground))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, w := range ground {
		g.Go(func() error {
			res, _, err := e.computeKey(ctx, w, "", force)
			if err != nil {
				e.logger.Error(zerr.Wrap(err, fmt.Sprintf("widget %q failed", w.ID)))
				return nil
			}
			results[i] = &domain.WidgetResult{Widget: w, Result: res}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.WidgetResult, 0, len(ground))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// ComputeSimilarity evaluates a recall widget for one source file. On a
// cache hit it returns immediately with CacheHit set; on a miss it
// computes, stores and returns the fresh result.
func (e *Engine) ComputeSimilarity(ctx context.Context, widgetID, sourcePath string) (domain.RecallResult, error) {
	w, ok := e.byID[widgetID]
	if !ok {
		return domain.RecallResult{}, zerr.With(domain.ErrWidgetNotFound, "widget", widgetID)
	}
	if w.Location != domain.LocationRecall {
		return domain.RecallResult{}, zerr.With(domain.ErrNotRecallWidget, "widget", widgetID)
	}

	res, hit, err := e.computeKey(ctx, w, normalizePath(sourcePath), false)
	if err != nil {
		return domain.RecallResult{}, err
	}
	return domain.RecallResult{Result: res, CacheHit: hit}, nil
}

// ComputeRecallWidgets evaluates every recall widget whose source pattern
// matches filePath, using the same cache-or-compute path as
// ComputeSimilarity. Failures are logged and omitted from the results.
func (e *Engine) ComputeRecallWidgets(ctx context.Context, filePath string, force bool) []domain.WidgetResult {
	filePath = normalizePath(filePath)

	out := make([]domain.WidgetResult, 0)
	for _, w := range e.widgets {
		if w.Location != domain.LocationRecall || !match.Matches(w.Source, filePath) {
			continue
		}
		res, _, err := e.computeKey(ctx, w, filePath, force)
		if err != nil {
			e.logger.Error(zerr.Wrap(err, fmt.Sprintf("widget %q failed for %q", w.ID, filePath)))
			continue
		}
		out = append(out, domain.WidgetResult{Widget: w, Result: res})
	}
	return out
}

// InvalidateAll removes every cached result unconditionally.
func (e *Engine) InvalidateAll() {
	e.cache.InvalidateAll()
	e.logger.Debug("cache cleared")
}

// HandleFilesChanged routes a batch of changed vault-relative paths into
// the cache: every widget whose source pattern matches any changed path
// loses its entire cache footprint. The change notification source does
// not distinguish deletions from edits, and neither does invalidation.
func (e *Engine) HandleFilesChanged(changedPaths []string) domain.InvalidationSummary {
	normalized := make([]string, len(changedPaths))
	for i, p := range changedPaths {
		normalized[i] = normalizePath(p)
	}

	summary := e.cache.InvalidateForChangedFiles(normalized, e.widgets)
	if len(summary.InvalidatedWidgets) > 0 {
		e.logger.Info(fmt.Sprintf(
			"invalidated %d entries across %d widgets after %d changed files",
			summary.EntriesInvalidated, len(summary.InvalidatedWidgets), len(changedPaths),
		))
	}
	return summary
}

// Shutdown releases the engine's resources. It is idempotent; operations
// issued after Shutdown fail with ErrEngineClosed.
func (e *Engine) Shutdown() {
	if e.closed.CompareAndSwap(false, true) {
		e.cache.InvalidateAll()
	}
}

// computeKey is the single lookup-or-compute path. The state machine per
// key is absent -> computing -> cached, back to absent on invalidation, or
// absent -> computing -> absent on failure: no entry is ever stored for a
// failed computation.
//
// The singleflight group guarantees at most one computation per key at any
// instant; a second caller for an in-flight key waits for and receives the
// result (or failure) of the one computation.
func (e *Engine) computeKey(
	ctx context.Context,
	w domain.WidgetDefinition,
	sourcePath string,
	force bool,
) (domain.ComputedResult, bool, error) {
	if e.closed.Load() {
		return domain.ComputedResult{}, false, domain.ErrEngineClosed
	}

	key := Key(w.ID, sourcePath)
	if !force {
		if entry, ok := e.cache.Get(key); ok {
			return entry.Result, true, nil
		}
	}

	v, err, _ := e.group.Do(key, func() (any, error) {
		// A racing caller may have stored the result while this one was
		// queued on the flight lock.
		if !force {
			if entry, ok := e.cache.Get(key); ok {
				return entry.Result, nil
			}
		}

		ctx, end := e.tracer.Start(ctx, "facet.compute", map[string]string{
			"widget": w.ID,
			"type":   w.Type,
		})

		res, err := e.computeWidget(ctx, w, sourcePath)
		end(err)
		if err != nil {
			return nil, err
		}

		e.cache.Put(key, w.ID, res)
		return res, nil
	})
	if err != nil {
		return domain.ComputedResult{}, false, err
	}
	return v.(domain.ComputedResult), false, nil
}

func (e *Engine) computeWidget(ctx context.Context, w domain.WidgetDefinition, sourcePath string) (domain.ComputedResult, error) {
	computer, ok := e.registry.Lookup(w.Type)
	if !ok {
		return domain.ComputedResult{}, zerr.With(domain.ErrUnknownWidgetType, "type", w.Type)
	}

	notes, err := e.provider.ReadMatchedFiles(ctx, w.Source)
	if err != nil {
		return domain.ComputedResult{}, zerr.Wrap(err, "failed to read widget sources")
	}

	res, err := computer.Compute(ctx, ports.ComputeInput{
		Widget:     w,
		Notes:      notes,
		SourcePath: sourcePath,
	})
	if err != nil {
		return domain.ComputedResult{}, zerr.Wrap(err, "widget computation failed")
	}
	return res, nil
}

func normalizePath(p string) string {
	return filepath.ToSlash(p)
}

// noopTracer is the default tracer when none is configured.
type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ map[string]string) (context.Context, func(error)) {
	return ctx, func(error) {}
}
