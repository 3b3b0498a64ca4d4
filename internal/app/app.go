// Package app implements the application layer wiring the engine, the
// vault adapters and the user-facing commands together.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/facet/internal/adapters/config"
	"go.trai.ch/facet/internal/adapters/telemetry"
	"go.trai.ch/facet/internal/adapters/tui"
	"go.trai.ch/facet/internal/adapters/vault"
	"go.trai.ch/facet/internal/adapters/watcher"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/engine"
	"go.trai.ch/facet/internal/engine/compute"
	"go.trai.ch/zerr"
)

// debounceWindow coalesces editor save bursts into one invalidation batch.
const debounceWindow = 400 * time.Millisecond

// App carries the application-wide collaborators.
type App struct {
	logger     ports.Logger
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(logger ports.Logger) *App {
	return &App{logger: logger}
}

// WithTeaOptions adds bubbletea program options. Primarily used by tests to
// detach the dashboard from the terminal.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// CreateEngine builds a ready-to-use engine over the vault at vaultRoot.
// Widget definitions that failed validation are reported in the returned
// LoadResult and excluded from the catalog; they never fail engine
// creation.
func (a *App) CreateEngine(vaultRoot string) (*engine.Engine, *config.LoadResult, error) {
	absRoot, err := filepath.Abs(vaultRoot)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to resolve vault root")
	}

	registry := compute.NewRegistry(
		compute.NewAggregationComputer(a.logger),
		compute.NewSimilarityComputer(a.logger),
	)

	loadResult, err := config.NewLoader(a.logger).Load(absRoot, registry.Types())
	if err != nil {
		return nil, nil, err
	}

	provider := vault.NewProvider(absRoot, a.logger)
	eng := engine.New(
		loadResult.Widgets,
		provider,
		registry,
		a.logger,
		engine.WithTracer(telemetry.NewOTelTracer("facet")),
	)
	return eng, loadResult, nil
}

// RenderOptions configures command output.
type RenderOptions struct {
	JSON  bool
	Force bool
}

// Widgets prints the widget catalog.
func (a *App) Widgets(_ context.Context, vaultRoot string, out io.Writer, opts RenderOptions) error {
	eng, loadResult, err := a.CreateEngine(vaultRoot)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	widgets := eng.Widgets()
	if opts.JSON {
		return writeJSON(out, widgets)
	}

	for _, w := range widgets {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", w.ID, w.Location, w.Type, w.Source)
	}
	for _, loadErr := range loadResult.Errors {
		fmt.Fprintf(out, "# skipped %s: %v\n", loadErr.WidgetID, loadErr.Err)
	}
	return nil
}

// Ground computes all ground widgets and prints their results.
func (a *App) Ground(ctx context.Context, vaultRoot string, out io.Writer, opts RenderOptions) error {
	eng, _, err := a.CreateEngine(vaultRoot)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	results := eng.ComputeGroundWidgets(ctx, opts.Force)
	if opts.JSON {
		return writeJSON(out, results)
	}
	renderResults(out, results)
	return nil
}

// Recall computes all recall widgets matching the given vault-relative
// file path and prints their results.
func (a *App) Recall(ctx context.Context, vaultRoot, filePath string, out io.Writer, opts RenderOptions) error {
	eng, _, err := a.CreateEngine(vaultRoot)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	results := eng.ComputeRecallWidgets(ctx, filePath, opts.Force)
	if opts.JSON {
		return writeJSON(out, results)
	}
	renderResults(out, results)
	return nil
}

// Watch runs the engine with live invalidation until the context is
// cancelled: vault changes are debounced and routed into the cache, and
// every batch logs its invalidation summary.
func (a *App) Watch(ctx context.Context, vaultRoot string) error {
	eng, _, err := a.CreateEngine(vaultRoot)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	// Warm the cache so the first change has something to invalidate.
	eng.ComputeGroundWidgets(ctx, false)

	return a.runWatcher(ctx, vaultRoot, eng, nil)
}

// Dashboard opens the interactive TUI. With watch enabled, vault changes
// invalidate and recompute the visible widgets.
func (a *App) Dashboard(ctx context.Context, vaultRoot string, watch bool) error {
	eng, _, err := a.CreateEngine(vaultRoot)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
	program := tea.NewProgram(tui.NewModel(eng), opts...)

	if watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := a.runWatcher(watchCtx, vaultRoot, eng, func(summary domain.InvalidationSummary) {
				program.Send(tui.InvalidatedMsg{Summary: summary})
			}); err != nil {
				a.logger.Error(err)
			}
		}()
	}

	_, err = program.Run()
	return err
}

// runWatcher wires the fsnotify watcher through the debouncer into the
// engine. onInvalidated, when set, observes every non-empty summary.
func (a *App) runWatcher(
	ctx context.Context,
	vaultRoot string,
	eng *engine.Engine,
	onInvalidated func(domain.InvalidationSummary),
) error {
	absRoot, err := filepath.Abs(vaultRoot)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve vault root")
	}

	w, err := watcher.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create watcher")
	}
	defer func() {
		_ = w.Stop()
	}()

	debouncer := watcher.NewDebouncer(debounceWindow, func(paths []string) {
		rel := make([]string, 0, len(paths))
		for _, p := range paths {
			r, err := filepath.Rel(absRoot, p)
			if err != nil {
				continue
			}
			rel = append(rel, filepath.ToSlash(r))
		}
		summary := eng.HandleFilesChanged(rel)
		if onInvalidated != nil && len(summary.InvalidatedWidgets) > 0 {
			onInvalidated(summary)
		}
	})

	if err := w.Start(ctx, absRoot); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	a.logger.Info(fmt.Sprintf("watching %s", absRoot))

	for event := range w.Events() {
		if filepath.Ext(event.Path) != ".md" && filepath.Base(event.Path) != config.ConfigFileName {
			continue
		}
		debouncer.Add(event.Path)
	}
	debouncer.Flush()
	return ctx.Err()
}

func renderResults(out io.Writer, results []domain.WidgetResult) {
	for _, r := range results {
		fmt.Fprintf(out, "%s:\n", r.Widget.ID)
		if r.Result.IsEmpty {
			fmt.Fprintf(out, "  (empty: %s)\n", r.Result.EmptyReason)
			continue
		}
		switch data := r.Result.Data.(type) {
		case domain.AggregationData:
			fmt.Fprintf(out, "  total_count: %d\n", data.TotalCount)
			for _, tag := range sortedKeys(data.TagCounts) {
				fmt.Fprintf(out, "  #%s: %d\n", tag, data.TagCounts[tag])
			}
			for _, field := range r.Widget.Options.GroupBy {
				for _, value := range sortedKeys(data.FieldCounts[field]) {
					fmt.Fprintf(out, "  %s=%s: %d\n", field, value, data.FieldCounts[field][value])
				}
			}
		case []domain.SimilarityEntry:
			for _, entry := range data {
				fmt.Fprintf(out, "  %.3f  %s\n", entry.Score, entry.Path)
			}
		default:
			fmt.Fprintf(out, "  %v\n", data)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
