package engine_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/core/ports/mocks"
	"go.trai.ch/facet/internal/engine"
	"go.trai.ch/facet/internal/engine/compute"
	"go.uber.org/mock/gomock"
)

func newTestLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}

func newTestEngine(ctrl *gomock.Controller, widgets []domain.WidgetDefinition, provider ports.ContentProvider) *engine.Engine {
	logger := newTestLogger(ctrl)
	registry := compute.NewRegistry(
		compute.NewAggregationComputer(logger),
		compute.NewSimilarityComputer(logger),
	)
	return engine.New(widgets, provider, registry, logger)
}

func note(path string, tags ...string) domain.Note {
	return domain.Note{
		Path:        path,
		Frontmatter: domain.Frontmatter{Tags: tags},
		Content:     "shared corpus words",
	}
}

var testWidgets = []domain.WidgetDefinition{
	{ID: "overview", Location: domain.LocationGround, Type: domain.TypeAggregation, Source: "**/*.md"},
	{ID: "projects", Location: domain.LocationGround, Type: domain.TypeAggregation, Source: "projects/**/*.md"},
	{ID: "related", Location: domain.LocationRecall, Type: domain.TypeSimilarity, Source: "**/*.md"},
}

func TestEngine_ComputeGroundWidgets(t *testing.T) {
	t.Run("computes once and serves the cache afterwards", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
			Return([]domain.Note{note("a.md", "go"), note("b.md", "go", "cache")}, nil).
			Times(1)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), "projects/**/*.md").
			Return([]domain.Note{note("projects/p.md")}, nil).
			Times(1)

		eng := newTestEngine(ctrl, testWidgets, provider)
		defer eng.Shutdown()

		first := eng.ComputeGroundWidgets(context.Background(), false)
		require.Len(t, first, 2)

		// Catalog order, not completion order.
		assert.Equal(t, "overview", first[0].Widget.ID)
		assert.Equal(t, "projects", first[1].Widget.ID)

		data, ok := first[0].Result.Data.(domain.AggregationData)
		require.True(t, ok)
		assert.Equal(t, 2, data.TotalCount)
		assert.Equal(t, map[string]int{"go": 2, "cache": 1}, data.TagCounts)

		second := eng.ComputeGroundWidgets(context.Background(), false)
		assert.Equal(t, first, second)
		assert.Equal(t, 2, eng.CacheSize())
	})

	t.Run("force bypasses the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), gomock.Any()).
			Return([]domain.Note{note("a.md")}, nil).
			Times(4)

		eng := newTestEngine(ctrl, testWidgets, provider)
		defer eng.Shutdown()

		eng.ComputeGroundWidgets(context.Background(), false)
		eng.ComputeGroundWidgets(context.Background(), true)
	})

	t.Run("one widget failing does not fail its siblings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
			Return([]domain.Note{note("a.md")}, nil)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), "projects/**/*.md").
			Return(nil, errors.New("disk exploded"))

		eng := newTestEngine(ctrl, testWidgets, provider)
		defer eng.Shutdown()

		results := eng.ComputeGroundWidgets(context.Background(), false)
		require.Len(t, results, 1)
		assert.Equal(t, "overview", results[0].Widget.ID)

		// Nothing is cached for the failed widget.
		assert.Equal(t, 1, eng.CacheSize())
	})

	t.Run("widget with unregistered type fails individually", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)

		widgets := []domain.WidgetDefinition{
			{ID: "odd", Location: domain.LocationGround, Type: "histogram", Source: "**/*.md"},
		}
		eng := newTestEngine(ctrl, widgets, provider)
		defer eng.Shutdown()

		results := eng.ComputeGroundWidgets(context.Background(), false)
		assert.Empty(t, results)
		assert.Equal(t, 0, eng.CacheSize())
	})
}

func TestEngine_ComputeSimilarity(t *testing.T) {
	t.Run("unknown widget id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		eng := newTestEngine(ctrl, testWidgets, mocks.NewMockContentProvider(ctrl))
		defer eng.Shutdown()

		_, err := eng.ComputeSimilarity(context.Background(), "missing", "a.md")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrWidgetNotFound.Error())
	})

	t.Run("ground widget is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		eng := newTestEngine(ctrl, testWidgets, mocks.NewMockContentProvider(ctrl))
		defer eng.Shutdown()

		_, err := eng.ComputeSimilarity(context.Background(), "overview", "a.md")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrNotRecallWidget.Error())
	})

	t.Run("reports cache hits per source path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)
		provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
			Return([]domain.Note{note("a.md", "go"), note("b.md", "go")}, nil).
			Times(2)

		eng := newTestEngine(ctrl, testWidgets, provider)
		defer eng.Shutdown()

		first, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
		require.NoError(t, err)
		assert.False(t, first.CacheHit)

		second, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
		require.NoError(t, err)
		assert.True(t, second.CacheHit)
		assert.Equal(t, first.Result, second.Result)

		// A different source path is a different cache key.
		third, err := eng.ComputeSimilarity(context.Background(), "related", "b.md")
		require.NoError(t, err)
		assert.False(t, third.CacheHit)
		assert.Equal(t, 2, eng.CacheSize())
	})

	t.Run("failure leaves no cache entry behind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockContentProvider(ctrl)
		gomock.InOrder(
			provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
				Return(nil, errors.New("transient read failure")),
			provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
				Return([]domain.Note{note("a.md")}, nil),
		)

		eng := newTestEngine(ctrl, testWidgets, provider)
		defer eng.Shutdown()

		_, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
		require.Error(t, err)
		assert.Equal(t, 0, eng.CacheSize())

		// The next call retries instead of serving the failure.
		res, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
		require.NoError(t, err)
		assert.False(t, res.CacheHit)
		assert.Equal(t, 1, eng.CacheSize())
	})
}

func TestEngine_ComputeRecallWidgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockContentProvider(ctrl)
	provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
		Return([]domain.Note{note("notes/a.md"), note("notes/b.md")}, nil).
		Times(1)

	eng := newTestEngine(ctrl, testWidgets, provider)
	defer eng.Shutdown()

	results := eng.ComputeRecallWidgets(context.Background(), "notes/a.md", false)
	require.Len(t, results, 1)
	assert.Equal(t, "related", results[0].Widget.ID)

	// Paths outside every recall pattern yield no results at all.
	none := eng.ComputeRecallWidgets(context.Background(), "notes/a.txt", false)
	assert.Empty(t, none)
}

// blockingProvider holds every read until release is closed, so concurrent
// callers pile up on the same in-flight computation.
type blockingProvider struct {
	calls   atomic.Int32
	release chan struct{}
	notes   []domain.Note
}

func (p *blockingProvider) ReadMatchedFiles(_ context.Context, _ string) ([]domain.Note, error) {
	p.calls.Add(1)
	<-p.release
	return p.notes, nil
}

func (p *blockingProvider) FileExists(string) bool { return true }

func TestEngine_ConcurrentCallersShareOneComputation(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := &blockingProvider{
		release: make(chan struct{}),
		notes:   []domain.Note{note("a.md", "go"), note("b.md", "go")},
	}

	eng := newTestEngine(ctrl, testWidgets, provider)
	defer eng.Shutdown()

	const callers = 8
	results := make([]domain.RecallResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = eng.ComputeSimilarity(context.Background(), "related", "a.md")
		}()
	}

	// Give the callers time to converge on the flight, then let it finish.
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Result, results[i].Result)
	}
	assert.Equal(t, int32(1), provider.calls.Load(), "only one computation may run per key")
	assert.Equal(t, 1, eng.CacheSize())
}

func TestEngine_HandleFilesChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockContentProvider(ctrl)
	provider.EXPECT().ReadMatchedFiles(gomock.Any(), "**/*.md").
		Return([]domain.Note{note("a.md")}, nil).
		AnyTimes()
	provider.EXPECT().ReadMatchedFiles(gomock.Any(), "projects/**/*.md").
		Return([]domain.Note{note("projects/p.md")}, nil).
		AnyTimes()

	eng := newTestEngine(ctrl, testWidgets, provider)
	defer eng.Shutdown()

	eng.ComputeGroundWidgets(context.Background(), false)
	_, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
	require.NoError(t, err)
	require.Equal(t, 3, eng.CacheSize())

	// journal/ matches overview (**) and related (**) but not projects.
	summary := eng.HandleFilesChanged([]string{"journal/2026-08-23.md"})
	assert.Equal(t, []string{"overview", "related"}, summary.InvalidatedWidgets)
	assert.Equal(t, 2, summary.EntriesInvalidated)
	assert.Equal(t, 1, eng.CacheSize())

	summary = eng.HandleFilesChanged([]string{"projects/p.md"})
	assert.Contains(t, summary.InvalidatedWidgets, "projects")
	assert.Equal(t, 0, eng.CacheSize())
}

func TestEngine_InvalidateAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockContentProvider(ctrl)
	provider.EXPECT().ReadMatchedFiles(gomock.Any(), gomock.Any()).
		Return([]domain.Note{note("a.md")}, nil).
		AnyTimes()

	eng := newTestEngine(ctrl, testWidgets, provider)
	defer eng.Shutdown()

	eng.ComputeGroundWidgets(context.Background(), false)
	require.NotZero(t, eng.CacheSize())

	eng.InvalidateAll()
	assert.Equal(t, 0, eng.CacheSize())
}

func TestEngine_Shutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockContentProvider(ctrl)
	provider.EXPECT().ReadMatchedFiles(gomock.Any(), gomock.Any()).
		Return([]domain.Note{note("a.md")}, nil).
		AnyTimes()

	eng := newTestEngine(ctrl, testWidgets, provider)
	eng.ComputeGroundWidgets(context.Background(), false)

	eng.Shutdown()
	eng.Shutdown() // idempotent

	assert.Equal(t, 0, eng.CacheSize())

	_, err := eng.ComputeSimilarity(context.Background(), "related", "a.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEngineClosed.Error())

	assert.Empty(t, eng.ComputeGroundWidgets(context.Background(), false))
}

// corpusProvider serves a fixed corpus and counts reads.
type corpusProvider struct {
	reads atomic.Int32
	notes []domain.Note
}

func (p *corpusProvider) ReadMatchedFiles(_ context.Context, _ string) ([]domain.Note, error) {
	p.reads.Add(1)
	return p.notes, nil
}

func (p *corpusProvider) FileExists(string) bool { return true }

func TestEngine_LargeCorpusRecallInvalidation(t *testing.T) {
	notes := make([]domain.Note, 0, 1000)
	for i := range 1000 {
		notes = append(notes, domain.Note{
			Path:        fmt.Sprintf("notes/note-%04d.md", i),
			Frontmatter: domain.Frontmatter{Tags: []string{fmt.Sprintf("topic-%d", i%7)}},
		})
	}

	ctrl := gomock.NewController(t)
	provider := &corpusProvider{notes: notes}
	widgets := []domain.WidgetDefinition{
		{ID: "related", Location: domain.LocationRecall, Type: domain.TypeSimilarity, Source: "notes/**/*.md"},
	}
	eng := newTestEngine(ctrl, widgets, provider)
	defer eng.Shutdown()

	start := time.Now()
	first, err := eng.ComputeSimilarity(context.Background(), "related", "notes/note-0500.md")
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	cold := time.Since(start)

	hit, err := eng.ComputeSimilarity(context.Background(), "related", "notes/note-0500.md")
	require.NoError(t, err)
	assert.True(t, hit.CacheHit)

	// A change to a different note in the corpus must invalidate the cached
	// ranking for note-0500: its neighbors may have shifted.
	summary := eng.HandleFilesChanged([]string{"notes/note-0600.md"})
	assert.Equal(t, []string{"related"}, summary.InvalidatedWidgets)

	recomputed, err := eng.ComputeSimilarity(context.Background(), "related", "notes/note-0500.md")
	require.NoError(t, err)
	assert.False(t, recomputed.CacheHit)
	assert.Equal(t, int32(2), provider.reads.Load())

	if !testing.Short() {
		// Generous bound; the point is catching accidental quadratic blowups,
		// not benchmarking.
		assert.Less(t, cold, 2*time.Second)
	}
}

func TestEngine_LargeCorpusGroundAggregation(t *testing.T) {
	notes := make([]domain.Note, 0, 1000)
	for i := range 1000 {
		notes = append(notes, domain.Note{
			Path:        fmt.Sprintf("notes/note-%04d.md", i),
			Frontmatter: domain.Frontmatter{Tags: []string{fmt.Sprintf("topic-%d", i%7)}},
		})
	}

	ctrl := gomock.NewController(t)
	provider := &corpusProvider{notes: notes}
	widgets := []domain.WidgetDefinition{
		{ID: "overview", Location: domain.LocationGround, Type: domain.TypeAggregation, Source: "notes/**/*.md"},
	}
	eng := newTestEngine(ctrl, widgets, provider)
	defer eng.Shutdown()

	start := time.Now()
	results := eng.ComputeGroundWidgets(context.Background(), true)
	cold := time.Since(start)

	require.Len(t, results, 1)
	require.False(t, results[0].Result.IsEmpty)

	data, ok := results[0].Result.Data.(domain.AggregationData)
	require.True(t, ok)
	assert.Equal(t, 1000, data.TotalCount)
	assert.Len(t, data.TagCounts, 7)

	if !testing.Short() {
		assert.Less(t, cold, time.Second)
	}
}

func TestEngine_Widgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := newTestEngine(ctrl, testWidgets, mocks.NewMockContentProvider(ctrl))
	defer eng.Shutdown()

	snapshot := eng.Widgets()
	require.Len(t, snapshot, 3)

	// Mutating the snapshot must not affect the engine's catalog.
	snapshot[0].ID = "mutated"
	assert.Equal(t, "overview", eng.Widgets()[0].ID)
}
