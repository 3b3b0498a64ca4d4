// Package tui implements the interactive dashboard rendering ground widget
// results.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/facet/internal/core/domain"
)

// Dashboard is the minimal engine surface the TUI needs.
type Dashboard interface {
	ComputeGroundWidgets(ctx context.Context, force bool) []domain.WidgetResult
	CacheSize() int
}

// ResultsMsg delivers a fresh set of ground widget results.
type ResultsMsg struct {
	Results []domain.WidgetResult
	Took    time.Duration
}

// InvalidatedMsg reports a file-change invalidation while the dashboard is
// open; the model recomputes in response.
type InvalidatedMsg struct {
	Summary domain.InvalidationSummary
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	engine  Dashboard
	results []domain.WidgetResult
	took    time.Duration
	width   int
	height  int
	loading bool
	lastInv *domain.InvalidationSummary
}

// NewModel creates a dashboard model over the given engine.
func NewModel(engine Dashboard) Model {
	return Model{engine: engine, loading: true}
}

// Init kicks off the first computation.
func (m Model) Init() tea.Cmd {
	return m.compute(false)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.compute(true)
		}
		return m, nil

	case ResultsMsg:
		m.results = msg.Results
		m.took = msg.Took
		m.loading = false
		return m, nil

	case InvalidatedMsg:
		m.lastInv = &msg.Summary
		m.loading = true
		return m, m.compute(false)
	}

	return m, nil
}

func (m Model) compute(force bool) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		start := time.Now()
		results := engine.ComputeGroundWidgets(context.Background(), force)
		return ResultsMsg{Results: results, Took: time.Since(start)}
	}
}
