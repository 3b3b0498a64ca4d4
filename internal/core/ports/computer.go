package ports

import (
	"context"

	"go.trai.ch/facet/internal/core/domain"
)

// ComputeInput is everything a computer needs for one widget computation.
type ComputeInput struct {
	// Widget is the definition being computed.
	Widget domain.WidgetDefinition
	// Notes is the matched corpus, sorted lexically by path.
	Notes []domain.Note
	// SourcePath is the viewed file for recall widgets, empty for ground
	// widgets.
	SourcePath string
}

// Computer is a pluggable computation strategy for one widget type.
// Implementations must be safe for concurrent use; the engine may run
// several computations in parallel.
type Computer interface {
	// Type returns the widget type identifier this computer handles.
	Type() string

	// Compute derives the widget value from the matched corpus. An empty
	// corpus yields an IsEmpty result, never an error; errors are reserved
	// for failures of the computation as a whole.
	Compute(ctx context.Context, in ComputeInput) (domain.ComputedResult, error)
}
