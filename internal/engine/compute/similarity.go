package compute

import (
	"context"
	"fmt"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

// DefaultSimilarityLimit is the number of entries returned when a widget
// does not configure its own limit.
const DefaultSimilarityLimit = 10

// SimilarityComputer ranks the files of a widget's corpus by Jaccard
// similarity to a source file's feature set.
type SimilarityComputer struct {
	logger ports.Logger
}

// NewSimilarityComputer creates a new SimilarityComputer.
func NewSimilarityComputer(logger ports.Logger) *SimilarityComputer {
	return &SimilarityComputer{logger: logger}
}

// Type returns the widget type identifier handled by this computer.
func (c *SimilarityComputer) Type() string {
	return domain.TypeSimilarity
}

// Compute returns the limit most similar files to in.SourcePath, drawn from
// the corpus. The source path itself is always excluded, even when the
// pattern matches it. A source that is absent from the corpus degrades to
// an empty feature set rather than failing.
func (c *SimilarityComputer) Compute(ctx context.Context, in ports.ComputeInput) (domain.ComputedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComputedResult{}, err
	}

	limit := in.Widget.Options.Limit
	if limit <= 0 {
		limit = DefaultSimilarityLimit
	}

	var sourceFeatures map[string]struct{}
	candidates := make([]domain.Note, 0, len(in.Notes))
	for _, note := range in.Notes {
		if note.Path == in.SourcePath {
			sourceFeatures = FeatureSet(note)
			continue
		}
		candidates = append(candidates, note)
	}
	if sourceFeatures == nil {
		c.logger.Warn(fmt.Sprintf("source %q not in corpus of widget %q, scoring against empty feature set", in.SourcePath, in.Widget.ID))
		sourceFeatures = map[string]struct{}{}
	}

	if len(candidates) == 0 {
		return domain.EmptyResult(emptyCorpusReason), nil
	}

	entries := make([]domain.SimilarityEntry, 0, len(candidates))
	for i, note := range candidates {
		// Bail out promptly on cancellation; corpora can reach thousands
		// of notes.
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return domain.ComputedResult{}, err
			}
		}
		entries = append(entries, domain.SimilarityEntry{
			Path:  note.Path,
			Score: Jaccard(sourceFeatures, FeatureSet(note)),
		})
	}

	domain.SortSimilarityEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return domain.ComputedResult{Data: entries}, nil
}
