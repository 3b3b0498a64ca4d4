package compute

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
)

// emptyCorpusReason explains empty results for widgets whose source pattern
// matched no files.
const emptyCorpusReason = "no matching files"

// AggregationComputer produces vault-wide aggregate statistics over a
// widget's matched file set: the total count, counts per tag, and counts
// per value of each grouped frontmatter field.
type AggregationComputer struct {
	logger ports.Logger
}

// NewAggregationComputer creates a new AggregationComputer.
func NewAggregationComputer(logger ports.Logger) *AggregationComputer {
	return &AggregationComputer{logger: logger}
}

// Type returns the widget type identifier handled by this computer.
func (c *AggregationComputer) Type() string {
	return domain.TypeAggregation
}

// Compute aggregates over the matched corpus. An empty corpus yields an
// IsEmpty result, never an error. A note without usable frontmatter still
// counts toward the total; it simply contributes nothing to the tag and
// field breakdowns.
func (c *AggregationComputer) Compute(ctx context.Context, in ports.ComputeInput) (domain.ComputedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComputedResult{}, err
	}
	if len(in.Notes) == 0 {
		return domain.EmptyResult(emptyCorpusReason), nil
	}

	data := domain.AggregationData{
		TotalCount:  len(in.Notes),
		TagCounts:   make(map[string]int),
		FieldCounts: make(map[string]map[string]int, len(in.Widget.Options.GroupBy)),
	}
	for _, field := range in.Widget.Options.GroupBy {
		data.FieldCounts[field] = make(map[string]int)
	}

	for _, note := range in.Notes {
		for _, tag := range note.Frontmatter.Tags {
			normalized := strings.ToLower(strings.TrimSpace(tag))
			if normalized == "" {
				continue
			}
			data.TagCounts[normalized]++
		}

		for _, field := range in.Widget.Options.GroupBy {
			value, ok := note.Frontmatter.Field(field)
			if !ok || value == "" {
				continue
			}
			data.FieldCounts[field][value]++
		}
	}

	c.logger.Debug(fmt.Sprintf("aggregated %d notes for widget %q", data.TotalCount, in.Widget.ID))

	return domain.ComputedResult{Data: data}, nil
}
