package domain

import "sort"

// ComputedResult is the outcome of one widget computation. It carries no
// identity of its own; identity comes from the cache key that stores it.
type ComputedResult struct {
	// Data is the type-specific payload: AggregationData for aggregation
	// widgets, []SimilarityEntry for similarity widgets.
	Data any `json:"data,omitempty"`
	// IsEmpty is set when the widget had nothing to compute over.
	IsEmpty bool `json:"isEmpty,omitempty"`
	// EmptyReason explains an empty result, e.g. "no matching files".
	EmptyReason string `json:"emptyReason,omitempty"`
}

// EmptyResult builds an empty ComputedResult with the given reason.
func EmptyResult(reason string) ComputedResult {
	return ComputedResult{IsEmpty: true, EmptyReason: reason}
}

// AggregationData is the payload of an aggregation widget.
type AggregationData struct {
	// TotalCount is the number of matched files.
	TotalCount int `json:"total_count"`
	// TagCounts maps normalized tag -> number of notes carrying it.
	TagCounts map[string]int `json:"tag_counts,omitempty"`
	// FieldCounts maps a grouped frontmatter field -> value -> note count.
	// Only fields listed in WidgetOptions.GroupBy appear here.
	FieldCounts map[string]map[string]int `json:"field_counts,omitempty"`
}

// SimilarityEntry is one ranked entry of a similarity widget result.
// Score is the Jaccard coefficient in [0, 1].
type SimilarityEntry struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// SortSimilarityEntries orders entries by score descending, ties broken by
// ascending lexical path order so results are deterministic.
func SortSimilarityEntries(entries []SimilarityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Path < entries[j].Path
	})
}

// WidgetResult pairs a widget definition with its computed result, as
// returned by the multi-widget façade operations.
type WidgetResult struct {
	Widget WidgetDefinition `json:"widget"`
	Result ComputedResult   `json:"result"`
}

// RecallResult is the outcome of a per-file widget lookup. CacheHit reports
// whether the result was served from the cache without recomputation.
type RecallResult struct {
	Result   ComputedResult `json:"result"`
	CacheHit bool           `json:"cacheHit"`
}

// CacheEntry is a stored computation keyed by widget id (ground) or widget
// id plus source path (recall).
type CacheEntry struct {
	Key      string
	WidgetID string
	Result   ComputedResult
}

// InvalidationSummary reports what a file-change invalidation removed.
type InvalidationSummary struct {
	// InvalidatedWidgets lists the ids of widgets whose source pattern
	// matched a changed path, sorted lexically.
	InvalidatedWidgets []string `json:"invalidatedWidgets"`
	// EntriesInvalidated is the total number of cache entries removed.
	EntriesInvalidated int `json:"totalEntriesInvalidated"`
}
