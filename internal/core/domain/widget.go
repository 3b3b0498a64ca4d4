// Package domain contains the core types of the facet widget engine.
package domain

// WidgetLocation determines where a widget is rendered and how it is keyed
// in the cache: ground widgets are computed once over the whole vault,
// recall widgets are computed per viewed file.
type WidgetLocation string

const (
	// LocationGround marks a vault-wide widget.
	LocationGround WidgetLocation = "ground"
	// LocationRecall marks a per-file widget.
	LocationRecall WidgetLocation = "recall"
)

// Valid reports whether l is one of the known locations.
func (l WidgetLocation) Valid() bool {
	return l == LocationGround || l == LocationRecall
}

// Widget types shipped with the engine. The computer registry is open;
// these constants only name the built-in implementations.
const (
	TypeAggregation = "aggregation"
	TypeSimilarity  = "similarity"
)

// WidgetOptions holds type-specific widget settings.
type WidgetOptions struct {
	// Limit caps the number of similarity entries returned. Zero means the
	// computer's default.
	Limit int `json:"limit,omitempty"`
	// GroupBy lists frontmatter fields the aggregation computer breaks
	// counts down by (e.g. "status").
	GroupBy []string `json:"groupBy,omitempty"`
}

// WidgetDefinition describes a single dashboard widget. Definitions are
// immutable once loaded; the engine never mutates them.
type WidgetDefinition struct {
	// ID is globally unique among loaded widgets.
	ID string `json:"id"`
	// Location is ground or recall.
	Location WidgetLocation `json:"location"`
	// Type selects the registered computer, e.g. "aggregation".
	Type string `json:"type"`
	// Source is a glob pattern matched against vault-relative paths,
	// with ** for recursive directory matching.
	Source string `json:"source"`
	// Options carries type-specific settings.
	Options WidgetOptions `json:"options,omitempty"`
}
