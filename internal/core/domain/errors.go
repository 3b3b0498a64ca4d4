package domain

import "go.trai.ch/zerr"

var (
	// ErrWidgetNotFound is returned when a requested widget id is not in the catalog.
	ErrWidgetNotFound = zerr.New("widget not found")

	// ErrNotRecallWidget is returned when a per-file operation targets a ground widget.
	ErrNotRecallWidget = zerr.New("widget is not a recall widget")

	// ErrUnknownWidgetType is returned when no computer is registered for a widget's type.
	ErrUnknownWidgetType = zerr.New("unknown widget type")

	// ErrInvalidWidgetID is returned when a widget id contains invalid characters.
	ErrInvalidWidgetID = zerr.New("widget id can only contain alphanumeric characters, hyphens and underscores")

	// ErrDuplicateWidgetID is returned when two widget definitions share an id.
	ErrDuplicateWidgetID = zerr.New("duplicate widget id")

	// ErrInvalidLocation is returned when a widget location is neither ground nor recall.
	ErrInvalidLocation = zerr.New("invalid widget location, expected 'ground' or 'recall'")

	// ErrMissingSourcePattern is returned when a widget has no source pattern.
	ErrMissingSourcePattern = zerr.New("missing source pattern")

	// ErrInvalidSourcePattern is returned when a source pattern is not valid glob syntax.
	ErrInvalidSourcePattern = zerr.New("invalid source pattern")

	// ErrInvalidLimit is returned when a widget limit is negative.
	ErrInvalidLimit = zerr.New("limit must not be negative")

	// ErrConfigNotFound is returned when the widget configuration file cannot be found.
	ErrConfigNotFound = zerr.New("could not find facet.yaml")

	// ErrConfigReadFailed is returned when the widget configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the widget configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrEngineClosed is returned when the engine is used after Shutdown.
	ErrEngineClosed = zerr.New("engine is shut down")
)
