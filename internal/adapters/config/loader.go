// Package config provides the widget definition loader for facet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/engine/match"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var validWidgetIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// LoadError records why one widget definition was rejected. The rest of the
// catalog is unaffected.
type LoadError struct {
	WidgetID string
	Err      error
}

// LoadResult is the outcome of loading facet.yaml: the validated catalog
// plus the per-widget errors of definitions that were excluded.
type LoadResult struct {
	Widgets []domain.WidgetDefinition
	Errors  []LoadError
}

// Loader reads and validates widget definitions from the vault root.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads facet.yaml from the vault root. An invalid widget definition
// is reported in LoadResult.Errors and excluded from the catalog; it never
// fails the load. Only an unreadable or unparsable file is an error.
// knownTypes lists the widget types with registered computers.
func (l *Loader) Load(vaultRoot string, knownTypes []string) (*LoadResult, error) {
	configPath := filepath.Join(vaultRoot, ConfigFileName)
	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrConfigNotFound, "vault", vaultRoot)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	result := &LoadResult{}
	seen := make(map[string]bool, len(file.Widgets))
	for i, dto := range file.Widgets {
		if dto == nil {
			continue
		}
		id := dto.ID
		if id == "" {
			id = fmt.Sprintf("widget[%d]", i)
		}

		if err := validateWidget(dto, seen, knownTypes); err != nil {
			result.Errors = append(result.Errors, LoadError{WidgetID: id, Err: err})
			l.logger.Warn(fmt.Sprintf("skipping widget %q: %v", id, err))
			continue
		}
		seen[dto.ID] = true

		result.Widgets = append(result.Widgets, domain.WidgetDefinition{
			ID:       dto.ID,
			Location: domain.WidgetLocation(dto.Location),
			Type:     dto.Type,
			Source:   dto.Source,
			Options: domain.WidgetOptions{
				Limit:   dto.Options.Limit,
				GroupBy: slices.Clone(dto.Options.GroupBy),
			},
		})
	}

	return result, nil
}

func validateWidget(dto *WidgetDTO, seen map[string]bool, knownTypes []string) error {
	if !validWidgetIDRegex.MatchString(dto.ID) {
		return zerr.With(domain.ErrInvalidWidgetID, "id", dto.ID)
	}
	if seen[dto.ID] {
		return zerr.With(domain.ErrDuplicateWidgetID, "id", dto.ID)
	}
	if !domain.WidgetLocation(dto.Location).Valid() {
		return zerr.With(domain.ErrInvalidLocation, "location", dto.Location)
	}
	if !slices.Contains(knownTypes, dto.Type) {
		return zerr.With(domain.ErrUnknownWidgetType, "type", dto.Type)
	}
	if dto.Source == "" {
		return domain.ErrMissingSourcePattern
	}
	if !match.Valid(dto.Source) {
		return zerr.With(domain.ErrInvalidSourcePattern, "source", dto.Source)
	}
	if dto.Options.Limit < 0 {
		return zerr.With(domain.ErrInvalidLimit, "limit", dto.Options.Limit)
	}
	return nil
}
