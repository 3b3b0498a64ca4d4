// Package ports defines the interfaces between the engine core and its adapters.
package ports

import (
	"context"

	"go.trai.ch/facet/internal/core/domain"
)

// ContentProvider supplies the current vault content for a widget's source
// pattern. Implementations own all file I/O; the engine never touches the
// filesystem directly.
//
//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks
type ContentProvider interface {
	// ReadMatchedFiles returns the parsed notes whose vault-relative paths
	// match the given glob pattern, sorted lexically by path. A note that
	// cannot be read or parsed is skipped with a warning rather than
	// failing the whole read.
	ReadMatchedFiles(ctx context.Context, pattern string) ([]domain.Note, error)

	// FileExists reports whether the vault-relative path currently exists.
	FileExists(path string) bool
}
