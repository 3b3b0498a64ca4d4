// Package vault implements the content provider over an on-disk note vault.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/facet/internal/engine/match"
	"go.trai.ch/zerr"
)

var _ ports.ContentProvider = (*Provider)(nil)

// skipDirectories are directories never considered part of the vault.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	".obsidian":    true,
	"node_modules": true,
}

// noteExtension is the only file type the engine computes over.
const noteExtension = ".md"

// Provider reads markdown notes from a vault root directory. Parsed notes
// are cached keyed by an xxhash fingerprint of the raw bytes, so repeated
// widget computations over an unchanged vault do not re-parse every note.
type Provider struct {
	root   string
	logger ports.Logger

	mu     sync.Mutex
	parsed map[string]parsedNote // vault-relative path -> fingerprinted note
}

type parsedNote struct {
	sum  uint64
	note domain.Note
}

// NewProvider creates a Provider rooted at the given vault directory.
func NewProvider(root string, logger ports.Logger) *Provider {
	return &Provider{
		root:   root,
		logger: logger,
		parsed: make(map[string]parsedNote),
	}
}

// ReadMatchedFiles returns the parsed notes matching pattern, sorted
// lexically by vault-relative path. A note that cannot be read is skipped
// with a warning; a note with a broken frontmatter header degrades to a
// content-only note. Neither aborts the read.
func (p *Provider) ReadMatchedFiles(ctx context.Context, pattern string) ([]domain.Note, error) {
	index, err := p.listNotes()
	if err != nil {
		return nil, err
	}

	matched := match.Collect(pattern, index)
	notes := make([]domain.Note, 0, len(matched))
	for _, path := range matched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		note, err := p.readNote(path)
		if err != nil {
			p.logger.Warn(fmt.Sprintf("skipping unreadable note %q: %v", path, err))
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// FileExists reports whether the vault-relative path currently exists.
func (p *Provider) FileExists(path string) bool {
	_, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(path)))
	return err == nil
}

// listNotes walks the vault and returns the vault-relative slash paths of
// all markdown files, sorted lexically.
func (p *Provider) listNotes() ([]string, error) {
	var index []string
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable subtrees rather than failing the walk.
			return nil //nolint:nilerr
		}
		if d.IsDir() {
			if skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), noteExtension) {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		index = append(index, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read vault"), "root", p.root)
	}
	sort.Strings(index)
	return index, nil
}

// readNote loads and parses one note, reusing the previous parse when the
// raw bytes are unchanged.
func (p *Provider) readNote(relPath string) (domain.Note, error) {
	raw, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(relPath)))
	if err != nil {
		return domain.Note{}, err
	}
	sum := xxhash.Sum64(raw)

	p.mu.Lock()
	cached, ok := p.parsed[relPath]
	p.mu.Unlock()
	if ok && cached.sum == sum {
		return cached.note, nil
	}

	note, err := parseNote(relPath, raw)
	if err != nil {
		// Broken frontmatter degrades to a content-only note; the file
		// still counts for aggregation and content-token similarity.
		p.logger.Warn(fmt.Sprintf("bad frontmatter in %q: %v", relPath, err))
		note = domain.Note{Path: relPath, Content: string(raw)}
	}

	p.mu.Lock()
	p.parsed[relPath] = parsedNote{sum: sum, note: note}
	p.mu.Unlock()

	return note, nil
}
