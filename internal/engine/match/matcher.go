// Package match implements source pattern matching for widget definitions.
//
// Patterns follow conventional glob syntax with ** for recursive directory
// matching, evaluated against vault-relative slash-separated paths. Matching
// is pure string work; no I/O happens here.
package match

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether path belongs to the input set described by
// pattern. It is deterministic and side-effect free. An invalid pattern
// matches nothing; pattern validity is checked at widget load time.
func Matches(pattern, path string) bool {
	ok, err := doublestar.Match(normalize(pattern), normalize(path))
	if err != nil {
		return false
	}
	return ok
}

// Collect filters the given file index down to the paths matching pattern.
// The result is sorted lexically and deduplicated so downstream
// computations are reproducible across calls against an unchanged index.
func Collect(pattern string, index []string) []string {
	seen := make(map[string]struct{}, len(index))
	matched := make([]string, 0, len(index))
	for _, path := range index {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		if Matches(pattern, path) {
			matched = append(matched, path)
		}
	}
	sort.Strings(matched)
	return matched
}

// Valid reports whether pattern is well-formed glob syntax.
func Valid(pattern string) bool {
	return doublestar.ValidatePattern(normalize(pattern))
}

func normalize(p string) string {
	return filepath.ToSlash(p)
}
