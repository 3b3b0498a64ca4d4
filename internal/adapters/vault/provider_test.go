package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/vault"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeNote(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newProvider(t *testing.T, root string) *vault.Provider {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return vault.NewProvider(root, logger)
}

func TestProvider_ReadMatchedFiles(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "projects/alpha.md", "---\ntitle: Alpha\ntags: [project]\nstatus: active\n---\nAlpha body.\n")
	writeNote(t, root, "projects/sub/beta.md", "Beta body without frontmatter.\n")
	writeNote(t, root, "journal/day.md", "journal entry\n")
	writeNote(t, root, "projects/readme.txt", "not a note\n")
	writeNote(t, root, ".obsidian/workspace.md", "editor state\n")
	writeNote(t, root, "node_modules/pkg/doc.md", "vendored\n")

	p := newProvider(t, root)

	t.Run("matches recursively and sorts by path", func(t *testing.T) {
		notes, err := p.ReadMatchedFiles(context.Background(), "projects/**/*.md")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "projects/alpha.md", notes[0].Path)
		assert.Equal(t, "projects/sub/beta.md", notes[1].Path)

		assert.Equal(t, "Alpha", notes[0].Frontmatter.Title)
		assert.Equal(t, []string{"project"}, notes[0].Frontmatter.Tags)
		status, ok := notes[0].Frontmatter.Field("status")
		require.True(t, ok)
		assert.Equal(t, "active", status)
		assert.Equal(t, "Alpha body.\n", notes[0].Content)
	})

	t.Run("skipped directories and other extensions stay invisible", func(t *testing.T) {
		notes, err := p.ReadMatchedFiles(context.Background(), "**/*")
		require.NoError(t, err)

		paths := make([]string, len(notes))
		for i, n := range notes {
			paths[i] = n.Path
		}
		assert.Equal(t, []string{"journal/day.md", "projects/alpha.md", "projects/sub/beta.md"}, paths)
	})

	t.Run("no matches yields an empty slice", func(t *testing.T) {
		notes, err := p.ReadMatchedFiles(context.Background(), "archive/**")
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.ReadMatchedFiles(ctx, "**/*.md")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProvider_BrokenFrontmatterDegrades(t *testing.T) {
	root := t.TempDir()
	raw := "---\ntitle: [unclosed\n---\nbody text\n"
	writeNote(t, root, "broken.md", raw)

	p := newProvider(t, root)
	notes, err := p.ReadMatchedFiles(context.Background(), "**/*.md")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	// The note survives as raw content so it still counts for aggregation.
	assert.Equal(t, "broken.md", notes[0].Path)
	assert.Equal(t, raw, notes[0].Content)
	assert.Equal(t, domain.Frontmatter{}, notes[0].Frontmatter)
}

func TestProvider_ParseCacheFollowsContent(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "note.md", "---\ntitle: First\n---\nv1\n")

	p := newProvider(t, root)

	notes, err := p.ReadMatchedFiles(context.Background(), "**/*.md")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "First", notes[0].Frontmatter.Title)

	// Unchanged bytes reuse the previous parse.
	again, err := p.ReadMatchedFiles(context.Background(), "**/*.md")
	require.NoError(t, err)
	assert.Equal(t, notes, again)

	// Rewritten bytes are re-parsed.
	writeNote(t, root, "note.md", "---\ntitle: Second\n---\nv2\n")
	updated, err := p.ReadMatchedFiles(context.Background(), "**/*.md")
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "Second", updated[0].Frontmatter.Title)
	assert.Equal(t, "v2\n", updated[0].Content)
}

func TestProvider_FileExists(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "projects/alpha.md", "x")

	p := newProvider(t, root)
	assert.True(t, p.FileExists("projects/alpha.md"))
	assert.False(t, p.FileExists("projects/missing.md"))
}
