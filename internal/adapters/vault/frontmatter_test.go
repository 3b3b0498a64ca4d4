package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		expectedHeader string
		expectedBody   string
		found          bool
	}{
		{
			name:           "unix newlines",
			raw:            "---\ntitle: A\n---\nbody\n",
			expectedHeader: "title: A",
			expectedBody:   "body\n",
			found:          true,
		},
		{
			name:           "windows newlines",
			raw:            "---\r\ntitle: A\r\n---\r\nbody\r\n",
			expectedHeader: "title: A",
			expectedBody:   "body\r\n",
			found:          true,
		},
		{
			name:           "header without body",
			raw:            "---\ntitle: A\n---",
			expectedHeader: "title: A",
			expectedBody:   "",
			found:          true,
		},
		{
			name:         "no header",
			raw:          "just text\n",
			expectedBody: "just text\n",
		},
		{
			name:         "unterminated header",
			raw:          "---\ntitle: A\n",
			expectedBody: "---\ntitle: A\n",
		},
		{
			name:         "delimiter must be its own line",
			raw:          "--- not a header\nbody\n",
			expectedBody: "--- not a header\nbody\n",
		},
		{
			name:         "horizontal rule mid-document is not a header",
			raw:          "text\n---\nmore\n",
			expectedBody: "text\n---\nmore\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, found := splitFrontmatter([]byte(tt.raw))
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expectedHeader, string(header))
			assert.Equal(t, tt.expectedBody, string(body))
		})
	}
}

func TestParseNote(t *testing.T) {
	t.Run("full frontmatter", func(t *testing.T) {
		raw := "---\ntitle: Widget Notes\ntags:\n  - go\n  - caching\nstatus: active\npriority: 2\narchived: false\n---\nThe body.\n"
		note, err := parseNote("notes/widget.md", []byte(raw))
		require.NoError(t, err)

		assert.Equal(t, "notes/widget.md", note.Path)
		assert.Equal(t, "Widget Notes", note.Frontmatter.Title)
		assert.Equal(t, []string{"go", "caching"}, note.Frontmatter.Tags)
		assert.Equal(t, "The body.\n", note.Content)

		status, _ := note.Frontmatter.Field("status")
		assert.Equal(t, "active", status)
		priority, _ := note.Frontmatter.Field("priority")
		assert.Equal(t, "2", priority)
		archived, _ := note.Frontmatter.Field("archived")
		assert.Equal(t, "false", archived)
	})

	t.Run("scalar tag becomes a one-element list", func(t *testing.T) {
		note, err := parseNote("n.md", []byte("---\ntags: solo\n---\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"solo"}, note.Frontmatter.Tags)
	})

	t.Run("nested values are dropped from fields", func(t *testing.T) {
		note, err := parseNote("n.md", []byte("---\nmeta:\n  nested: true\nlinks: [a, b]\n---\n"))
		require.NoError(t, err)
		_, ok := note.Frontmatter.Field("meta")
		assert.False(t, ok)
		_, ok = note.Frontmatter.Field("links")
		assert.False(t, ok)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		note, err := parseNote("n.md", []byte("plain body\n"))
		require.NoError(t, err)
		assert.Equal(t, "plain body\n", note.Content)
		assert.Empty(t, note.Frontmatter.Tags)
	})

	t.Run("invalid yaml header errors", func(t *testing.T) {
		_, err := parseNote("n.md", []byte("---\ntitle: [broken\n---\n"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse frontmatter")
	})
}
