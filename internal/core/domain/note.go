package domain

// Frontmatter holds the parsed YAML header of a note. Unknown scalar fields
// are preserved in Fields so aggregation widgets can group by them.
type Frontmatter struct {
	Title  string
	Tags   []string
	Fields map[string]string
}

// Field returns the value of a named frontmatter field. "title" and "tags"
// are not addressable through Field; use the typed accessors instead.
func (f Frontmatter) Field(name string) (string, bool) {
	v, ok := f.Fields[name]
	return v, ok
}

// Note is a single vault file as seen by the engine: a vault-relative
// slash-separated path, parsed frontmatter and the raw markdown body.
type Note struct {
	Path        string
	Frontmatter Frontmatter
	Content     string
}
