package vault

import (
	"bytes"
	"fmt"
	"strconv"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// parseNote splits raw note bytes into a YAML frontmatter header and the
// markdown body. A note without a header is valid; it just has no
// frontmatter.
func parseNote(relPath string, raw []byte) (domain.Note, error) {
	note := domain.Note{Path: relPath}

	header, body, found := splitFrontmatter(raw)
	note.Content = string(body)
	if !found {
		return note, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return domain.Note{}, zerr.Wrap(err, "failed to parse frontmatter")
	}

	note.Frontmatter = frontmatterFromFields(fields)
	return note, nil
}

// splitFrontmatter returns the YAML header between the leading "---" lines
// and the remaining body. found is false when the note has no header.
func splitFrontmatter(raw []byte) (header, body []byte, found bool) {
	if !bytes.HasPrefix(raw, frontmatterDelimiter) {
		return nil, raw, false
	}
	rest, ok := bytes.CutPrefix(raw, frontmatterDelimiter)
	if !ok {
		return nil, raw, false
	}
	// The opening delimiter must be a whole line.
	rest, ok = cutNewline(rest)
	if !ok {
		return nil, raw, false
	}

	for _, terminator := range [][]byte{[]byte("\n---\n"), []byte("\r\n---\r\n"), []byte("\n---\r\n"), []byte("\r\n---\n")} {
		if idx := bytes.Index(rest, terminator); idx >= 0 {
			return rest[:idx], rest[idx+len(terminator):], true
		}
	}
	// A header closed by a trailing "---" with no body after it.
	for _, terminator := range [][]byte{[]byte("\n---"), []byte("\r\n---")} {
		if bytes.HasSuffix(rest, terminator) {
			return rest[:len(rest)-len(terminator)], nil, true
		}
	}
	return nil, raw, false
}

func cutNewline(b []byte) ([]byte, bool) {
	if after, ok := bytes.CutPrefix(b, []byte("\r\n")); ok {
		return after, true
	}
	return bytes.CutPrefix(b, []byte("\n"))
}

// frontmatterFromFields maps loosely-typed YAML fields onto the domain
// frontmatter. Tags may be a sequence or a single scalar; every other
// scalar field is preserved as a string for aggregation grouping.
func frontmatterFromFields(fields map[string]any) domain.Frontmatter {
	fm := domain.Frontmatter{Fields: make(map[string]string)}
	for key, value := range fields {
		switch key {
		case "title":
			fm.Title = scalarString(value)
		case "tags":
			fm.Tags = stringList(value)
		default:
			if s := scalarString(value); s != "" {
				fm.Fields[key] = s
			}
		}
	}
	return fm
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case nil:
		return nil
	default:
		if s := scalarString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		// Nested structures are not meaningful for grouping.
		if _, isMap := v.(map[string]any); isMap {
			return ""
		}
		if _, isList := v.([]any); isList {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}
