package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// PrettyHandler is a custom slog.Handler producing human-readable, colored
// output for terminal use.
type PrettyHandler struct {
	mu    sync.Mutex
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
}

// NewPrettyHandler creates a PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	level := slog.Leveler(slog.LevelInfo)
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{
		out:   termenv.NewOutput(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders one record as "BADGE message key=value ...".
func (h *PrettyHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(h.badge(record.Level))
	b.WriteString(" ")
	b.WriteString(record.Message)

	writeAttr := func(attr slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(h.dim(fmt.Sprintf("%s=%v", attr.Key, attr.Value)))
		return true
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	record.Attrs(writeAttr)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, b.String())
	return err
}

// WithAttrs returns a handler whose output includes the given attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
	return clone
}

// WithGroup returns the handler unchanged; grouped attributes are flattened
// in pretty output.
func (h *PrettyHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *PrettyHandler) badge(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.out.String("ERROR").Foreground(termenv.ANSIRed).Bold().String()
	case level >= slog.LevelWarn:
		return h.out.String("WARN ").Foreground(termenv.ANSIYellow).Bold().String()
	case level >= slog.LevelInfo:
		return h.out.String("INFO ").Foreground(termenv.ANSIBlue).String()
	default:
		return h.out.String("DEBUG").Foreground(termenv.ANSIBrightBlack).String()
	}
}

func (h *PrettyHandler) dim(s string) string {
	return h.out.String(s).Faint().String()
}
