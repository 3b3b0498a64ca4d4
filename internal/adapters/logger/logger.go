// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/facet/internal/core/ports"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	verbose  bool
	output   io.Writer
}

var _ ports.Logger = (*Logger)(nil)

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.logger = slog.New(l.newHandler(os.Stderr))
	return l
}

// SetVerbose lowers the log level to include Debug messages.
func (l *Logger) SetVerbose(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = enable
	l.logger = slog.New(l.newHandler(l.output))
}

// SetOutput updates the logger's output destination. If w is nil, stderr
// is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler(w))
}

// SetJSON switches between JSON and pretty logging, preserving the current
// output destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.logger = slog.New(l.newHandler(l.output))
}

func (l *Logger) newHandler(w io.Writer) slog.Handler {
	level := slog.LevelInfo
	if l.verbose {
		level = slog.LevelDebug
	}
	if l.jsonMode {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return NewPrettyHandler(w, &slog.HandlerOptions{Level: level})
}

// Debug logs a verbose diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error. For pretty output the zerr chain is rendered
// hierarchically; JSON mode logs the error as a single attribute.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorChain(err))
}

// formatErrorChain walks the error chain and renders it as a main message
// followed by an indented "Caused by:" list.
func formatErrorChain(err error) string {
	var messages []string
	current := err
	for current != nil {
		if m, ok := current.(messager); ok {
			messages = append(messages, m.Message())
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	var lines []string
	for i, msg := range messages {
		switch i {
		case 0:
			lines = append(lines, "Error: "+msg)
		case 1:
			lines = append(lines, "", "  Caused by:", "    → "+msg)
		default:
			lines = append(lines, "    → "+msg)
		}
	}
	return strings.Join(lines, "\n")
}
