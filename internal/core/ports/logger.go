package ports

import "io"

//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks

// Logger is the logging abstraction used across the engine and adapters.
type Logger interface {
	// Debug logs a verbose diagnostic message.
	Debug(msg string)
	// Info logs an informational message.
	Info(msg string)
	// Warn logs a warning message.
	Warn(msg string)
	// Error logs an error, rendering wrapped causes hierarchically.
	Error(err error)
	// SetOutput updates the logger's output destination.
	SetOutput(w io.Writer)
	// SetJSON switches between JSON and pretty logging.
	SetJSON(enable bool)
}
