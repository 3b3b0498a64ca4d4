package ports

import "context"

// Tracer records timing spans around widget computations. The returned end
// function closes the span; a non-nil error marks it failed.
type Tracer interface {
	Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(err error))
}
