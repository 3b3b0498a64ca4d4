// Package telemetry bridges widget computations to OpenTelemetry tracing.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/facet/internal/core/ports"
)

var _ ports.Tracer = (*OTelTracer)(nil)

// OTelTracer implements ports.Tracer on the global OpenTelemetry provider.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer scoped to the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(name)}
}

// Start opens a span. The returned end function closes it; a non-nil error
// marks the span failed.
func (t *OTelTracer) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(error)) {
	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(kv...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// Setup installs an SDK tracer provider as the global OTel provider and
// returns its shutdown function. Span processors are attached by the
// environment (e.g. OTEL_* exporters); without one, spans are dropped at
// negligible cost.
func Setup() func(context.Context) error {
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	return provider.Shutdown
}
