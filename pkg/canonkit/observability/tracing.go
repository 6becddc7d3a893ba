package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the canonkit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("canonkit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartWriteSpan starts a span for a guarded write.
	// Returns the context with span and the span itself.
	StartWriteSpan(ctx context.Context, source, field string) (context.Context, trace.Span)

	// StartNotifySpan starts a span for a notification dispatch.
	StartNotifySpan(ctx context.Context, source string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartWriteSpan starts a span for a guarded write.
func (m *otelSpanManager) StartWriteSpan(ctx context.Context, source, field string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "canonkit.guard.write",
		trace.WithAttributes(
			attribute.String("source", source),
			attribute.String("field", field),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartNotifySpan starts a span for a notification dispatch.
func (m *otelSpanManager) StartNotifySpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "canonkit.hub.notify",
		trace.WithAttributes(
			attribute.String("source", source),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
