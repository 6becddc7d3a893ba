package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("canonkit")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartWriteSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx := context.Background()
	newCtx, span := m.StartWriteSpan(ctx, "person", "age")
	require.NotNil(t, span)
	assert.NotEqual(t, ctx, newCtx)

	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "canonkit.guard.write", s.Name)

	var source, field string
	for _, attr := range s.Attributes {
		switch attr.Key {
		case "source":
			source = attr.Value.AsString()
		case "field":
			field = attr.Value.AsString()
		}
	}
	assert.Equal(t, "person", source)
	assert.Equal(t, "age", field)
}

func TestStartNotifySpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	_, span := m.StartNotifySpan(context.Background(), "person")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "canonkit.hub.notify", spans[0].Name)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("records error status", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartWriteSpan(context.Background(), "person", "age")
		m.EndSpanWithError(span, errors.New("age must be numeric"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "age must be numeric", spans[0].Status.Description)
		require.Len(t, spans[0].Events, 1) // RecordError event
	})

	t.Run("records ok status on success", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartWriteSpan(context.Background(), "person", "age")
		m.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("nil span is safe", func(t *testing.T) {
		m.EndSpanWithError(nil, errors.New("x"))
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("adds event to recording span", func(t *testing.T) {
		exporter.Reset()

		ctx, span := m.StartNotifySpan(context.Background(), "person")
		m.AddSpanEvent(ctx, "subscriber.failed", attribute.Int("position", 2))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		require.Len(t, spans[0].Events, 1)
		assert.Equal(t, "subscriber.failed", spans[0].Events[0].Name)
	})

	t.Run("no-op without a span in context", func(t *testing.T) {
		m.AddSpanEvent(context.Background(), "orphan")
	})
}
