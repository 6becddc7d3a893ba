package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records canonkit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLookup records a registry lookup and whether it hit an
	// existing instance.
	RecordLookup(ctx context.Context, source string, hit bool)

	// RecordRead records a guarded read and whether the field was missing.
	RecordRead(ctx context.Context, source, field string, missing bool)

	// RecordWrite records a guarded write with its duration and outcome.
	RecordWrite(ctx context.Context, source, field string, duration time.Duration, err error)

	// RecordNotify records a notification dispatch.
	RecordNotify(ctx context.Context, source string, subscribers, failures int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	lookups          metric.Int64Counter
	reads            metric.Int64Counter
	writes           metric.Int64Counter
	writeRejections  metric.Int64Counter
	writeLatency     metric.Float64Histogram
	notifications    metric.Int64Counter
	notifyLatency    metric.Float64Histogram
	subscriberErrors metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("canonkit")

	lookups, err := meter.Int64Counter("canonkit.registry.lookups",
		metric.WithDescription("Number of registry lookups"),
	)
	if err != nil {
		return nil, err
	}

	reads, err := meter.Int64Counter("canonkit.guard.reads",
		metric.WithDescription("Number of guarded reads"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter("canonkit.guard.writes",
		metric.WithDescription("Number of guarded writes"),
	)
	if err != nil {
		return nil, err
	}

	writeRejections, err := meter.Int64Counter("canonkit.guard.write_rejections",
		metric.WithDescription("Number of guarded writes rejected by validation"),
	)
	if err != nil {
		return nil, err
	}

	writeLatency, err := meter.Float64Histogram("canonkit.guard.write_latency_ms",
		metric.WithDescription("Guarded write latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("canonkit.hub.notifications",
		metric.WithDescription("Number of notification dispatches"),
	)
	if err != nil {
		return nil, err
	}

	notifyLatency, err := meter.Float64Histogram("canonkit.hub.notify_latency_ms",
		metric.WithDescription("Notification dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	subscriberErrors, err := meter.Int64Counter("canonkit.hub.subscriber_errors",
		metric.WithDescription("Number of subscriber failures during dispatch"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookups:          lookups,
		reads:            reads,
		writes:           writes,
		writeRejections:  writeRejections,
		writeLatency:     writeLatency,
		notifications:    notifications,
		notifyLatency:    notifyLatency,
		subscriberErrors: subscriberErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLookup records a registry lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, source string, hit bool) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("hit", hit),
	))
}

// RecordRead records a guarded read.
func (m *otelMetrics) RecordRead(ctx context.Context, source, field string, missing bool) {
	m.reads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("field", field),
		attribute.Bool("missing", missing),
	))
}

// RecordWrite records a guarded write.
func (m *otelMetrics) RecordWrite(ctx context.Context, source, field string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.String("field", field),
	}

	m.writes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.writeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.writeRejections.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNotify records a notification dispatch.
func (m *otelMetrics) RecordNotify(ctx context.Context, source string, subscribers, failures int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
	}

	m.notifications.Add(ctx, 1, metric.WithAttributes(append(attrs,
		attribute.Int("subscribers", subscribers))...))
	m.notifyLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if failures > 0 {
		m.subscriberErrors.Add(ctx, int64(failures), metric.WithAttributes(attrs...))
	}
}
