// Package observability provides production-grade observability features
// for canonkit: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Observability is always best-effort: nothing here may block or fail the
// operation being observed.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds record context to a logger.
// Returns a new logger with a source field.
func EnrichLogger(logger *slog.Logger, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("source", source))
}

// LogCreate logs the creation of a canonical instance.
func LogCreate(logger *slog.Logger, source, key string) {
	if logger == nil {
		return
	}
	logger.Debug("instance created",
		slog.String("source", source),
		slog.String("key", key),
	)
}

// LogWrite logs a successful guarded write with old and new values.
func LogWrite(logger *slog.Logger, source, field string, oldVal, newVal any) {
	if logger == nil {
		return
	}
	logger.Info("field written",
		slog.String("source", source),
		slog.String("field", field),
		slog.Any("old", oldVal),
		slog.Any("new", newVal),
	)
}

// LogWriteRejected logs a write that failed validation.
func LogWriteRejected(logger *slog.Logger, source, field string, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("write rejected",
		slog.String("source", source),
		slog.String("field", field),
		slog.String("reason", reason),
	)
}

// LogRead logs a successful guarded read.
func LogRead(logger *slog.Logger, source, field string, value any) {
	if logger == nil {
		return
	}
	logger.Debug("field read",
		slog.String("source", source),
		slog.String("field", field),
		slog.Any("value", value),
	)
}

// LogMissingField logs a guarded read of an absent field (advisory, non-fatal).
func LogMissingField(logger *slog.Logger, source, field string) {
	if logger == nil {
		return
	}
	logger.Warn("field missing",
		slog.String("source", source),
		slog.String("field", field),
	)
}

// LogNotify logs a completed notification dispatch.
func LogNotify(logger *slog.Logger, source string, subscribers, failures int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("subscribers notified",
		slog.String("source", source),
		slog.Int("subscribers", subscribers),
		slog.Int("failures", failures),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogJournalError logs a journal append failure (non-fatal).
func LogJournalError(logger *slog.Logger, source string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal append failed",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
