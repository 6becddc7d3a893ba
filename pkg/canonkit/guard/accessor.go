// Package guard mediates access to plain records through validation and
// formatting hooks.
//
// An Accessor wraps a Record so that every read and write passes through
// field rules before touching the underlying storage. A rejected write
// fails with a *ValidationError and leaves the record unchanged; a valid
// write commits atomically to the single field. Reads may apply a
// per-field Formatter before returning.
//
// The accessor mediates access to the record but does not own it.
//
// Successful reads and writes emit best-effort observability: a structured
// log of old and new values, metrics, an optional journal entry, and (for
// writes) a change event published to an optional hub. None of these may
// block or fail the operation.
package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/canonkit/pkg/canonkit/event"
	"github.com/randalmurphal/canonkit/pkg/canonkit/hub"
	"github.com/randalmurphal/canonkit/pkg/canonkit/journal"
	"github.com/randalmurphal/canonkit/pkg/canonkit/observability"
)

// Record is a plain mapping from field name to value.
// A Record has no behavior of its own; wrap it in an Accessor for guarded
// access.
type Record map[string]any

// Formatter transforms a stored value into its presentation form on read.
type Formatter func(value any) any

// Accessor wraps a Record with validation and formatting hooks.
type Accessor struct {
	source string

	mu     sync.Mutex
	record Record

	rules      map[string][]Rule
	formatters map[string]Formatter

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	changes *hub.Hub[event.Change]
	store   journal.Store
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithRule appends validation rules for a field.
func WithRule(field string, rules ...Rule) Option {
	return func(a *Accessor) {
		a.rules[field] = append(a.rules[field], rules...)
	}
}

// WithRules appends validation rules for many fields at once,
// e.g. the result of RulesFromConfig.
func WithRules(rules map[string][]Rule) Option {
	return func(a *Accessor) {
		for field, rs := range rules {
			a.rules[field] = append(a.rules[field], rs...)
		}
	}
}

// WithFormatter sets the read formatter for a field.
func WithFormatter(field string, f Formatter) Option {
	return func(a *Accessor) {
		a.formatters[field] = f
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Accessor) {
		a.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(a *Accessor) {
		a.metrics = m
	}
}

// WithTracing sets the span manager. Default: no-op.
func WithTracing(s observability.SpanManager) Option {
	return func(a *Accessor) {
		a.spans = s
	}
}

// WithChangeHub publishes a change event to h after every successful write.
func WithChangeHub(h *hub.Hub[event.Change]) Option {
	return func(a *Accessor) {
		a.changes = h
	}
}

// WithJournal appends an entry to store after every successful read and
// write. Append failures are logged and dropped.
func WithJournal(store journal.Store) Option {
	return func(a *Accessor) {
		a.store = store
	}
}

// NewAccessor wraps record in a guarded accessor. The source names the
// record in logs, metrics, and journal entries.
func NewAccessor(source string, record Record, opts ...Option) *Accessor {
	a := &Accessor{
		source:     source,
		record:     record,
		rules:      make(map[string][]Rule),
		formatters: make(map[string]Formatter),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Source returns the name this accessor reports under.
func (a *Accessor) Source() string {
	return a.source
}

// Read returns the value of field, passed through the field's Formatter
// if one is set. Reading an absent field is advisory, not an error: the
// miss is reported through the observability channel and Read returns nil.
func (a *Accessor) Read(ctx context.Context, field string) any {
	a.mu.Lock()
	value, ok := a.record[field]
	a.mu.Unlock()

	if !ok {
		observability.LogMissingField(a.logger, a.source, field)
		a.metrics.RecordRead(ctx, a.source, field, true)
		return nil
	}

	if f, hasFormatter := a.formatters[field]; hasFormatter {
		value = f(value)
	}

	observability.LogRead(a.logger, a.source, field, value)
	a.metrics.RecordRead(ctx, a.source, field, false)
	a.appendJournal(event.NewRead(a.source, field, value))

	return value
}

// Write validates value against the field's rules and commits it to the
// single field. On validation failure it returns a *ValidationError and
// the record is left unchanged; there are no partial writes.
func (a *Accessor) Write(ctx context.Context, field string, value any) error {
	ctx, span := a.spans.StartWriteSpan(ctx, a.source, field)
	start := time.Now()

	for _, rule := range a.rules[field] {
		if err := rule.Validate(field, value); err != nil {
			observability.LogWriteRejected(a.logger, a.source, field, err.Error())
			a.metrics.RecordWrite(ctx, a.source, field, time.Since(start), err)
			a.spans.EndSpanWithError(span, err)
			return err
		}
	}

	a.mu.Lock()
	oldValue := a.record[field]
	a.record[field] = value
	a.mu.Unlock()

	observability.LogWrite(a.logger, a.source, field, oldValue, value)
	a.metrics.RecordWrite(ctx, a.source, field, time.Since(start), nil)
	a.spans.EndSpanWithError(span, nil)

	change := event.NewWrite(a.source, field, oldValue, value)
	a.appendJournal(change)
	a.publish(ctx, change)

	return nil
}

// appendJournal records a change best-effort; failures are logged only.
func (a *Accessor) appendJournal(c event.Change) {
	if a.store == nil {
		return
	}
	if err := a.store.Append(journal.FromChange(c)); err != nil {
		observability.LogJournalError(a.logger, a.source, err)
	}
}

// publish notifies change subscribers best-effort; failures are logged only.
func (a *Accessor) publish(ctx context.Context, c event.Change) {
	if a.changes == nil {
		return
	}
	ctx, span := a.spans.StartNotifySpan(ctx, a.source)
	start := time.Now()
	subscribers := a.changes.Len()
	err := a.changes.Notify(ctx, c)
	a.spans.EndSpanWithError(span, err)

	failures := countFailures(err)
	if err != nil && a.logger != nil {
		a.logger.Warn("change notification failed",
			slog.String("source", a.source),
			slog.String("error", err.Error()),
		)
	}
	elapsed := time.Since(start)
	observability.LogNotify(a.logger, a.source, subscribers, failures, float64(elapsed.Milliseconds()))
	a.metrics.RecordNotify(ctx, a.source, subscribers, failures, elapsed)
}

// countFailures counts the individual errors inside an aggregate from
// errors.Join.
func countFailures(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
