package canonkit

import (
	"log/slog"

	"github.com/randalmurphal/canonkit/pkg/canonkit/event"
	"github.com/randalmurphal/canonkit/pkg/canonkit/guard"
	"github.com/randalmurphal/canonkit/pkg/canonkit/hub"
	"github.com/randalmurphal/canonkit/pkg/canonkit/journal"
	"github.com/randalmurphal/canonkit/pkg/canonkit/observability"
)

// Record is re-exported so common callers only import the root package.
type Record = guard.Record

// Core is the composition root. It owns the observability stack, the
// change hub, and the optional journal, and wires them into every
// accessor and registry it creates.
//
// Construct one Core at the top of the application and inject it into
// consumers; do not reach for process-wide globals.
type Core struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	changes *hub.Hub[event.Change]
	store   journal.Store
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *Core) {
		c.metrics = m
	}
}

// WithTracing sets the span manager. Default: no-op.
func WithTracing(s observability.SpanManager) Option {
	return func(c *Core) {
		c.spans = s
	}
}

// WithJournal attaches a journal store. Every observed change is
// appended best-effort. The Core takes ownership: Close closes it.
func WithJournal(store journal.Store) Option {
	return func(c *Core) {
		c.store = store
	}
}

// WithChangeHub replaces the Core's change hub.
// Default: a fresh hub per Core.
func WithChangeHub(h *hub.Hub[event.Change]) Option {
	return func(c *Core) {
		c.changes = h
	}
}

// New creates a Core with the given options.
func New(opts ...Option) *Core {
	c := &Core{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		changes: hub.New[event.Change](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Changes returns the hub carrying change events for everything this
// Core created.
func (c *Core) Changes() *hub.Hub[event.Change] {
	return c.changes
}

// Journal returns the attached journal store, or nil.
func (c *Core) Journal() journal.Store {
	return c.store
}

// Accessor wraps record in a guarded accessor wired to the Core's
// logger, metrics, tracing, change hub, and journal. Additional options
// (rules, formatters) are applied after the wiring.
func (c *Core) Accessor(source string, record Record, opts ...guard.Option) *guard.Accessor {
	wired := []guard.Option{
		guard.WithLogger(c.logger),
		guard.WithMetrics(c.metrics),
		guard.WithTracing(c.spans),
		guard.WithChangeHub(c.changes),
	}
	if c.store != nil {
		wired = append(wired, guard.WithJournal(c.store))
	}
	return guard.NewAccessor(source, record, append(wired, opts...)...)
}

// Close releases resources the Core owns, currently the journal store.
func (c *Core) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
