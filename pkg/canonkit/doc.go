/*
Package canonkit provides canonical keyed instances, guarded record access,
and ordered change notification for in-process state.

# Overview

canonkit is a small Go library built around three mechanisms:

  - a keyed registry that holds at most one canonical instance per key
    (package registry)
  - a guarded accessor that routes record reads and writes through
    validation and formatting hooks (package guard)
  - a notification hub that fans a payload out to subscribers in
    subscription order with failure isolation (package hub)

The root package ties them together behind a Core: an explicitly
constructed composition root that owns the logger, metrics, tracing,
change hub, and optional journal, and injects them into the accessors
and registries it creates. There is no ambient global state; construct
one Core at the top of the application and pass it down.

# Basic Usage

Create a Core, then hang registries and guarded records off it:

	core := canonkit.New(
	    canonkit.WithLogger(slog.Default()),
	    canonkit.WithMetrics(observability.NewMetricsRecorder()),
	)

	books := canonkit.NewRegistry[string, *Book](core, "books")
	b := books.GetOrCreate(ctx, "AB123", func() *Book {
	    return &Book{ISBN: "AB123", Title: "Go Patterns"}
	})

	person := canonkit.Record{"name": "Ada", "age": 42}
	acc := core.Accessor("person", person,
	    guard.WithRule("age", guard.Numeric()),
	    guard.WithRule("name", guard.MinLength(2)),
	)

	if err := acc.Write(ctx, "age", 43); err != nil {
	    // *guard.ValidationError: record left unchanged
	}

# Change Notification

Every Core owns a hub of change events. Subscribers see each successful
guarded write, in subscription order; a failing subscriber never blocks
the write or later subscribers:

	core.Changes().Subscribe(hub.NewSubscriber(
	    func(ctx context.Context, c event.Change) error {
	        fmt.Println("changed:", c.String())
	        return nil
	    },
	))

# Auditing

Attach a journal store to persist every observed change:

	store, err := journal.NewSQLiteStore("./audit.db")
	if err != nil { ... }
	core := canonkit.New(canonkit.WithJournal(store))
	defer core.Close()

The journal is best-effort: append failures are logged and never fail
the operation that produced them.
*/
package canonkit
