// Package registry provides a generic keyed registry that holds at most one
// canonical instance per key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. It
// supports any comparable key type and any value type through Go generics.
// Unlike a general-purpose map wrapper, a Registry never overwrites or
// deletes: once a key is bound to an instance, that binding holds for the
// registry's lifetime.
//
// # Canonical Instances
//
// Use GetOrCreate to share one instance across every caller that presents
// the same key:
//
//	books := registry.New[string, *Book]()
//
//	// First call creates the book, subsequent calls return the same one
//	b := books.GetOrCreate("AB123", func() *Book {
//	    return &Book{ISBN: "AB123", Title: "Go Patterns"}
//	})
//
// GetOrCreate is atomic - the factory function is called at most once per
// key, even under concurrent access.
//
// # Single Instances
//
// Once models the stricter process-wide single-instance case. The first
// Create wins; every later Create fails with *AlreadyInitializedError:
//
//	var conn registry.Once[*Conn]
//
//	c, err := conn.Create(dial)   // creates
//	_, err = conn.Create(dial)    // *AlreadyInitializedError
//
// # Thread Safety
//
// All Registry and Once methods are safe for concurrent use. Range iterates
// over a snapshot of the registry, so concurrent GetOrCreate calls do not
// affect an iteration in progress.
package registry
