package canonkit

import (
	"context"
	"fmt"

	"github.com/randalmurphal/canonkit/pkg/canonkit/event"
	"github.com/randalmurphal/canonkit/pkg/canonkit/journal"
	"github.com/randalmurphal/canonkit/pkg/canonkit/observability"
	"github.com/randalmurphal/canonkit/pkg/canonkit/registry"
)

// Registry is a keyed registry of canonical instances wired to a Core.
// Lookups are counted as hits or misses, and every creation is logged
// and journaled under the registry's name.
type Registry[K comparable, V any] struct {
	name    string
	core    *Core
	entries *registry.Registry[K, V]
}

// NewRegistry creates an empty registry reporting under name.
func NewRegistry[K comparable, V any](core *Core, name string) *Registry[K, V] {
	return &Registry[K, V]{
		name:    name,
		core:    core,
		entries: registry.New[K, V](),
	}
}

// Name returns the name this registry reports under.
func (r *Registry[K, V]) Name() string {
	return r.name
}

// GetOrCreate returns the canonical instance for key, invoking factory
// at most once per key. Repeated calls with the same key return the
// identical instance.
func (r *Registry[K, V]) GetOrCreate(ctx context.Context, key K, factory func() V) V {
	created := false
	v := r.entries.GetOrCreate(key, func() V {
		created = true
		return factory()
	})

	r.core.metrics.RecordLookup(ctx, r.name, !created)
	if created {
		keyStr := fmt.Sprintf("%v", key)
		observability.LogCreate(r.core.logger, r.name, keyStr)
		r.journalCreate(keyStr, v)
	}
	return v
}

// Get returns the instance for key and whether the key is bound.
func (r *Registry[K, V]) Get(ctx context.Context, key K) (V, bool) {
	v, ok := r.entries.Get(key)
	r.core.metrics.RecordLookup(ctx, r.name, ok)
	return v, ok
}

// Has returns true if key is bound.
func (r *Registry[K, V]) Has(key K) bool {
	return r.entries.Has(key)
}

// Keys returns all bound keys. The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	return r.entries.Keys()
}

// Len returns the number of bound keys.
func (r *Registry[K, V]) Len() int {
	return r.entries.Len()
}

// Range iterates over a snapshot of the registry. If fn returns false,
// iteration stops.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.entries.Range(fn)
}

func (r *Registry[K, V]) journalCreate(key string, v V) {
	if r.core.store == nil {
		return
	}
	c := event.NewCreate(r.name, key, v)
	if err := r.core.store.Append(journal.FromChange(c)); err != nil {
		observability.LogJournalError(r.core.logger, r.name, err)
	}
}
