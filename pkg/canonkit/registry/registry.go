package registry

import "sync"

// Registry maps keys to canonical instances. Each key is bound to at most
// one instance for the registry's lifetime; there is no overwrite and no
// delete. It uses sync.RWMutex for optimal read-heavy workloads.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// GetOrCreate returns the instance for a key, creating it with the factory
// function if the key is unbound. This operation is atomic - the factory
// is called at most once per key, even under concurrent access. The factory
// must be pure with respect to the key.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) V {
	// Fast path: check if already bound
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v
	}

	// Slow path: create with write lock
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := r.entries[key]; ok {
		return v
	}

	v = factory()
	r.entries[key] = v
	return v
}

// Get returns the instance for a key and whether the key is bound.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key is bound.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns all bound keys. The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of bound keys.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over all entries in the registry. The function fn is
// called for each entry. If fn returns false, iteration stops.
//
// Range iterates over a snapshot of the registry, so it is safe to call
// GetOrCreate during iteration without affecting the current iteration.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	// Take a snapshot under read lock
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	// Iterate over snapshot without holding lock
	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
