package registry

import (
	"fmt"
	"sync"
)

// AlreadyInitializedError indicates a second attempt to create a value
// where single-instance semantics are required.
type AlreadyInitializedError struct {
	// Name identifies the single-instance value, if one was given.
	Name string
}

// Error implements the error interface.
func (e *AlreadyInitializedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: already initialized", e.Name)
	}
	return "already initialized"
}

// Once holds a single instance that can be created exactly once.
// It has two states, uninitialized and initialized, with a single one-way
// transition between them. The zero value is ready to use.
type Once[T any] struct {
	mu      sync.Mutex
	name    string
	value   T
	created bool
}

// NewOnce creates an uninitialized Once whose errors carry the given name.
func NewOnce[T any](name string) *Once[T] {
	return &Once[T]{name: name}
}

// Create initializes the instance with the factory on the first call and
// returns it. Every subsequent call fails with *AlreadyInitializedError
// and returns the zero value; the stored instance is unaffected.
func (o *Once[T]) Create(factory func() T) (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.created {
		var zero T
		return zero, &AlreadyInitializedError{Name: o.name}
	}

	o.value = factory()
	o.created = true
	return o.value, nil
}

// MustCreate initializes the instance, panicking on a second call.
func (o *Once[T]) MustCreate(factory func() T) T {
	v, err := o.Create(factory)
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the stored instance and whether it has been created.
func (o *Once[T]) Value() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.created
}

// Initialized returns true once Create has succeeded.
func (o *Once[T]) Initialized() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.created
}
