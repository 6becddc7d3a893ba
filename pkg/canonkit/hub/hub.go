// Package hub provides ordered, synchronous fan-out of payloads to
// subscribers.
//
// A Hub keeps subscribers in subscription order and notifies each of them
// in turn. Subscription is idempotent by identity: subscribing the same
// subscriber twice keeps its original position and it is notified once per
// Notify. A failing subscriber never prevents later subscribers from being
// notified; failures are collected and returned to the caller as one
// aggregate error.
//
// Subscribers are compared by identity, so implement Subscriber with a
// pointer type or wrap a function with NewSubscriber, which allocates a
// fresh identity per call:
//
//	h := hub.New[string]()
//
//	audit := hub.NewSubscriber(func(ctx context.Context, msg string) error {
//	    log.Println("audit:", msg)
//	    return nil
//	})
//	h.Subscribe(audit)
//
//	err := h.Notify(ctx, "price changed")
//	h.Unsubscribe(audit)
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Subscriber receives payloads published to a hub.
// Implementations should use a pointer receiver so that identity
// comparison (for idempotent subscribe and unsubscribe) is well defined.
type Subscriber[T any] interface {
	// Notify handles one payload. A returned error is reported to the
	// Notify caller in aggregate and does not stop dispatch.
	Notify(ctx context.Context, payload T) error
}

// funcSubscriber adapts a function to the Subscriber interface.
// Each value has its own identity, so the same function can be wrapped
// twice and subscribed as two distinct subscribers.
type funcSubscriber[T any] struct {
	fn func(ctx context.Context, payload T) error
}

// Notify implements Subscriber.
func (s *funcSubscriber[T]) Notify(ctx context.Context, payload T) error {
	return s.fn(ctx, payload)
}

// NewSubscriber wraps fn in a Subscriber with a distinct identity.
// Keep the returned value to unsubscribe later.
func NewSubscriber[T any](fn func(ctx context.Context, payload T) error) Subscriber[T] {
	return &funcSubscriber[T]{fn: fn}
}

// NotifyError reports a single subscriber failure during Notify.
type NotifyError struct {
	// Position is the subscriber's position in subscription order.
	Position int

	// Err is the error the subscriber returned, or the recovered panic.
	Err error
}

// Error implements the error interface.
func (e *NotifyError) Error() string {
	return fmt.Sprintf("subscriber %d: %v", e.Position, e.Err)
}

// Unwrap returns the underlying error.
func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Hub dispatches payloads to an ordered list of subscribers.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers []Subscriber[T]
}

// New creates a hub with no subscribers.
func New[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe appends s to the subscriber list. Subscribing an already
// present subscriber is a no-op that keeps its original position.
func (h *Hub[T]) Subscribe(s Subscriber[T]) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.subscribers {
		if existing == s {
			return
		}
	}
	h.subscribers = append(h.subscribers, s)
}

// Unsubscribe removes every occurrence of s. No-op if s is not subscribed.
func (h *Hub[T]) Unsubscribe(s Subscriber[T]) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.subscribers[:0]
	for _, existing := range h.subscribers {
		if existing != s {
			kept = append(kept, existing)
		}
	}
	// Clear the tail so removed subscribers are not retained
	for i := len(kept); i < len(h.subscribers); i++ {
		h.subscribers[i] = nil
	}
	h.subscribers = kept
}

// Len returns the current number of subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Notify invokes every current subscriber with payload, in subscription
// order. Dispatch runs against a snapshot of the subscriber list taken at
// call time, so concurrent Subscribe and Unsubscribe calls do not tear the
// iteration. A subscriber that returns an error or panics does not stop
// dispatch; all failures are returned as one aggregate error, each
// wrapped in a *NotifyError carrying the subscriber's position.
func (h *Hub[T]) Notify(ctx context.Context, payload T) error {
	// Snapshot under read lock
	h.mu.RLock()
	snapshot := make([]Subscriber[T], len(h.subscribers))
	copy(snapshot, h.subscribers)
	h.mu.RUnlock()

	var errs []error
	for i, s := range snapshot {
		if err := h.notifyOne(ctx, s, payload); err != nil {
			errs = append(errs, &NotifyError{Position: i, Err: err})
		}
	}
	return errors.Join(errs...)
}

// notifyOne invokes a single subscriber, converting a panic into an error.
func (h *Hub[T]) notifyOne(ctx context.Context, s Subscriber[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Notify(ctx, payload)
}
