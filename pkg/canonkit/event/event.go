// Package event defines the change events emitted by guarded records.
//
// A Change describes one observed operation on a record: a field read, a
// validated write, or the creation of a canonical instance. Changes are
// immutable once created and carry enough context (source, field, old and
// new values) for audit trails and subscriber notification.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies what a Change describes.
type Kind string

// Change kinds.
const (
	KindCreate Kind = "create"
	KindRead   Kind = "read"
	KindWrite  Kind = "write"
)

// Change is an immutable record of one observed operation.
type Change struct {
	// ID uniquely identifies this change.
	ID string `json:"id"`

	// Kind says whether this was a create, read, or write.
	Kind Kind `json:"kind"`

	// Source names the record or registry the change happened on.
	Source string `json:"source"`

	// Field is the field that was read or written. For creates it
	// carries the registry key.
	Field string `json:"field,omitempty"`

	// Old is the field value before the operation, nil if unset.
	Old any `json:"old,omitempty"`

	// New is the field value after the operation.
	New any `json:"new,omitempty"`

	// Timestamp is when the change occurred.
	Timestamp time.Time `json:"timestamp"`
}

// String returns a compact human-readable description.
func (c Change) String() string {
	if c.Field == "" {
		return fmt.Sprintf("%s %s", c.Kind, c.Source)
	}
	return fmt.Sprintf("%s %s.%s", c.Kind, c.Source, c.Field)
}

// Option configures change creation.
type Option func(*Change)

// WithID sets a specific change ID (default: auto-generated UUID).
func WithID(id string) Option {
	return func(c *Change) {
		c.ID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(c *Change) {
		c.Timestamp = t
	}
}

// New creates a change of the given kind for source.field.
func New(kind Kind, source, field string, oldVal, newVal any, opts ...Option) Change {
	c := Change{
		ID:        uuid.New().String(),
		Kind:      kind,
		Source:    source,
		Field:     field,
		Old:       oldVal,
		New:       newVal,
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewCreate creates a change describing a new canonical instance bound
// under key.
func NewCreate(source, key string, instance any, opts ...Option) Change {
	return New(KindCreate, source, key, nil, instance, opts...)
}

// NewRead creates a change describing a guarded read.
func NewRead(source, field string, value any, opts ...Option) Change {
	return New(KindRead, source, field, nil, value, opts...)
}

// NewWrite creates a change describing a guarded write.
func NewWrite(source, field string, oldVal, newVal any, opts ...Option) Change {
	return New(KindWrite, source, field, oldVal, newVal, opts...)
}
