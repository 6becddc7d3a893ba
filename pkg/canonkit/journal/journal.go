// Package journal provides append-only audit storage for change events.
//
// A journal records what happened to guarded records and registries: one
// Entry per observed create, read, or write. Consumers treat the journal
// as best-effort observability; a failed append must never fail the
// operation that produced it.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/canonkit/pkg/canonkit/event"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records an entry. The store assigns the sequence number.
	Append(e Entry) error

	// List returns all entries for a source, ordered by sequence.
	// Returns empty slice (not error) if the source has no entries.
	List(source string) ([]Entry, error)

	// Count returns the total number of entries across all sources.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one recorded change.
type Entry struct {
	ID        string
	Source    string
	Kind      string
	Field     string
	Old       string
	New       string
	Sequence  int
	Timestamp time.Time
}

// FromChange converts a change event into a journal entry.
// Values are rendered to text; the store never holds live references.
func FromChange(c event.Change) Entry {
	return Entry{
		ID:        c.ID,
		Source:    c.Source,
		Kind:      string(c.Kind),
		Field:     c.Field,
		Old:       renderValue(c.Old),
		New:       renderValue(c.New),
		Timestamp: c.Timestamp,
	}
}

// renderValue formats a field value for storage. Nil stays empty.
func renderValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("journal store closed")
