package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWrite(t *testing.T) {
	c := NewWrite("person", "age", 42, 43)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, KindWrite, c.Kind)
	assert.Equal(t, "person", c.Source)
	assert.Equal(t, "age", c.Field)
	assert.Equal(t, 42, c.Old)
	assert.Equal(t, 43, c.New)
	assert.WithinDuration(t, time.Now(), c.Timestamp, time.Second)
}

func TestNewRead(t *testing.T) {
	c := NewRead("person", "name", "Ada")

	assert.Equal(t, KindRead, c.Kind)
	assert.Equal(t, "name", c.Field)
	assert.Nil(t, c.Old)
	assert.Equal(t, "Ada", c.New)
}

func TestNewCreate(t *testing.T) {
	c := NewCreate("books", "AB123", "Go Patterns")

	assert.Equal(t, KindCreate, c.Kind)
	assert.Equal(t, "books", c.Source)
	assert.Equal(t, "AB123", c.Field)
	assert.Equal(t, "Go Patterns", c.New)
}

func TestUniqueIDs(t *testing.T) {
	a := NewRead("r", "f", 1)
	b := NewRead("r", "f", 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestOptions(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewWrite("person", "age", 1, 2, WithID("chg-1"), WithTimestamp(ts))

	assert.Equal(t, "chg-1", c.ID)
	assert.Equal(t, ts, c.Timestamp)
}

func TestString(t *testing.T) {
	assert.Equal(t, "write person.age", NewWrite("person", "age", 1, 2).String())
	assert.Equal(t, "create books.AB123", NewCreate("books", "AB123", nil).String())
}
