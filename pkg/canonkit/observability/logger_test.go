package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	enc := json.NewEncoder(h.buf)
	return enc.Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds source", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "person")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "person", record["source"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "person"))
	})
}

func TestLogCreate(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCreate(logger, "books", "AB123")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "instance created", record["msg"])
	assert.Equal(t, "books", record["source"])
	assert.Equal(t, "AB123", record["key"])
	assert.Equal(t, "DEBUG", record["level"])
}

func TestLogWrite(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogWrite(logger, "person", "age", 42, 43)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "field written", record["msg"])
	assert.Equal(t, "age", record["field"])
	assert.Equal(t, float64(42), record["old"])
	assert.Equal(t, float64(43), record["new"])
}

func TestLogWriteRejected(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogWriteRejected(logger, "person", "age", "age must be numeric")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "write rejected", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "age must be numeric", record["reason"])
}

func TestLogRead(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogRead(logger, "person", "name", "Ada")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "field read", record["msg"])
	assert.Equal(t, "Ada", record["value"])
}

func TestLogMissingField(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogMissingField(logger, "person", "nickname")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "field missing", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "nickname", record["field"])
}

func TestLogNotify(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogNotify(logger, "person", 3, 1, 1.5)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "subscribers notified", record["msg"])
	assert.Equal(t, float64(3), record["subscribers"])
	assert.Equal(t, float64(1), record["failures"])
}

func TestLogJournalError(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogJournalError(logger, "person", errors.New("disk full"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "journal append failed", record["msg"])
	assert.Equal(t, "disk full", record["error"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	// None of the helpers may panic when logging is disabled
	LogCreate(nil, "s", "k")
	LogWrite(nil, "s", "f", 1, 2)
	LogWriteRejected(nil, "s", "f", "r")
	LogRead(nil, "s", "f", nil)
	LogMissingField(nil, "s", "f")
	LogNotify(nil, "s", 0, 0, 0)
	LogJournalError(nil, "s", errors.New("x"))
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, float64(0))
}
