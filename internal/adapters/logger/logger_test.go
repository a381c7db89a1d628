package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"listings-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	mu      sync.Mutex
	tags    []string
	records []map[string]interface{}
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tag)
	f.records = append(f.records, message.(port.Fields))
	return nil
}

func (f *fakePoster) Close() error { return nil }

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelInfo})

	logger.WithFields(port.Fields{"trace_id": "t-1"}).Error("Use case failed", errors.New("boom"), port.Fields{"listing_id": "l-1"})
	logger.Debug("hidden", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "Use case failed", record["msg"])
	assert.Equal(t, "t-1", record["trace_id"])
	assert.Equal(t, "l-1", record["listing_id"])
	assert.Equal(t, "boom", record["err"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	logger, err := NewFluentLoggerAdapter(poster, slog.LevelWarn)
	require.NoError(t, err)

	child := logger.WithFields(port.Fields{"component": "test"})
	child.Info("skipped", nil)
	child.Warn("slow query", port.Fields{"duration_ms": 900})
	child.Error("failed", errors.New("boom"), nil)

	require.Equal(t, []string{"warn", "error"}, poster.tags)
	assert.Equal(t, "test", poster.records[0]["component"])
	assert.Equal(t, "slow query", poster.records[0]["message"])
	assert.Equal(t, "boom", poster.records[1]["error"])

	_, err = NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLogger(t *testing.T) {
	first, second := &fakePoster{}, &fakePoster{}
	a, _ := NewFluentLoggerAdapter(first, slog.LevelDebug)
	b, _ := NewFluentLoggerAdapter(second, slog.LevelDebug)

	multi, err := NewMultiloggerAdapter(a, nil, b)
	require.NoError(t, err)
	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)

	assert.Len(t, first.records, 1)
	assert.Len(t, second.records, 1)
	assert.Equal(t, "v", second.records[0]["k"])

	_, err = NewMultiloggerAdapter()
	assert.Error(t, err)
}
