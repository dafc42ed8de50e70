package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestJSONAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONAdapter(&buf, zerolog.DebugLevel)

	logger.Info("phase change",
		String("from", "stopped"),
		Int("children", 3),
		Bool("ready", true),
		Duration("elapsed", 2*time.Second),
		Err(errors.New("boom")),
		Node(stringer("n-1")),
		Phase(stringer("started")),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "phase change", entry["message"])
	assert.Equal(t, "stopped", entry["from"])
	assert.Equal(t, float64(3), entry["children"])
	assert.Equal(t, true, entry["ready"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "n-1", entry["node"])
	assert.Equal(t, "started", entry["phase"])
}

func TestJSONAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONAdapter(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONAdapter(&buf, zerolog.DebugLevel).With(String("plugin", "filewatch"))

	logger.Error("failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "filewatch", entry["plugin"])
	assert.Equal(t, "error", entry["level"])
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", Err(errors.New("ignored")))
}
