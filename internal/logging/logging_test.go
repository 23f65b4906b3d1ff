package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("bucket found", zap.String("bucket", "resources-museum"))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "bucket found", entry["msg"])
	assert.Equal(t, "resources-museum", entry["bucket"])
	assert.Contains(t, entry, "ts")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T`, entry["ts"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("listing objects")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "listing objects")
}

func TestNewWithWriter_Invalid(t *testing.T) {
	_, err := NewWithWriter(Config{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = NewWithWriter(Config{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestNewObserved(t *testing.T) {
	logger, logs := NewObserved(zapcore.WarnLevel)

	logger.Info("ignored")
	logger.Warn("skipping malformed file", zap.String("file", "bad.csv"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping malformed file", entry.Message)
	assert.Equal(t, "bad.csv", entry.ContextMap()["file"])
}
