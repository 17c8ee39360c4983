package logutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]string

func (m mapReader) GetString(k string) string { return m[k] }
func (m mapReader) GetBool(k string) bool     { return m[k] == "true" }

func TestLoggerConfigFromReader(t *testing.T) {
	cfg := LoggerConfigFromReader(mapReader{"LOG_LEVEL": "debug", "LOG_FORMAT": "json", "LOG_ADD_SOURCE": "true"})
	assert.Equal(t, LoggerConfig{Level: "debug", Format: "json", AddSource: true}, cfg)

	assert.Equal(t, LoggerConfig{}, LoggerConfigFromReader(nil))
}

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, LoggerConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "stay", "Casa Velha")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "Casa Velha", line["stay"])
}

func TestNew_text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, LoggerConfig{})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "count", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "count=3")
}

func TestNew_pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, LoggerConfig{Level: "debug", Format: "pretty"})
	require.NoError(t, err)

	logger.Debug("refreshing flights", "count", 2)

	assert.Contains(t, buf.String(), "refreshing flights")
	assert.Contains(t, buf.String(), "count=2")
}

func TestNew_errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, LoggerConfig{Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")

	_, err = New(&bytes.Buffer{}, LoggerConfig{Level: "loud"})
	assert.ErrorContains(t, err, "unknown log level")
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := parseSlogLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
