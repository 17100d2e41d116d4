package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	logger := NewLogger()
	logger.SetOutput(buf)
	return logger
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	logger.SetLevel(WARN)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "boom")
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("request served",
		String("path", "/api/v1/predict"),
		Int("status", 200),
		Component("http"))

	out := buf.String()
	assert.Contains(t, out, "[INFO] request served")
	assert.Contains(t, out, "component=http")
	assert.Contains(t, out, "path=/api/v1/predict")
	assert.Contains(t, out, "status=200")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	logger.SetFormat("json")

	logger.Info("training finished",
		Float("duration_s", 1.5),
		RequestID("abc-123"),
		Component("trainer"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "training finished", entry.Message)
	assert.Equal(t, "ecofleet", entry.Service)
	assert.Equal(t, "trainer", entry.Component)
	assert.Equal(t, "abc-123", entry.RequestID)
	assert.Equal(t, 1.5, entry.Fields["duration_s"])
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := GetLogger()
	prevOut := logger.output
	defer logger.SetOutput(prevOut)
	logger.SetOutput(&buf)

	InitLogger("warn", "text")
	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "emitted")

	// Unknown levels fall back to INFO.
	InitLogger("nonsense", "text")
	logger.Info("visible again")
	assert.True(t, strings.Contains(buf.String(), "visible again"))
}
