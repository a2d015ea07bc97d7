package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Out: &buf})

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("debug message") }, "debug message", "debug"},
		{"info", func() { log.Info("info message") }, "info message", "info"},
		{"warnf", func() { log.Warnf("retry attempt: %d", 3) }, "retry attempt: 3", "warn"},
		{"errorf", func() { log.Errorf("failed: %s", "timeout") }, "failed: timeout", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()
			entry := decode(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Out: &buf})

	log.WithFields(map[string]interface{}{"ticker": "AAPL", "days": 7}).
		WithError(errors.New("boom")).
		WithField("source", "yahoo").
		Error("generation failed")

	entry := decode(t, &buf)
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.Equal(t, float64(7), entry["days"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "yahoo", entry["source"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "console", Out: &buf})
	log.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().WithField("a", 1).Info("dropped") })
}
