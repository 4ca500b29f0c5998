package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, level Level) *Logger {
	return NewWithOptions("test-component", Options{Level: level, Format: FormatJSON, Output: buf})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestLoggerCreation(t *testing.T) {
	logger := New("test-component")
	assert.Equal(t, "test-component", logger.Component())
}

func TestInfoEvent(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, LevelInfo).Info("index_built", map[string]any{"persons": 3, "companies": 2})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "index_built", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "test-component", lines[0]["component"])
	assert.Equal(t, float64(3), lines[0]["persons"])
	assert.Equal(t, float64(2), lines[0]["companies"])
}

func TestWarnCarriesError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, LevelInfo).Warn("depth_insufficient", map[string]any{"levels": 3}, errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelWarn)

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Error("shown", nil, nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, LevelInfo).With("target", "C").Info("resolved", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "C", lines[0]["target"])
}

func TestTimedEvent(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, LevelInfo).TimedEvent("load", time.Now().Add(-5*time.Millisecond), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.GreaterOrEqual(t, lines[0]["duration_ms"], float64(5))
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	NewWithOptions("cli", Options{Level: LevelInfo, Format: FormatText, Output: &buf}).
		Info("started", map[string]any{"levels": 3})

	out := buf.String()
	assert.Contains(t, out, "started")
	assert.Contains(t, out, "levels=3")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestConfigureKeepsUnsetFields(t *testing.T) {
	before := current()
	defer Configure(before)

	var buf bytes.Buffer
	Configure(Options{Output: &buf, Format: FormatJSON})
	Configure(Options{Level: LevelDebug})

	got := current()
	assert.Equal(t, LevelDebug, got.Level)
	assert.Equal(t, FormatJSON, got.Format)
	assert.Same(t, &buf, got.Output)
}
