package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	id1 := NewRunID()
	id2 := NewRunID()

	_, err := ulid.ParseStrict(id1)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestWithRunID(t *testing.T) {
	ctx := context.Background()

	ctx1 := WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", RunID(ctx1))

	ctx2 := WithRunID(ctx, "")
	assert.Len(t, RunID(ctx2), 26)

	assert.Equal(t, "", RunID(ctx))
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("loader", Options{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	log.WithContext(WithRunID(context.Background(), "run-42")).Info("dataset_loaded", nil)
	assert.Contains(t, buf.String(), `"run_id":"run-42"`)

	buf.Reset()
	same := log.WithContext(context.Background())
	assert.Same(t, log, same)
}
