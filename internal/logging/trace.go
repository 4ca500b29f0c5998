package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const runIDKey contextKey = "run_id"

// NewRunID generates a unique, time-ordered run ID.
func NewRunID() string {
	return ulid.Make().String()
}

// WithRunID adds a run ID to ctx.
// If id is empty, generates a new one.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunID extracts the run ID from ctx.
// Returns empty string if not present.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext returns a logger tagging every event with the run ID in ctx,
// or l itself when ctx carries none.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := RunID(ctx); id != "" {
		return l.With("run_id", id)
	}
	return l
}
