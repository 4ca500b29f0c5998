// Package logging provides structured event logging for ubo components.
package logging

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures where and how events are written.
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
}

var (
	defaults = Options{Level: LevelInfo, Format: FormatText, Output: os.Stderr}
	mu       sync.RWMutex
)

// Configure sets the process-wide options used by New.
// Zero fields keep their current value.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Level != "" {
		defaults.Level = opts.Level
	}
	if opts.Format != "" {
		defaults.Format = opts.Format
	}
	if opts.Output != nil {
		defaults.Output = opts.Output
	}
}

func current() Options {
	mu.RLock()
	defer mu.RUnlock()
	return defaults
}

// Logger writes events for one component.
type Logger struct {
	component string
	base      *log.Logger
}

// New creates a logger for a component using the configured defaults.
func New(component string) *Logger {
	return NewWithOptions(component, current())
}

// NewWithOptions creates a logger for a component with explicit options.
func NewWithOptions(component string, opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	formatter := log.TextFormatter
	if opts.Format == FormatJSON {
		formatter = log.JSONFormatter
	}

	level, err := log.ParseLevel(string(opts.Level))
	if err != nil {
		level = log.InfoLevel
	}

	base := log.NewWithOptions(opts.Output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Formatter:       formatter,
	})

	return &Logger{
		component: component,
		base:      base.With("component", component),
	}
}

// Component returns the component name.
func (l *Logger) Component() string {
	return l.component
}

// With returns a logger that adds key=value to every event.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		component: l.component,
		base:      l.base.With(key, value),
	}
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]any) {
	l.base.Debug(event, keyvals(extra, nil)...)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.base.Info(event, keyvals(extra, nil)...)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.base.Warn(event, keyvals(extra, err)...)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.base.Error(event, keyvals(extra, err)...)
}

// TimedEvent logs an info event with its duration since start.
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]any) {
	kv := keyvals(extra, nil)
	kv = append(kv, "duration_ms", time.Since(start).Milliseconds())
	l.base.Info(event, kv...)
}

// keyvals flattens extra in key order so output is stable.
func keyvals(extra map[string]any, err error) []any {
	kv := make([]any, 0, 2*len(extra)+2)
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		kv = append(kv, k, extra[k])
	}
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	return kv
}

// ParseLevel maps a user supplied level name, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "warning":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat maps a user supplied format name, defaulting to text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}
