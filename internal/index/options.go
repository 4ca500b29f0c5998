// Package index holds the in-memory ownership and parentship graphs and the
// bounded traversals over them.
//
// Both indexes are built once from a record sequence and never mutated
// afterwards, so a single instance can serve any number of concurrent
// readers without locking.
package index

// Logger receives informational and advisory events from the indexes.
// Events are side-channel notifications; results never depend on them.
type Logger interface {
	Info(event string, extra map[string]any)
	Warn(event string, extra map[string]any, err error)
}

// Option configures an index.
type Option func(*options)

type options struct {
	log Logger
}

// WithLogger sets the event sink. A nil logger keeps the default no-op sink.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type nopLogger struct{}

func (nopLogger) Info(string, map[string]any)        {}
func (nopLogger) Warn(string, map[string]any, error) {}

// EventDepthInsufficient is emitted when the last level a traversal was
// allowed to expand still discovered new companies.
const EventDepthInsufficient = "depth_insufficient"

func warnDepth(log Logger, source, direction string, levels, added int) {
	if added == 0 {
		return
	}
	log.Warn(EventDepthInsufficient, map[string]any{
		"source":    source,
		"direction": direction,
		"levels":    levels,
		"added":     added,
		"hint":      "consider increasing levels",
	}, nil)
}
