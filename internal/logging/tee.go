package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// Tee returns a handler that passes each record to every handler enabled
// for its level. Nil handlers are dropped and a single remaining handler is
// returned unwrapped.
func Tee(handlers ...slog.Handler) slog.Handler {
	kept := make(teeHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			kept = append(kept, h)
		}
	}
	switch len(kept) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return kept[0]
	}
	return kept
}

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle reports the first error after giving every handler the record.
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// FileLevel is the minimum level written to a log file. Files keep debug
// detail whatever the console verbosity.
const FileLevel = slog.LevelDebug

// OpenFile appends JSON records at level or above to the file at path,
// creating it if needed. The caller closes the returned io.Closer.
func OpenFile(path string, level slog.Level) (slog.Handler, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening log file")
	}
	h := NewHandlerFor(Config{
		Level:  level,
		Format: FormatJSON,
		Output: f,
	})
	return h, f, nil
}
