package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/envdetect/internal/redact"
)

// TimeFormat is the timestamp layout of the text handler.
const TimeFormat = "15:04:05.000"

// palette colors the parts of a log line. A nil palette writes plain text.
type palette struct {
	time  *color.Color
	key   *color.Color
	level map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		level: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

func (p *palette) paint(c *color.Color, s string) string {
	if p == nil || c == nil {
		return s
	}
	return c.Sprint(s)
}

// Handler is a slog.Handler writing one human-readable line per record:
//
//	14:02:07.311 DEBUG best guess environment=gcp-cloud-run-gen2 score=32768
//
// Attribute values are redacted before they are written. Colors are used
// only when the writer supports them.
type Handler struct {
	opts    slog.HandlerOptions
	out     io.Writer
	mu      *sync.Mutex
	colors  *palette
	prefix  string // group prefix for record attributes
	preface []byte // rendered WithAttrs attributes
}

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether level meets the handler's minimum (Info by default).
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r and writes it with a single Write call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.colors.paint(h.timeColor(), r.Time.Format(TimeFormat)))
		buf.WriteByte(' ')
	}

	name := levelName(r.Level)
	padded := name + strings.Repeat(" ", max(0, 5-len(name)))
	buf.WriteString(h.colors.paint(h.levelColor(r.Level), padded))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	buf.Write(h.preface)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) levelColor(l slog.Level) *color.Color {
	if h.colors == nil {
		return nil
	}
	switch {
	case l >= slog.LevelError:
		return h.colors.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return h.colors.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return h.colors.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return h.colors.level[slog.LevelDebug]
	}
	return h.colors.level[LevelTrace]
}

func (h *Handler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, inner, ga)
		}
		return
	}

	key := prefix + a.Key
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}

	buf.WriteByte(' ')
	buf.WriteString(key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(redact.Value(a.Key, valueOf(a.Value))))
}

func valueOf(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	}
	return v.Any()
}

// formatValue quotes strings that would otherwise be ambiguous in a
// key=value line.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(l slog.Level) string {
	if l < slog.LevelDebug {
		return "TRACE"
	}
	return l.String()
}

// WithAttrs returns a handler that writes attrs on every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.preface)
	for _, a := range attrs {
		h.writeAttr(&buf, h.prefix, a)
	}

	newH := *h
	newH.preface = buf.Bytes()
	return &newH
}

// WithGroup returns a handler that prefixes later attribute keys with
// name and a dot.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}
