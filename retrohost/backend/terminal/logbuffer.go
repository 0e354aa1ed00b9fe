package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogBuffer captures log records while the terminal owns the screen, so
// nothing writes to stderr underneath tcell. The last entries are drawn in
// the free rows under the game area.
type LogBuffer struct {
	mu      sync.Mutex
	entries []string
	max     int
}

func NewLogBuffer(max int) *LogBuffer {
	return &LogBuffer{max: max}
}

func (b *LogBuffer) add(entry string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, entry)
	if len(b.entries) > b.max {
		b.entries = b.entries[len(b.entries)-b.max:]
	}
}

// Recent returns up to n entries, newest last.
func (b *LogBuffer) Recent(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]string, n)
	copy(out, b.entries[len(b.entries)-n:])
	return out
}

// logHandler is a minimal slog.Handler that formats records into the buffer.
type logHandler struct {
	buffer *LogBuffer
	level  slog.Level
	attrs  []slog.Attr
}

func newLogHandler(buffer *LogBuffer, level slog.Level) *logHandler {
	return &logHandler{buffer: buffer, level: level}
}

func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("%s %-5s %s", r.Time.Format(time.TimeOnly), r.Level, r.Message)
	appendAttr := func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	h.buffer.add(line)
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{buffer: h.buffer, level: h.level, attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)}
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	// groups are flattened; the buffer only shows short one-line entries
	return h
}
