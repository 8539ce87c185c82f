package hunt

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultLogCapacity bounds the dashboard log ring.
const DefaultLogCapacity = 200

// Entry is one line of the dashboard log.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// LogRing is a fixed-capacity FIFO of recent log entries. Once full, every
// append evicts the oldest entry. Safe for concurrent use.
type LogRing struct {
	mu      sync.Mutex
	entries []Entry
	start   int
	count   int
}

func NewLogRing(capacity int) *LogRing {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogRing{entries: make([]Entry, capacity)}
}

func (r *LogRing) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count < len(r.entries) {
		r.entries[(r.start+r.count)%len(r.entries)] = e
		r.count++
		return
	}
	r.entries[r.start] = e
	r.start = (r.start + 1) % len(r.entries)
}

// Entries returns a copy of the ring content, oldest first.
func (r *LogRing) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, r.count)
	for i := range r.count {
		out[i] = r.entries[(r.start+i)%len(r.entries)]
	}
	return out
}

func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Handler returns a slog.Handler that mirrors records into the ring, so the
// dashboard shows the same lines as the process log. Intended to be fanned
// out next to the real handler (slogmulti.Fanout).
func (r *LogRing) Handler(level slog.Level) slog.Handler {
	return &ringHandler{ring: r, level: level}
}

type ringHandler struct {
	ring  *LogRing
	level slog.Level
	attrs []slog.Attr
}

func (h *ringHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ringHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	appendAttr := func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	record.Attrs(appendAttr)

	h.ring.Append(Entry{Time: record.Time, Level: record.Level.String(), Message: sb.String()})
	return nil
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringHandler{ring: h.ring, level: h.level, attrs: append(slices.Clip(h.attrs), attrs...)}
}

// WithGroup is accepted but groups are not rendered in the ring.
func (h *ringHandler) WithGroup(string) slog.Handler { return h }
