package hunt

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRingEvictsOldestFirst(t *testing.T) {
	ring := NewLogRing(3)
	for i := range 5 {
		ring.Append(Entry{Message: fmt.Sprintf("m%d", i)})
	}

	entries := ring.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "m2", entries[0].Message)
	assert.Equal(t, "m3", entries[1].Message)
	assert.Equal(t, "m4", entries[2].Message)
}

func TestLogRingNeverExceedsCapacity(t *testing.T) {
	ring := NewLogRing(0)
	for i := range 3 * DefaultLogCapacity {
		ring.Append(Entry{Message: fmt.Sprintf("m%d", i)})
		assert.LessOrEqual(t, ring.Len(), DefaultLogCapacity)
	}

	entries := ring.Entries()
	require.Len(t, entries, DefaultLogCapacity)
	assert.Equal(t, fmt.Sprintf("m%d", 2*DefaultLogCapacity), entries[0].Message)
}

func TestLogRingEntriesBeforeFull(t *testing.T) {
	ring := NewLogRing(10)
	ring.Append(Entry{Message: "first"})
	ring.Append(Entry{Message: "second"})

	entries := ring.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
}

func TestLogRingHandlerMirrorsRecords(t *testing.T) {
	ring := NewLogRing(10)
	logger := slog.New(ring.Handler(slog.LevelInfo))

	logger.Debug("below threshold")
	logger.Info("launching instance", "zone", "AD-1")

	entries := ring.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "launching instance zone=AD-1", entries[0].Message)
	assert.False(t, entries[0].Time.IsZero())
}

func TestLogRingHandlerKeepsBoundAttrs(t *testing.T) {
	ring := NewLogRing(10)
	logger := slog.New(ring.Handler(slog.LevelInfo)).With("run", "misty-fox")

	logger.Warn("launch attempt failed", "category", "RateLimited")

	entries := ring.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "launch attempt failed run=misty-fox category=RateLimited", entries[0].Message)
}
