package engine

import (
	"github.com/crk2/designer/internal/document"
)

// DefaultHistoryLimit is the number of snapshots kept before the oldest is evicted.
const DefaultHistoryLimit = 50

// History is a bounded stack of whole-scene snapshots with a cursor.
// Snapshots are copied on the way in and on the way out, so entries are never mutated.
type History struct {
	snapshots []document.Snapshot
	index     int
	limit     int
}

// NewHistory creates an empty history. A non-positive limit selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{index: -1, limit: limit}
}

// Commit drops any redo branch, appends snap and evicts the oldest entry past the limit.
func (h *History) Commit(snap document.Snapshot) {
	h.snapshots = h.snapshots[:h.index+1]
	h.snapshots = append(h.snapshots, copySnapshot(snap))
	h.index++

	if len(h.snapshots) > h.limit {
		h.snapshots[0] = document.Snapshot{}
		h.snapshots = h.snapshots[1:]
		h.index--
	}
}

// Undo steps back one entry and returns it. The first entry is the floor.
func (h *History) Undo() (document.Snapshot, bool) {
	if h.index <= 0 {
		return document.Snapshot{}, false
	}
	h.index--
	return copySnapshot(h.snapshots[h.index]), true
}

// Redo steps forward one entry and returns it.
func (h *History) Redo() (document.Snapshot, bool) {
	if h.index >= len(h.snapshots)-1 {
		return document.Snapshot{}, false
	}
	h.index++
	return copySnapshot(h.snapshots[h.index]), true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Index returns the cursor, or -1 when the history is empty.
func (h *History) Index() int { return h.index }

// Current returns the snapshot at the cursor.
func (h *History) Current() (document.Snapshot, bool) {
	if h.index < 0 {
		return document.Snapshot{}, false
	}
	return copySnapshot(h.snapshots[h.index]), true
}

// Reset forgets every snapshot.
func (h *History) Reset() {
	h.snapshots = nil
	h.index = -1
}

func copySnapshot(s document.Snapshot) document.Snapshot {
	return document.Snapshot{
		ProductID: s.ProductID,
		Elements:  document.CloneElements(s.Elements),
	}
}
