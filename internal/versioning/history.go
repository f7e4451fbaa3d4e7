package versioning

import (
	"time"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// DefaultHistoryCapacity bounds a History created with a non-positive
// capacity.
const DefaultHistoryCapacity = 100

// Entry records one completed operation. Before and After are nil for reads
// and queries; Diff is set for mutations.
type Entry struct {
	OperationID string             `json:"operationId"`
	Operation   artifact.Operation `json:"operation"`
	Type        artifact.Type      `json:"type,omitempty"`
	ArtifactID  string             `json:"artifactId,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Before      *Snapshot          `json:"before,omitempty"`
	After       *Snapshot          `json:"after,omitempty"`
	Diff        *Diff              `json:"diff,omitempty"`
}

func (e Entry) clone() Entry {
	e.Before = e.Before.clone()
	e.After = e.After.clone()
	e.Diff = e.Diff.clone()
	return e
}

// matchesArtifact reports whether either snapshot names id. Reads and
// queries carry no snapshots and never match.
func (e *Entry) matchesArtifact(id string) bool {
	return (e.Before != nil && e.Before.ID == id) || (e.After != nil && e.After.ID == id)
}

// History is a FIFO of entries bounded by its capacity; adding past the
// capacity evicts the oldest entry. Every entry handed in or out is copied.
// A History is not safe for concurrent mutation.
type History struct {
	capacity int
	entries  []Entry // oldest first
}

// NewHistory returns an empty History. A non-positive capacity selects
// DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Add appends a copy of e and trims the buffer to capacity.
func (h *History) Add(e Entry) {
	h.entries = append(h.entries, e.clone())
	if over := len(h.entries) - h.capacity; over > 0 {
		copy(h.entries, h.entries[over:])
		clear(h.entries[len(h.entries)-over:])
		h.entries = h.entries[:len(h.entries)-over]
	}
}

// GetRecent returns up to n of the newest entries, newest first.
func (h *History) GetRecent(n int) []Entry {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]Entry, 0, max(n, 0))
	for i := len(h.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.entries[i].clone())
	}
	return out
}

// FindByArtifact returns every entry whose before or after snapshot names id,
// newest first.
func (h *History) FindByArtifact(id string) []Entry {
	var out []Entry
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].matchesArtifact(id) {
			out = append(out, h.entries[i].clone())
		}
	}
	return out
}

// FindByOperation returns the entry recorded for opID.
func (h *History) FindByOperation(opID string) (Entry, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].OperationID == opID {
			return h.entries[i].clone(), true
		}
	}
	return Entry{}, false
}

// GetUndoCandidate returns the entry for opID when its operation has a
// well-defined inverse and the state that inverse needs was captured: a
// create needs its after state, an update or delete its before state. Reads
// and queries are never candidates. Nothing is executed.
func (h *History) GetUndoCandidate(opID string) (Entry, bool) {
	e, ok := h.FindByOperation(opID)
	if !ok || !Undoable(e) {
		return Entry{}, false
	}
	return e, true
}

// Undoable reports whether e admits an inverse operation.
func Undoable(e Entry) bool {
	switch e.Operation {
	case artifact.OpCreate:
		return e.After != nil && e.After.State != nil
	case artifact.OpUpdate, artifact.OpDelete:
		return e.Before != nil && e.Before.State != nil
	}
	return false
}

// Size returns the number of retained entries.
func (h *History) Size() int { return len(h.entries) }

// Capacity returns the maximum number of retained entries.
func (h *History) Capacity() int { return h.capacity }
