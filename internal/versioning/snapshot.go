package versioning

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// HashPrefix tags the digest algorithm of Snapshot.FileHash.
const HashPrefix = "sha256:"

// Snapshot is an artifact state at a point in time. State is nil for an
// artifact that does not exist.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      artifact.Type  `json:"type"`
	ID        string         `json:"id"`
	State     artifact.State `json:"state"`
	FilePath  string         `json:"filePath"`
	FileHash  string         `json:"fileHash,omitempty"`
}

// CaptureSnapshot records state for the artifact (t, id) under root. The
// state is copied.
func CaptureSnapshot(t artifact.Type, id, root string, state artifact.State) (*Snapshot, error) {
	path, err := artifact.Path(root, t, id)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Timestamp: time.Now().UTC(),
		Type:      t,
		ID:        id,
		State:     state.Clone(),
		FilePath:  path,
	}
	if state != nil {
		hash, err := Hash(state)
		if err != nil {
			return nil, fmt.Errorf("hashing %s %s: %w", t, id, err)
		}
		s.FileHash = hash
	}
	return s, nil
}

// Hash returns "sha256:" followed by the hex digest of the canonical JSON
// encoding of state.
func Hash(state artifact.State) (string, error) {
	raw, err := canonicalJSON(state)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return HashPrefix + hex.EncodeToString(sum[:]), nil
}

// canonicalJSON encodes v with sorted object keys and no HTML escaping.
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SnapshotsEqual compares the states of a and b. Two nil states are equal and
// a nil state never equals a non-nil one. When both snapshots carry a hash
// the hashes decide; otherwise the canonical encodings are compared.
func SnapshotsEqual(a, b *Snapshot) bool {
	aNil := a == nil || a.State == nil
	bNil := b == nil || b.State == nil
	if aNil || bNil {
		return aNil && bNil
	}
	if a.FileHash != "" && b.FileHash != "" {
		return a.FileHash == b.FileHash
	}
	ra, errA := canonicalJSON(a.State)
	rb, errB := canonicalJSON(b.State)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}

func (s *Snapshot) clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.State = s.State.Clone()
	return &c
}
