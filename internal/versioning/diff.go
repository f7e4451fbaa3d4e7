package versioning

import (
	"bytes"
	"sort"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// ChangeKind classifies a FieldChange.
type ChangeKind string

// Change kinds.
const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// FieldChange is one top-level field that differs between two states.
type FieldChange struct {
	Field  string     `json:"field"`
	Kind   ChangeKind `json:"kind"`
	Before any        `json:"before,omitempty"`
	After  any        `json:"after,omitempty"`
}

// Diff is the set of field changes between two states of one artifact.
type Diff struct {
	Type               artifact.Type `json:"type"`
	ID                 string        `json:"id"`
	Changes            []FieldChange `json:"changes"`
	IsStructuralChange bool          `json:"isStructuralChange"`
}

// structuralFields are the fields whose change alters identity or behavior
// of a markdown-backed artifact. Everything else is free text.
var structuralFields = map[string]bool{
	"name":          true,
	"description":   true,
	"version":       true,
	"tags":          true,
	"tools":         true,
	"allowedTools":  true,
	"allowed-tools": true,
	"permissions":   true,
	"model":         true,
	"matcher":       true,
	"command":       true,
	"args":          true,
	"env":           true,
}

// IsStructuralField reports whether field is in the structural allow-list.
func IsStructuralField(field string) bool {
	return structuralFields[field]
}

// ComputeDiff compares before and after field by field over the union of
// their keys. Either side may be nil (create or delete). Changes are sorted
// by field name.
func ComputeDiff(t artifact.Type, id string, before, after artifact.State) Diff {
	keys := make(map[string]bool, len(before)+len(after))
	for k := range before {
		keys[k] = true
	}
	for k := range after {
		keys[k] = true
	}

	changes := []FieldChange{}
	for k := range keys {
		bv, inBefore := before[k]
		av, inAfter := after[k]
		switch {
		case inBefore && !inAfter:
			changes = append(changes, FieldChange{Field: k, Kind: ChangeRemoved, Before: bv})
		case !inBefore && inAfter:
			changes = append(changes, FieldChange{Field: k, Kind: ChangeAdded, After: av})
		case !deepEqual(bv, av):
			changes = append(changes, FieldChange{Field: k, Kind: ChangeModified, Before: bv, After: av})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })

	return Diff{
		Type:               t,
		ID:                 id,
		Changes:            changes,
		IsStructuralChange: isStructural(t, before, after, changes),
	}
}

func isStructural(t artifact.Type, before, after artifact.State, changes []FieldChange) bool {
	// Hooks and mcp servers are replaced as whole entries.
	if t.Entry() || before == nil || after == nil {
		return true
	}
	for _, c := range changes {
		if IsStructuralField(c.Field) {
			return true
		}
	}
	return false
}

// deepEqual compares two JSON values recursively. Maps compare by key set,
// arrays by position, scalars by their JSON encoding so that numeric types
// from different decoders agree.
func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := asMap(b)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !deepEqual(v, w) {
				return false
			}
		}
		return true
	case artifact.State:
		return deepEqual(map[string]any(av), b)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	if _, ok := asMap(b); ok {
		return false
	}
	if _, ok := b.([]any); ok {
		return false
	}
	ra, errA := canonicalJSON(a)
	rb, errB := canonicalJSON(b)
	return errA == nil && errB == nil && bytes.Equal(ra, rb)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case artifact.State:
		return m, true
	}
	return nil, false
}

func (d *Diff) clone() *Diff {
	if d == nil {
		return nil
	}
	c := *d
	c.Changes = make([]FieldChange, len(d.Changes))
	for i, ch := range d.Changes {
		c.Changes[i] = FieldChange{
			Field:  ch.Field,
			Kind:   ch.Kind,
			Before: cloneAny(ch.Before),
			After:  cloneAny(ch.After),
		}
	}
	return &c
}

// cloneAny deep-copies a JSON value by wrapping it in a State.
func cloneAny(v any) any {
	return artifact.State{"v": v}.Clone()["v"]
}
