package artifact

import (
	"encoding/json"
	"fmt"
)

// State is an artifact as a JSON object. States handed between packages are
// normalized: nested objects are map[string]any, arrays are []any and
// numbers are float64.
type State map[string]any

// Normalize converts v (a struct, a map, or a State) into a normalized State
// through a JSON round trip. A nil v yields a nil State.
func Normalize(v any) (State, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("state must be a JSON object: %w", err)
	}
	return s, nil
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return cloneValue(map[string]any(s)).(map[string]any)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case State:
		return State(cloneValue(map[string]any(val)).(map[string]any))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}

// String returns the string value at key, or "".
func (s State) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Strings returns the string elements of the array at key. Non-string
// elements are skipped.
func (s State) Strings(key string) []string {
	switch v := s[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Deleted reports whether s carries the soft-delete mark.
func (s State) Deleted() bool {
	v, _ := s["deleted"].(bool)
	return v
}
