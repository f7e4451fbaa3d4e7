package crud

import (
	"time"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// Request is one of CreateRequest, ReadRequest, UpdateRequest, DeleteRequest
// or QueryRequest.
type Request interface {
	Operation() artifact.Operation
	request()
}

// CreateRequest writes a new artifact. An existing artifact with the same id
// is a DUPLICATE_ARTIFACT failure unless Overwrite is set.
type CreateRequest struct {
	Type      artifact.Type  `json:"type"`
	ID        string         `json:"id"`
	State     artifact.State `json:"state"`
	Overwrite bool           `json:"overwrite,omitempty"`
	DryRun    bool           `json:"dryRun,omitempty"`
}

// ReadRequest loads one artifact.
type ReadRequest struct {
	Type           artifact.Type `json:"type"`
	ID             string        `json:"id"`
	IncludeDeleted bool          `json:"includeDeleted,omitempty"`
}

// UpdateRequest changes an existing artifact. Changes are shallow-merged onto
// the current state, where a null value removes the field; with Replace the
// changes become the whole new state.
type UpdateRequest struct {
	Type    artifact.Type  `json:"type"`
	ID      string         `json:"id"`
	Changes artifact.State `json:"changes"`
	Replace bool           `json:"replace,omitempty"`
	DryRun  bool           `json:"dryRun,omitempty"`
}

// DeleteRequest removes an artifact, or with Soft marks it deleted.
type DeleteRequest struct {
	Type artifact.Type `json:"type"`
	ID   string        `json:"id"`
	Soft bool          `json:"soft,omitempty"`
}

// QueryRequest lists artifacts. Every set filter must match. An empty Type
// queries all types. A zero Limit means no limit.
type QueryRequest struct {
	Type           artifact.Type `json:"type,omitempty"`
	Name           string        `json:"name,omitempty"`
	NamePattern    string        `json:"namePattern,omitempty"`
	Category       string        `json:"category,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	ModifiedAfter  time.Time     `json:"modifiedAfter,omitzero"`
	ModifiedBefore time.Time     `json:"modifiedBefore,omitzero"`
	Limit          int           `json:"limit,omitempty"`
	Offset         int           `json:"offset,omitempty"`
	IncludeDeleted bool          `json:"includeDeleted,omitempty"`
}

func (CreateRequest) Operation() artifact.Operation { return artifact.OpCreate }
func (ReadRequest) Operation() artifact.Operation   { return artifact.OpRead }
func (UpdateRequest) Operation() artifact.Operation { return artifact.OpUpdate }
func (DeleteRequest) Operation() artifact.Operation { return artifact.OpDelete }
func (QueryRequest) Operation() artifact.Operation  { return artifact.OpQuery }

func (CreateRequest) request() {}
func (ReadRequest) request()   {}
func (UpdateRequest) request() {}
func (DeleteRequest) request() {}
func (QueryRequest) request()  {}

// Deletion is the payload of a successful delete.
type Deletion struct {
	Type artifact.Type `json:"type"`
	ID   string        `json:"id"`
	Soft bool          `json:"soft"`
}

// Item is one query match.
type Item struct {
	Type       artifact.Type  `json:"type"`
	ID         string         `json:"id"`
	Path       string         `json:"path"`
	ModifiedAt time.Time      `json:"modifiedAt"`
	State      artifact.State `json:"state"`
}

// QueryPage is the payload of a successful query.
type QueryPage struct {
	Items []Item `json:"items"`
	// Total counts matches before paging.
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit,omitempty"`
}

// Result is the envelope every operation returns. Exactly one of Data and
// Error is meaningful, selected by Success.
type Result[T any] struct {
	Success     bool               `json:"success"`
	Operation   artifact.Operation `json:"operation"`
	Timestamp   time.Time          `json:"timestamp"`
	DurationMs  int64              `json:"durationMs"`
	Data        T                  `json:"data,omitempty"`
	Error       *Error             `json:"error,omitempty"`
	Path        string             `json:"path,omitempty"`
	BeforeState artifact.State     `json:"beforeState,omitempty"`
	AfterState  artifact.State     `json:"afterState,omitempty"`
	LogID       string             `json:"logId,omitempty"`
}

// Succeeded implements traffic.Outcome.
func (r Result[T]) Succeeded() bool { return r.Success }

// Failure implements traffic.Outcome.
func (r Result[T]) Failure() (code, message string) {
	if r.Error == nil {
		return "", ""
	}
	return string(r.Error.Code), r.Error.Message
}

// States implements traffic.Outcome.
func (r Result[T]) States() (before, after artifact.State, path string) {
	return r.BeforeState, r.AfterState, r.Path
}

// Finish implements traffic.Outcome.
func (r Result[T]) Finish(logID string, d time.Duration) Result[T] {
	r.LogID = logID
	r.DurationMs = d.Milliseconds()
	return r
}

// erase converts r to a Result carrying its data as any.
func erase[T any](r Result[T]) Result[any] {
	out := Result[any]{
		Success:     r.Success,
		Operation:   r.Operation,
		Timestamp:   r.Timestamp,
		DurationMs:  r.DurationMs,
		Error:       r.Error,
		Path:        r.Path,
		BeforeState: r.BeforeState,
		AfterState:  r.AfterState,
		LogID:       r.LogID,
	}
	if r.Success {
		out.Data = r.Data
	}
	return out
}
