package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/traffic"
	"github.com/agentx-labs/zgent/internal/versioning"
)

// Engine performs CRUD operations on the artifacts under one root. It does
// not serialize callers: two concurrent writes to the same id may
// interleave on disk.
type Engine struct {
	root    string
	log     zerolog.Logger
	traffic *traffic.Logger
	now     func() time.Time
	stores  map[artifact.Type]store

	historyMu sync.Mutex
	history   *versioning.History
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for engine diagnostics and, unless WithTraffic
// is also given, for traffic events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTraffic sets the traffic logger wrapping every operation.
func WithTraffic(t *traffic.Logger) Option {
	return func(e *Engine) { e.traffic = t }
}

// WithHistoryCapacity bounds the operation history.
func WithHistoryCapacity(n int) Option {
	return func(e *Engine) { e.history = versioning.NewHistory(n) }
}

// WithClock overrides the time source for result timestamps and soft-delete
// marks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an Engine over the artifacts under root.
func NewEngine(root string, opts ...Option) *Engine {
	e := &Engine{
		root: root,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = versioning.NewHistory(versioning.DefaultHistoryCapacity)
	}
	if e.traffic == nil {
		e.traffic = traffic.New(e.log)
	}
	e.stores = make(map[artifact.Type]store, len(artifact.Types()))
	for _, t := range artifact.Types() {
		e.stores[t] = newStore(root, t)
	}
	return e
}

// Root returns the artifact root.
func (e *Engine) Root() string { return e.root }

// Execute dispatches req to the matching operation.
func (e *Engine) Execute(ctx context.Context, req Request) (Result[any], error) {
	switch r := req.(type) {
	case CreateRequest:
		res, err := e.Create(ctx, r)
		return erase(res), err
	case ReadRequest:
		res, err := e.Read(ctx, r)
		return erase(res), err
	case UpdateRequest:
		res, err := e.Update(ctx, r)
		return erase(res), err
	case DeleteRequest:
		res, err := e.Delete(ctx, r)
		return erase(res), err
	case QueryRequest:
		res, err := e.Query(ctx, r)
		return erase(res), err
	}
	return Result[any]{}, fmt.Errorf("unsupported request %T", req)
}

// Create writes a new artifact.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (Result[artifact.State], error) {
	req.ID = artifact.CanonicalID(req.Type, req.ID)
	info := traffic.Info{Type: req.Type, ArtifactID: req.ID}
	return traffic.Wrap(ctx, e.traffic, artifact.OpCreate, info, func(ctx context.Context) (Result[artifact.State], error) {
		return e.create(ctx, req)
	})
}

func (e *Engine) create(ctx context.Context, req CreateRequest) (Result[artifact.State], error) {
	res := newResult[artifact.State](artifact.OpCreate, e.now())

	st, fail := e.storeFor(req.Type, req.ID)
	if fail != nil {
		return res.fail(fail), nil
	}
	res.Path = st.path(req.ID)

	state, err := normalizeInput(req.State)
	if err != nil {
		return res.fail(validationFailed([]string{err.Error()})), nil
	}
	issues := append(reservedIssues(state), prepareState(req.Type, req.ID, state)...)
	if len(issues) > 0 {
		return res.fail(validationFailed(issues)), nil
	}

	existing, err := st.load(req.ID)
	exists := err == nil
	if err != nil && !errors.Is(err, errNoArtifact) {
		return res, err
	}
	if exists && !req.Overwrite {
		return res.fail(duplicate(req.Type, req.ID, res.Path)), nil
	}

	var before artifact.State
	if exists {
		before = existing.State
	}
	res.BeforeState = before
	res.AfterState = state

	if !req.DryRun {
		if err := st.save(req.ID, state); err != nil {
			return res, err
		}
		if err := e.record(ctx, artifact.OpCreate, req.Type, req.ID, before, state); err != nil {
			return res, err
		}
	}
	return res.succeed(state), nil
}

// Read loads one artifact. Soft-deleted artifacts are not found unless
// IncludeDeleted is set.
func (e *Engine) Read(ctx context.Context, req ReadRequest) (Result[artifact.State], error) {
	req.ID = artifact.CanonicalID(req.Type, req.ID)
	info := traffic.Info{Type: req.Type, ArtifactID: req.ID}
	return traffic.Wrap(ctx, e.traffic, artifact.OpRead, info, func(ctx context.Context) (Result[artifact.State], error) {
		return e.read(ctx, req)
	})
}

func (e *Engine) read(ctx context.Context, req ReadRequest) (Result[artifact.State], error) {
	res := newResult[artifact.State](artifact.OpRead, e.now())

	st, fail := e.storeFor(req.Type, req.ID)
	if fail != nil {
		return res.fail(fail), nil
	}
	res.Path = st.path(req.ID)

	rec, fail, err := e.loadLive(st, req.Type, req.ID, req.IncludeDeleted)
	if err != nil {
		return res, err
	}
	if fail != nil {
		return res.fail(fail), nil
	}

	if err := e.record(ctx, artifact.OpRead, req.Type, req.ID, nil, nil); err != nil {
		return res, err
	}
	return res.succeed(rec.State), nil
}

// Update changes an existing artifact.
func (e *Engine) Update(ctx context.Context, req UpdateRequest) (Result[artifact.State], error) {
	req.ID = artifact.CanonicalID(req.Type, req.ID)
	info := traffic.Info{Type: req.Type, ArtifactID: req.ID}
	return traffic.Wrap(ctx, e.traffic, artifact.OpUpdate, info, func(ctx context.Context) (Result[artifact.State], error) {
		return e.update(ctx, req)
	})
}

func (e *Engine) update(ctx context.Context, req UpdateRequest) (Result[artifact.State], error) {
	res := newResult[artifact.State](artifact.OpUpdate, e.now())

	st, fail := e.storeFor(req.Type, req.ID)
	if fail != nil {
		return res.fail(fail), nil
	}
	res.Path = st.path(req.ID)

	changes, err := normalizeInput(req.Changes)
	if err != nil {
		return res.fail(validationFailed([]string{err.Error()})), nil
	}
	if issues := reservedIssues(changes); len(issues) > 0 {
		return res.fail(validationFailed(issues)), nil
	}

	current, fail, err := e.loadLive(st, req.Type, req.ID, false)
	if err != nil {
		return res, err
	}
	if fail != nil {
		return res.fail(fail), nil
	}

	next := applyChanges(current.State, changes, req.Replace)
	if issues := prepareState(req.Type, req.ID, next); len(issues) > 0 {
		return res.fail(validationFailed(issues)), nil
	}
	res.BeforeState = current.State
	res.AfterState = next

	if !req.DryRun {
		if err := st.save(req.ID, next); err != nil {
			return res, err
		}
		if err := e.record(ctx, artifact.OpUpdate, req.Type, req.ID, current.State, next); err != nil {
			return res, err
		}
	}
	return res.succeed(next), nil
}

// applyChanges shallow-merges changes onto current, where a nil value removes
// the field, or with replace returns a copy of changes.
func applyChanges(current, changes artifact.State, replace bool) artifact.State {
	if replace {
		return changes.Clone()
	}
	next := current.Clone()
	for k, v := range changes {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = v
	}
	return next
}

// Delete removes an artifact, or with Soft marks it deleted.
func (e *Engine) Delete(ctx context.Context, req DeleteRequest) (Result[Deletion], error) {
	req.ID = artifact.CanonicalID(req.Type, req.ID)
	info := traffic.Info{Type: req.Type, ArtifactID: req.ID}
	return traffic.Wrap(ctx, e.traffic, artifact.OpDelete, info, func(ctx context.Context) (Result[Deletion], error) {
		return e.delete(ctx, req)
	})
}

func (e *Engine) delete(ctx context.Context, req DeleteRequest) (Result[Deletion], error) {
	res := newResult[Deletion](artifact.OpDelete, e.now())

	st, fail := e.storeFor(req.Type, req.ID)
	if fail != nil {
		return res.fail(fail), nil
	}
	res.Path = st.path(req.ID)

	// A soft-deleted artifact can still be purged by a hard delete.
	current, fail, err := e.loadLive(st, req.Type, req.ID, !req.Soft)
	if err != nil {
		return res, err
	}
	if fail != nil {
		return res.fail(fail), nil
	}
	res.BeforeState = current.State

	var after artifact.State
	if req.Soft {
		after = current.State.Clone()
		after["deleted"] = true
		after["deletedAt"] = e.now().UTC().Format(time.RFC3339)
		if err := st.save(req.ID, after); err != nil {
			return res, err
		}
	} else if err := st.remove(req.ID); err != nil {
		if errors.Is(err, errNoArtifact) {
			return res.fail(notFound(req.Type, req.ID, res.Path)), nil
		}
		return res, err
	}
	res.AfterState = after

	if err := e.record(ctx, artifact.OpDelete, req.Type, req.ID, current.State, after); err != nil {
		return res, err
	}
	return res.succeed(Deletion{Type: req.Type, ID: req.ID, Soft: req.Soft}), nil
}

// storeFor validates the type and id of a request.
func (e *Engine) storeFor(t artifact.Type, id string) (store, *Error) {
	st, ok := e.stores[t]
	if !ok {
		return nil, invalidType(t)
	}
	if err := artifact.ValidateID(t, id); err != nil {
		return nil, validationFailed([]string{err.Error()})
	}
	return st, nil
}

// loadLive loads id, reporting a missing or (unless includeDeleted)
// soft-deleted artifact as not found.
func (e *Engine) loadLive(st store, t artifact.Type, id string, includeDeleted bool) (record, *Error, error) {
	rec, err := st.load(id)
	if errors.Is(err, errNoArtifact) {
		return record{}, notFound(t, id, st.path(id)), nil
	}
	if err != nil {
		return record{}, nil, err
	}
	if rec.State.Deleted() && !includeDeleted {
		return record{}, notFound(t, id, rec.Path), nil
	}
	return rec, nil, nil
}

// record adds a history entry for the operation running under ctx. Mutations
// carry before and after snapshots and their diff.
func (e *Engine) record(ctx context.Context, op artifact.Operation, t artifact.Type, id string, before, after artifact.State) error {
	entry := versioning.Entry{
		OperationID: traffic.OperationID(ctx),
		Operation:   op,
		Type:        t,
		ArtifactID:  id,
		Timestamp:   e.now().UTC(),
	}
	if op.Mutates() {
		b, err := versioning.CaptureSnapshot(t, id, e.root, before)
		if err != nil {
			return err
		}
		a, err := versioning.CaptureSnapshot(t, id, e.root, after)
		if err != nil {
			return err
		}
		diff := versioning.ComputeDiff(t, id, before, after)
		entry.Before, entry.After, entry.Diff = b, a, &diff
	}

	e.historyMu.Lock()
	e.history.Add(entry)
	e.historyMu.Unlock()

	e.log.Debug().Str("operation", string(op)).Str("logId", entry.OperationID).Msg("history recorded")
	return nil
}

// RecentOperations returns up to n history entries, newest first.
func (e *Engine) RecentOperations(n int) []versioning.Entry {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.history.GetRecent(n)
}

// ArtifactHistory returns the mutations of id, newest first.
func (e *Engine) ArtifactHistory(id string) []versioning.Entry {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.history.FindByArtifact(id)
}

// FindOperation returns the history entry for a log id.
func (e *Engine) FindOperation(logID string) (versioning.Entry, bool) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.history.FindByOperation(logID)
}

// UndoCandidate returns the entry for logID when it could be inverted.
// Nothing is executed.
func (e *Engine) UndoCandidate(logID string) (versioning.Entry, bool) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.history.GetUndoCandidate(logID)
}

// HistorySize returns the number of retained history entries and the
// capacity.
func (e *Engine) HistorySize() (size, capacity int) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.history.Size(), e.history.Capacity()
}

func newResult[T any](op artifact.Operation, now time.Time) Result[T] {
	return Result[T]{Operation: op, Timestamp: now.UTC()}
}

func (r Result[T]) fail(e *Error) Result[T] {
	r.Success = false
	r.Error = e
	return r
}

func (r Result[T]) succeed(data T) Result[T] {
	r.Success = true
	r.Data = data
	return r
}

// normalizeInput converts caller state to a normalized, non-nil State.
func normalizeInput(s artifact.State) (artifact.State, error) {
	n, err := artifact.Normalize(s)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = artifact.State{}
	}
	return n, nil
}
