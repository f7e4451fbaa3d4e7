package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agentx-labs/zgent/internal/artifact"
)

type fakeResult struct {
	ok      bool
	code    string
	message string
	before  artifact.State
	after   artifact.State
	path    string

	logID    string
	duration time.Duration
}

func (r fakeResult) Succeeded() bool                 { return r.ok }
func (r fakeResult) Failure() (code, message string) { return r.code, r.message }
func (r fakeResult) States() (before, after artifact.State, path string) {
	return r.before, r.after, r.path
}
func (r fakeResult) Finish(logID string, d time.Duration) fakeResult {
	r.logID = logID
	r.duration = d
	return r
}

// newTestLogger returns a Logger writing JSON to a buffer and recording
// spans.
func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer, *tracetest.SpanRecorder) {
	t.Helper()
	var buf bytes.Buffer
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return New(zerolog.New(&buf), WithTracerProvider(tp)), &buf, sr
}

func events(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

var info = Info{Type: artifact.Agent, ArtifactID: "a1"}

func TestNewOperationID(t *testing.T) {
	pattern := regexp.MustCompile(`^op_\d+_\d+$`)

	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := NewOperationID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
				assert.Regexp(t, pattern, id)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 1600)
}

func TestWrap_Success(t *testing.T) {
	l, buf, sr := newTestLogger(t)

	var seenID string
	res, err := Wrap(context.Background(), l, artifact.OpCreate, info, func(ctx context.Context) (fakeResult, error) {
		seenID = OperationID(ctx)
		return fakeResult{ok: true, after: artifact.State{"name": "a1"}, path: "agents/a1.md"}, nil
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.logID)
	assert.Equal(t, seenID, res.logID)

	evs := events(t, buf)
	require.Len(t, evs, 2)
	assert.Equal(t, EventStart, evs[0]["event"])
	assert.Equal(t, EventSuccess, evs[1]["event"])
	assert.Equal(t, res.logID, evs[0]["logId"])
	assert.Equal(t, res.logID, evs[1]["logId"])
	assert.Equal(t, "agents/a1.md", evs[1]["path"])
	assert.Equal(t, map[string]any{"name": "a1"}, evs[1]["afterState"])
	assert.NotContains(t, evs[1], "beforeState")
	assert.Equal(t, float64(res.duration.Milliseconds()), evs[1]["durationMs"])

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "zgent.create", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestWrap_FailureValue(t *testing.T) {
	l, buf, sr := newTestLogger(t)

	res, err := Wrap(context.Background(), l, artifact.OpRead, info, func(context.Context) (fakeResult, error) {
		return fakeResult{code: "ARTIFACT_NOT_FOUND", message: "agent a1 not found"}, nil
	})
	require.NoError(t, err)
	assert.False(t, res.ok)
	assert.NotEmpty(t, res.logID)

	evs := events(t, buf)
	require.Len(t, evs, 2)
	assert.Equal(t, EventError, evs[1]["event"])
	assert.Equal(t, "ARTIFACT_NOT_FOUND", evs[1]["code"])
	assert.Equal(t, "agent a1 not found", evs[1]["message"])

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestWrap_ErrorReturnedUnchanged(t *testing.T) {
	l, buf, sr := newTestLogger(t)
	boom := errors.New("disk full")

	_, err := Wrap(context.Background(), l, artifact.OpUpdate, info, func(context.Context) (fakeResult, error) {
		return fakeResult{}, boom
	})
	assert.Same(t, boom, err)

	evs := events(t, buf)
	require.Len(t, evs, 2)
	assert.Equal(t, EventError, evs[1]["event"])
	assert.Equal(t, CodeUnexpected, evs[1]["code"])
	assert.Equal(t, "disk full", evs[1]["error"])
	assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestWrap_PanicRethrown(t *testing.T) {
	l, buf, sr := newTestLogger(t)
	value := errors.New("nil map")

	assert.PanicsWithValue(t, value, func() {
		_, _ = Wrap(context.Background(), l, artifact.OpDelete, info, func(context.Context) (fakeResult, error) {
			panic(value)
		})
	})

	evs := events(t, buf)
	require.Len(t, evs, 2)
	assert.Equal(t, EventStart, evs[0]["event"])
	assert.Equal(t, EventError, evs[1]["event"])
	assert.Equal(t, CodeUnexpected, evs[1]["code"])
	require.Len(t, sr.Ended(), 1, "span ends on panic")
}

func TestWrap_NilLogger(t *testing.T) {
	res, err := Wrap(context.Background(), nil, artifact.OpQuery, Info{}, func(context.Context) (fakeResult, error) {
		return fakeResult{ok: true}, nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.logID)
}

func TestLogExporter(t *testing.T) {
	var spanLog bytes.Buffer
	tp := NewTracerProvider(zerolog.New(&spanLog).Level(zerolog.DebugLevel))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	l := New(zerolog.Nop(), WithTracerProvider(tp))
	_, err := Wrap(context.Background(), l, artifact.OpRead, info, func(context.Context) (fakeResult, error) {
		return fakeResult{ok: true}, nil
	})
	require.NoError(t, err)

	evs := events(t, &spanLog)
	require.Len(t, evs, 1)
	assert.Equal(t, "zgent.read", evs[0]["span"])
	assert.Equal(t, "a1", evs[0]["zgent.artifact.id"])
}
