package traffic

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// CodeUnexpected marks errors and panics escaping the wrapped function.
const CodeUnexpected = "UNEXPECTED_ERROR"

const tracerName = "github.com/agentx-labs/zgent/internal/traffic"

// Event names.
const (
	EventStart   = "start"
	EventSuccess = "success"
	EventError   = "error"
)

var (
	epoch   = time.Now()
	counter atomic.Uint64
)

// NewOperationID returns a process-unique id of the form
// op_<unix-millis>_<counter>. The millisecond part is read from the
// monotonic clock so it never runs backwards.
func NewOperationID() string {
	millis := epoch.UnixMilli() + time.Since(epoch).Milliseconds()
	return fmt.Sprintf("op_%d_%d", millis, counter.Add(1))
}

type ctxKey struct{}

// OperationID returns the id Wrap assigned to the operation running under
// ctx, or "".
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Outcome is implemented by operation results. R is the result type itself
// so Finish can return the stamped copy.
type Outcome[R any] interface {
	// Succeeded reports whether the operation produced its intended effect.
	Succeeded() bool
	// Failure returns the error code and message of a failed result.
	Failure() (code, message string)
	// States returns the before and after states and the artifact path.
	States() (before, after artifact.State, path string)
	// Finish returns the result stamped with its log id and duration.
	Finish(logID string, d time.Duration) R
}

// Info identifies the artifact an operation targets. Both fields are empty
// for queries spanning every type.
type Info struct {
	Type       artifact.Type
	ArtifactID string
}

// Logger emits traffic events and spans.
type Logger struct {
	log    zerolog.Logger
	tracer trace.Tracer
}

// Option configures a Logger.
type Option func(*loggerOptions)

type loggerOptions struct {
	tp trace.TracerProvider
}

// WithTracerProvider sets the provider spans are started from. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *loggerOptions) { o.tp = tp }
}

// New returns a Logger writing events to log.
func New(log zerolog.Logger, opts ...Option) *Logger {
	o := loggerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	return &Logger{
		log:    log.With().Str("component", "traffic").Logger(),
		tracer: o.tp.Tracer(tracerName),
	}
}

// Nop returns a Logger that records nothing.
func Nop() *Logger {
	return New(zerolog.Nop(), WithTracerProvider(noop.NewTracerProvider()))
}

// Wrap runs fn as operation op on info. It logs a start event, then exactly
// one terminal event: success, error for a failed result, or error with
// CodeUnexpected when fn returns an error or panics. The result is stamped
// with the operation id and the call duration; an error is returned as is
// and a panic is re-raised with its original value.
func Wrap[R Outcome[R]](ctx context.Context, l *Logger, op artifact.Operation, info Info, fn func(context.Context) (R, error)) (result R, err error) {
	if l == nil {
		l = Nop()
	}
	id := NewOperationID()
	start := time.Now()

	ctx = context.WithValue(ctx, ctxKey{}, id)
	ctx, span := l.tracer.Start(ctx, "zgent."+string(op),
		trace.WithAttributes(
			attribute.String("zgent.operation_id", id),
			attribute.String("zgent.operation", string(op)),
			attribute.String("zgent.artifact.type", string(info.Type)),
			attribute.String("zgent.artifact.id", info.ArtifactID),
		),
	)
	defer span.End()

	event := func(e *zerolog.Event, name string) *zerolog.Event {
		e = e.Str("event", name).Str("logId", id).Str("operation", string(op))
		if info.Type != "" {
			e = e.Str("type", string(info.Type))
		}
		if info.ArtifactID != "" {
			e = e.Str("id", info.ArtifactID)
		}
		return e
	}

	event(l.log.Info(), EventStart).Msg("operation started")

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		d := time.Since(start)
		event(l.log.Error(), EventError).
			Int64("durationMs", d.Milliseconds()).
			Str("code", CodeUnexpected).
			Str("message", fmt.Sprint(v)).
			Msg("operation panicked")
		span.SetStatus(codes.Error, fmt.Sprint(v))
		panic(v)
	}()

	result, err = fn(ctx)
	d := time.Since(start)

	if err != nil {
		event(l.log.Error(), EventError).
			Int64("durationMs", d.Milliseconds()).
			Str("code", CodeUnexpected).
			Err(err).
			Msg("operation failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	result = result.Finish(id, d)
	before, after, path := result.States()

	if !result.Succeeded() {
		code, message := result.Failure()
		event(l.log.Warn(), EventError).
			Int64("durationMs", d.Milliseconds()).
			Str("code", code).
			Str("message", message).
			Str("path", path).
			Msg("operation rejected")
		span.SetAttributes(attribute.String("zgent.error.code", code))
		span.SetStatus(codes.Error, message)
		return result, nil
	}

	e := event(l.log.Info(), EventSuccess).Int64("durationMs", d.Milliseconds())
	if path != "" {
		e = e.Str("path", path)
	}
	if before != nil {
		e = e.Interface("beforeState", before)
	}
	if after != nil {
		e = e.Interface("afterState", after)
	}
	e.Msg("operation succeeded")
	span.SetStatus(codes.Ok, "")
	return result, nil
}
