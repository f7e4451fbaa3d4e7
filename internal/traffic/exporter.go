package traffic

import (
	"context"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes finished spans as debug log records. It lets the CLI
// show span timings without a collector.
type LogExporter struct {
	log zerolog.Logger
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter returns an exporter writing to log.
func NewLogExporter(log zerolog.Logger) *LogExporter {
	return &LogExporter{log: log.With().Str("component", "trace").Logger()}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		ev := e.log.Debug().
			Str("span", s.Name()).
			Str("traceId", s.SpanContext().TraceID().String()).
			Str("spanId", s.SpanContext().SpanID().String()).
			Dur("elapsed", s.EndTime().Sub(s.StartTime())).
			Str("status", s.Status().Code.String())
		for _, kv := range s.Attributes() {
			ev = ev.Str(string(kv.Key), kv.Value.Emit())
		}
		ev.Msg("span")
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error { return nil }

// NewTracerProvider returns an SDK provider that exports synchronously to a
// LogExporter. Callers own its Shutdown.
func NewTracerProvider(log zerolog.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewLogExporter(log)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
