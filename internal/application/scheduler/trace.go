package scheduler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dashql/dashql/internal/domain"
)

// tracerName identifies this package's spans in whatever exporter the host
// process configures (spec.md §3 leaves tracing wiring to the host;
// otel.Tracer is a no-op until a real TracerProvider is registered).
const tracerName = "github.com/dashql/dashql/internal/application/scheduler"

var tracer = otel.Tracer(tracerName)

// traceTask wraps one task's prepare+execute lifecycle in a span, the
// otel-backed analogue of the teacher's monitoring.ExecutionTrace
// (internal/infrastructure/monitoring/trace.go), which records the same
// per-node lifecycle as a homegrown event log instead of real spans.
func traceTask(ctx context.Context, sessionID string, task *domain.Task) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "task."+task.Type.String(),
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.Int("task_id", int(task.ID)),
			attribute.String("task_type", task.Type.String()),
			attribute.Int("statement_id", int(task.Data.StatementID)),
		),
	)
	return ctx, span
}

// recordTaskError attaches err to span without ending it; the caller's
// defer span.End() always closes the span exactly once.
func recordTaskError(span trace.Span, err error) {
	span.RecordError(err)
}
