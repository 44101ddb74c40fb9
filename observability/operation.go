package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one command run or HTTP exchange: its span, its
// invocation id and its start time.
type Operation struct {
	ID        string
	Name      string
	StartTime time.Time
	span      trace.Span
}

// StartOperation starts a span named name and tags it with a fresh
// invocation id.
func StartOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	op := &Operation{
		ID:        uuid.NewString(),
		Name:      name,
		StartTime: time.Now(),
	}
	attrs = append(attrs, attribute.String(AttrInvocationID, op.ID))
	ctx, op.span = StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, op
}

// SetAttributes adds attributes to the operation span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End finishes the span. A non-nil err marks it failed; errorCode, when
// set, is attached for filtering.
func (op *Operation) End(status string, err error, errorCode string) {
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		if errorCode != "" {
			op.span.SetAttributes(attribute.String(AttrErrorCode, errorCode))
		}
	}
	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, op.Duration().Milliseconds()),
	)
	op.span.End()
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
