package sink

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/marcodamonte/timed/timed"
)

// Span turns each Record into a finished span under ctx. The span starts and
// ends at the Record's instants, not at the time Report runs.
func Span(ctx context.Context, tracer trace.Tracer) timed.Reporter {
	return timed.ReporterFunc(func(rec timed.Record) {
		_, span := tracer.Start(ctx, rec.Name,
			trace.WithTimestamp(rec.Start),
			trace.WithAttributes(
				attribute.String("timed.outcome", string(rec.Outcome())),
				attribute.Float64("timed.seconds", rec.Seconds()),
			),
		)

		switch rec.Outcome() {
		case timed.OutcomeError:
			span.RecordError(rec.Err)
			span.SetStatus(codes.Error, rec.Err.Error())
		case timed.OutcomePanic:
			span.SetStatus(codes.Error, "panic")
		default:
			span.SetStatus(codes.Ok, "")
		}

		span.End(trace.WithTimestamp(rec.End))
	})
}
