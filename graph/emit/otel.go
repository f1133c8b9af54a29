package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter converts events to OpenTelemetry spans.
//
// Each event becomes a short-lived span named after event.Msg, carrying the
// run ID, step and node ID as attributes plus all Meta fields. An "error"
// Meta entry sets the span status to error.
//
// Usage:
//
//	tracer := otel.Tracer("stategraph")
//	emitter := emit.NewOTelEmitter(tracer)
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter over the given tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit records the event as a span. The span is ended immediately; events
// represent points in time, not durations.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("stategraph.run_id", event.RunID),
		attribute.Int("stategraph.step", event.Step),
		attribute.String("stategraph.node_id", event.NodeID),
	)

	for key, value := range event.Meta {
		name := "stategraph." + key
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(name, v))
		case int:
			span.SetAttributes(attribute.Int(name, v))
		case int64:
			span.SetAttributes(attribute.Int64(name, v))
		case float64:
			span.SetAttributes(attribute.Float64(name, v))
		case bool:
			span.SetAttributes(attribute.Bool(name, v))
		default:
			span.SetAttributes(attribute.String(name, fmt.Sprintf("%v", v)))
		}
	}

	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}
