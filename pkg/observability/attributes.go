package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Enact-specific span attribute keys.
var (
	AttrRunID    = attribute.Key("enact.run.id")
	AttrWorkflow = attribute.Key("enact.workflow")
	AttrSystem   = attribute.Key("enact.connector.system")
	AttrAction   = attribute.Key("enact.connector.action")
)

// ActionEvent builds the attribute set recorded when a connector action
// is attempted, for attaching to a span event.
func ActionEvent(system, action string, success bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrSystem.String(system),
		AttrAction.String(action),
		attribute.Bool("enact.action.success", success),
	}
}

// AddSpanEvent adds a named event with attrs to the span in ctx.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// SetSpanError records err on the span in ctx, if err is non-nil.
func SetSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	trace.SpanFromContext(ctx).RecordError(err)
}
