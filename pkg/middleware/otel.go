package middleware

import (
	"context"

	"github.com/vango-dev/dvue/pkg/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "dvue"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "dvue").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace. Nil traces everything.
	Filter func(ec *server.EventContext) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ec *server.EventContext) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ec *server.EventContext) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ec *server.EventContext) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every event.
//
// Each span carries the session ID, event type and target HID, and the
// number of patches the event produced. Handlers further down the chain
// see the span through ec.Context().
func OpenTelemetry(opts ...OTelOption) server.EventMiddleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(next server.EventHandler) server.EventHandler {
		return func(ec *server.EventContext) error {
			if config.Filter != nil && !config.Filter(ec) {
				return next(ec)
			}

			attrs := []attribute.KeyValue{
				attribute.String("dvue.event_type", ec.Event.Type),
				attribute.String("dvue.event_target", ec.Event.HID),
			}
			if ec.Session != nil {
				attrs = append(attrs, attribute.String("dvue.session_id", ec.Session.ID))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(ec)...)
			}

			ctx, span := tracer.Start(ec.Context(), "dvue."+ec.Event.Type,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()
			ec.SetContext(ctx)

			err := next(ec)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(attribute.Int("dvue.patch_count", ec.PatchCount))

			return err
		}
	}
}

// SpanFromEvent returns the span started for ec, or a no-op span.
func SpanFromEvent(ec *server.EventContext) trace.Span {
	return trace.SpanFromContext(ec.Context())
}

// TraceContext returns ec's context for propagating the trace to
// outgoing calls.
func TraceContext(ec *server.EventContext) context.Context {
	return ec.Context()
}
