// Package tracing provides an OpenTelemetry interceptor that records a span
// for every dispatch. It is entirely optional; spans are only produced when
// a [Config] is wired in via the WithTracing option.
package tracing

import (
	"context"
	"strings"

	"github.com/Keksclan/goThunker/contextx"
	"github.com/Keksclan/goThunker/dispatch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Keksclan/goThunker/tracing"

// Config holds the OpenTelemetry configuration used by the interceptor.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// Interceptor returns a [dispatch.Interceptor] that starts a span named
// "dispatch <type>" around every dispatch. Dispatches made from inside a
// thunk with the same context become child spans. If cfg is nil the
// interceptor is a no-op passthrough.
func Interceptor(cfg *Config) dispatch.Interceptor {
	if cfg == nil {
		return func(next dispatch.Func) dispatch.Func { return next }
	}
	tracer := cfg.tracer()
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			actionType := dispatch.TypeOf(action)
			ctx, span := tracer.Start(ctx, "dispatch "+actionType, trace.WithSpanKind(trace.SpanKindInternal))
			defer span.End()

			namespace, name := splitActionType(actionType)
			attrs := []attribute.KeyValue{
				attribute.String("dispatch.type", actionType),
				attribute.String("dispatch.kind", dispatch.KindOf(action)),
				attribute.String("dispatch.namespace", namespace),
				attribute.String("dispatch.name", name),
			}
			if id := contextx.DispatchIDFromContext(ctx); id != "" {
				attrs = append(attrs,
					attribute.String("dispatch.id", id),
					attribute.Int("dispatch.depth", contextx.DepthFromContext(ctx)),
				)
			}
			span.SetAttributes(attrs...)

			resp, err := next(ctx, action)
			recordStatus(span, err)
			return resp, err
		}
	}
}

// --- helpers ----------------------------------------------------------------

// splitActionType splits "namespace/name" into ("namespace", "name").
func splitActionType(actionType string) (string, string) {
	namespace, name, ok := strings.Cut(actionType, "/")
	if !ok {
		return "", actionType
	}
	return namespace, name
}

// recordStatus sets the span status from the dispatch outcome.
func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
