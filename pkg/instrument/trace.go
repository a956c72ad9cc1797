package instrument

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reago-dev/reago/pkg/reactive"
)

// Default tracer name for Reago runtimes.
const defaultTracerName = "reago"

// TraceConfig configures effect tracing.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "reago").
	TracerName string

	// Attributes are added to every run span.
	Attributes []attribute.KeyValue

	// EventDetail additionally records a span event per dependency edge
	// and per trigger. Requires the runtime's debug mode; high volume.
	EventDetail bool
}

// TraceOption configures effect tracing.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTraceAttributes adds attributes to every run span.
func WithTraceAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// WithEventDetail enables per-edge span events.
func WithEventDetail(detail bool) TraceOption {
	return func(c *TraceConfig) {
		c.EventDetail = detail
	}
}

// defaultTraceConfig returns the default tracing configuration.
func defaultTraceConfig() TraceConfig {
	return TraceConfig{
		TracerName: defaultTracerName,
	}
}

// NewTracedEffect creates an effect whose every run is wrapped in an
// OpenTelemetry span named name. The span's context is handed to fn for
// propagation into downstream calls.
//
// The tracer comes from the global tracer provider; configure it in
// main() before creating traced effects:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// With WithEventDetail and the runtime in debug mode, each dependency
// edge recorded during the run becomes a span event, and each write that
// re-invokes the effect becomes an instant span of its own.
func NewTracedEffect(rt *reactive.Runtime, name string, fn func(ctx context.Context) any, opts ...TraceOption) *reactive.Effect {
	config := defaultTraceConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tracer := otel.Tracer(config.TracerName)

	// current is the span of the run in progress; the track hook fires
	// only while a run is on the stack.
	var current trace.Span

	wrapped := func() any {
		ctx, span := tracer.Start(
			context.Background(),
			name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(config.Attributes...),
		)
		current = span
		defer func() {
			current = nil
			span.End()
		}()
		return fn(ctx)
	}

	effOpts := []reactive.EffectOption{}
	if config.EventDetail {
		effOpts = append(effOpts,
			reactive.OnTrack(func(ev reactive.TrackEvent) {
				if current == nil {
					return
				}
				current.AddEvent("reago.track", trace.WithAttributes(
					attribute.String("reago.op", ev.Op.String()),
					attribute.String("reago.key", fmt.Sprintf("%v", ev.Key)),
				))
			}),
			reactive.OnTrigger(func(ev reactive.TriggerEvent) {
				_, span := tracer.Start(
					context.Background(),
					name+".trigger",
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(append([]attribute.KeyValue{
						attribute.String("reago.op", ev.Op.String()),
						attribute.String("reago.key", fmt.Sprintf("%v", ev.Key)),
					}, config.Attributes...)...),
				)
				span.End()
			}),
		)
	}

	return reactive.NewEffect(rt, wrapped, effOpts...)
}
