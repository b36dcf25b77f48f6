package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/mindc/internal/core/ports"
)

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// With a renderer attached, span output is batched and streamed to it.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer from the global provider.
func NewOTelTracer(name string) *OTelTracer {
	return NewOTelTracerWithProvider(otel.GetTracerProvider(), name)
}

// NewOTelTracerWithProvider creates a tracer from tp.
func NewOTelTracerWithProvider(tp trace.TracerProvider, name string) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(name)}
}

// WithRenderer sets the renderer receiving plans and command output.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.renderer = r
	return t
}

// Start creates a new span. Options become span attributes at start time.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	attrs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		attrs = append(attrs, attributeOf(k, v))
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	var out *OutputBuffer
	if t.renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		renderer := t.renderer
		out = NewOutputBuffer(0, 0, func(data []byte) {
			renderer.OnTaskLog(spanID, data)
		})
	}

	return ctx, &OTelSpan{span: span, out: out}
}

// EmitPlan records the plan as an event of the current span and hands it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, scheduled, expunged []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("scheduled", scheduled),
			attribute.StringSlice("expunged", expunged),
		))
	}

	if t.renderer != nil {
		t.renderer.OnPlanEmit(scheduled, expunged)
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
	out  *OutputBuffer
}

// End flushes buffered output, then completes the span.
func (s *OTelSpan) End() {
	if s.out != nil {
		_ = s.out.Close()
	}
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(attributeOf(key, value))
}

// Write buffers command output for the renderer. Without a renderer the
// output becomes a log event of the span.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.out != nil {
		return s.out.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

func attributeOf(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
