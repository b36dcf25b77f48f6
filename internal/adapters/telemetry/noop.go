package telemetry

import (
	"context"

	"go.trai.ch/mindc/internal/core/ports"
)

var (
	_ ports.Tracer = (*NoOpTracer)(nil)
	_ ports.Span   = (*NoOpSpan)(nil)
)

// NoOpTracer is a no-op implementation of ports.Tracer, used by plan.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start creates a new no-op span.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &NoOpSpan{}
}

// EmitPlan does nothing.
func (t *NoOpTracer) EmitPlan(_ context.Context, _, _ []string) {}

// NoOpSpan is a no-op implementation of ports.Span.
type NoOpSpan struct{}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards p.
func (s *NoOpSpan) Write(p []byte) (n int, err error) {
	return len(p), nil
}
