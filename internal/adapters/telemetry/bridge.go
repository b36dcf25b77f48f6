package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/mindc/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports command spans to a
// Renderer. Spans without the command reason attribute, such as the root
// build span, are not rendered.
type Bridge struct {
	renderer ports.Renderer
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

func isCommandSpan(s sdktrace.ReadOnlySpan) bool {
	if !s.SpanContext().IsValid() {
		return false
	}
	key := attribute.Key(ports.AttrCommandReason)
	for _, kv := range s.Attributes() {
		if kv.Key == key {
			return true
		}
	}
	return false
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !isCommandSpan(s) {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.renderer.OnTaskStart(s.SpanContext().SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd is called when a span ends. An error status becomes the completion error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !isCommandSpan(s) {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "command failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
