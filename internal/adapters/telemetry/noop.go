package telemetry

import (
	"context"

	"go.weft.build/weft/internal/core/ports"
)

var _ ports.Tracer = (*NoOpTracer)(nil)

// NoOpTracer implements ports.Tracer with no-op spans, for callers that
// want tracing off without nil-checking a tracer. The graft wiring
// registers OTelTracer, not this type.
type NoOpTracer struct{}

// NewNoOpTracer creates a NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

func (t *NoOpTracer) EmitPlan(_ context.Context, _ []string) {}

type noOpSpan struct{}

func (noOpSpan) End()                          {}
func (noOpSpan) RecordError(_ error)           {}
func (noOpSpan) SetAttribute(_ string, _ any)  {}
func (noOpSpan) Write(p []byte) (int, error)   { return len(p), nil }
