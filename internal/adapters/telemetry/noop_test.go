package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.weft.build/weft/internal/adapters/telemetry"
)

func TestNoOpTracer_StartReturnsUsableSpan(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(context.Background(), "run")
	assert.NotNil(t, ctx)

	assert.NotPanics(t, func() {
		span.SetAttribute("key", "value")
		span.RecordError(errors.New("boom"))
		n, err := span.Write([]byte("hi"))
		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		span.End()
	})
}

func TestNoOpTracer_EmitPlan_NoPanic(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	assert.NotPanics(t, func() {
		tracer.EmitPlan(context.Background(), []string{"build"})
	})
}
