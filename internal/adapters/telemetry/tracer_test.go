package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/bale/internal/adapters/telemetry"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
	var _ sdktrace.SpanProcessor = (*telemetry.LogBridge)(nil)
}

func newRecorded() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	return sr, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
}

func TestOTelTracer_Span(t *testing.T) {
	sr, tp := newRecorded()
	tracer := telemetry.NewOTelTracer("test", tp)

	_, span := tracer.Start(context.Background(), "archiving", ports.WithAttribute("bale.bundles", 3))
	span.SetAttribute("bale.code", "success")
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "archiving", ended[0].Name())

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "3", attrs["bale.bundles"])
	assert.Equal(t, "success", attrs["bale.code"])
	assert.Empty(t, ended[0].Events())
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr, tp := newRecorded()
	tracer := telemetry.NewOTelTracer("test", tp)

	_, span := tracer.Start(context.Background(), "deduplication")
	span.RecordError(assert.AnError)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, assert.AnError.Error(), ended[0].Status().Description)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr, tp := newRecorded()
	tracer := telemetry.NewOTelTracer("test", tp)

	// Without a current span the plan is dropped.
	tracer.EmitPlan(context.Background(), []string{"preflight"})

	ctx, root := tp.Tracer("test").Start(context.Background(), "build")
	tracer.EmitPlan(ctx, []string{"preflight", "archiving"})
	root.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
	assert.Equal(t, []string{"preflight", "archiving"}, events[0].Attributes[0].Value.AsStringSlice())
}

func TestLogBridge(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(1)
	log.EXPECT().Error(gomock.Any()).Times(1)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewProvider(log))
	_, ok := tracer.Start(context.Background(), "compile")
	ok.End()
	_, failed := tracer.Start(context.Background(), "archive")
	failed.RecordError(assert.AnError)
	failed.End()

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()
	tracer.EmitPlan(ctx, []string{"a"})

	got, span := tracer.Start(ctx, "stage")
	assert.Equal(t, ctx, got)
	span.SetAttribute("key", "value")
	span.RecordError(assert.AnError)
	span.End()
}
