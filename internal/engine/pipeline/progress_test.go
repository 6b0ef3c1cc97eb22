package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.trai.ch/bale/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

func TestTracker_RecordsVertices(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	ctx := context.Background()
	tel.EXPECT().Record(ctx, "deduplication").Return(ctx, vertex)
	vertex.EXPECT().Log(domain.LogLevelDebug, "[1/2] first")
	vertex.EXPECT().Log(domain.LogLevelDebug, "[2/2] second")
	vertex.EXPECT().Complete(nil)

	tracker := pipeline.NewTracker(ctx, tel)
	tracker.StartStep("deduplication", 2)
	assert.True(t, tracker.Update("first"))
	assert.True(t, tracker.Update("second"))
	assert.True(t, tracker.EndStep())
}

func TestTracker_StopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tracker := pipeline.NewTracker(ctx, nil)

	tracker.StartStep("archiving", 3)
	assert.True(t, tracker.Update("a"))
	cancel()
	assert.False(t, tracker.Update("b"))
	assert.False(t, tracker.EndStep())
}
