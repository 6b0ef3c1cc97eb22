package pipeline

import (
	"context"
	"fmt"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
)

// Tracker reports stage progress as telemetry vertices and stops once ctx is done.
type Tracker struct {
	ctx       context.Context
	telemetry ports.Telemetry
	vertex    ports.Vertex
	title     string
	count     int
	done      int
}

// NewTracker creates a Tracker. telemetry may be nil.
func NewTracker(ctx context.Context, telemetry ports.Telemetry) *Tracker {
	return &Tracker{ctx: ctx, telemetry: telemetry}
}

// StartStep opens a vertex for the step.
func (t *Tracker) StartStep(title string, count int) {
	t.title, t.count, t.done = title, count, 0
	if t.telemetry != nil {
		_, t.vertex = t.telemetry.Record(t.ctx, title)
	}
}

// Update logs one processed item.
func (t *Tracker) Update(info string) bool {
	t.done++
	if t.vertex != nil {
		t.vertex.Log(domain.LogLevelDebug, fmt.Sprintf("[%d/%d] %s", t.done, t.count, info))
	}
	return t.ctx.Err() == nil
}

// EndStep closes the vertex of the step.
func (t *Tracker) EndStep() bool {
	err := t.ctx.Err()
	if t.vertex != nil {
		t.vertex.Complete(err)
		t.vertex = nil
	}
	return err == nil
}

// cancelAware makes any tracker stop once ctx is done, so cancellation is polled per item
// whatever tracker the caller supplied.
type cancelAware struct {
	ctx   context.Context
	inner ports.ProgressTracker
}

func (c *cancelAware) StartStep(title string, count int) {
	c.inner.StartStep(title, count)
}

func (c *cancelAware) Update(info string) bool {
	return c.inner.Update(info) && c.ctx.Err() == nil
}

func (c *cancelAware) EndStep() bool {
	return c.inner.EndStep() && c.ctx.Err() == nil
}
