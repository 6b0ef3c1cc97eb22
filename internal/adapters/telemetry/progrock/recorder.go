// Package progrock records build progress on a progrock tape.
package progrock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/bale/internal/core/ports"
)

// Recorder implements ports.Telemetry on a progrock writer.
type Recorder struct {
	w    progrock.Writer
	rec  *progrock.Recorder
	seq  atomic.Uint64
	tape *progrock.Tape
}

// New creates a Recorder on a fresh in-memory tape.
func New() *Recorder {
	tape := progrock.NewTape()
	r := NewRecorder(tape)
	r.tape = tape
	return r
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Tape returns the in-memory tape when the recorder owns one.
func (r *Recorder) Tape() *progrock.Tape {
	return r.tape
}

// Record starts a vertex. Repeated names get distinct vertices.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.seq.Add(1)))
	vertex := &Vertex{vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
