// Package collator implements the output collator using progrock's
// segmented foreground-multiplexed terminal renderer, plus a parallel
// per-task transcript capture for later inspection (e.g. a failed task's
// full output) independent of what was shown live.
package collator

import (
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.weft.build/weft/internal/core/ports"
)

var _ ports.OutputSink = (*Collator)(nil)

// Collator implements ports.OutputSink on top of a progrock tape.
type Collator struct {
	rec   *progrock.Recorder
	quiet bool
}

// New creates a Collator writing to w. When quiet is true, a task's live
// stdout is kept off the foreground stream; stderr is still forwarded, and
// every write still lands in the task's transcript.
func New(w progrock.Writer, quiet bool) *Collator {
	return &Collator{rec: progrock.NewRecorder(w), quiet: quiet}
}

// Open claims a vertex for the named task.
func (c *Collator) Open(name string) ports.Handle {
	d := digest.FromString(name)
	v := c.rec.Vertex(d, name)
	return newHandle(v, c.quiet)
}

// Close flushes and closes the underlying tape, if it supports it.
func (c *Collator) Close() error {
	if closer, ok := interface{}(c.rec).(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
