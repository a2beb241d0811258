package collator

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/vito/progrock"
	"go.weft.build/weft/internal/core/ports"
)

var _ ports.Handle = (*handle)(nil)

// handle implements ports.Handle: writes tee into the live progrock
// vertex stream (unless quiet) and into a private transcript buffer that
// is always captured in full, ANSI-stripped and newline-normalized.
type handle struct {
	vertex *progrock.VertexRecorder
	quiet  bool

	mu          sync.Mutex
	transcript  bytes.Buffer
	wroteStderr bool
}

func newHandle(v *progrock.VertexRecorder, quiet bool) *handle {
	return &handle{vertex: v, quiet: quiet}
}

func (h *handle) Stdout() io.Writer {
	if h.quiet {
		return &transcriptWriter{h: h}
	}
	return io.MultiWriter(h.vertex.Stdout(), &transcriptWriter{h: h})
}

// Stderr always forwards to the live vertex stream, even in quiet mode —
// only Stdout is suppressed, per the CLI's quiet contract.
func (h *handle) Stderr() io.Writer {
	return io.MultiWriter(h.vertex.Stderr(), &transcriptWriter{h: h, stderr: true})
}

// WroteStderr reports whether a non-empty write ever reached Stderr.
func (h *handle) WroteStderr() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wroteStderr
}

// Complete marks the vertex done and returns the full captured transcript.
func (h *handle) Complete(summary string, succeeded bool) string {
	var err error
	if !succeeded {
		err = errSummary(summary)
	}
	h.vertex.Done(err)

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transcript.String()
}

// Close releases the handle for a task that never streamed any output
// (skipped or restored from cache).
func (h *handle) Close() {
	h.vertex.Cached()
}

type errSummary string

func (e errSummary) Error() string { return string(e) }

// transcriptWriter normalizes CRLF to LF and strips ANSI escape
// sequences before appending to the handle's transcript buffer, leaving
// the live foreground stream (which gets the raw bytes via MultiWriter)
// untouched.
type transcriptWriter struct {
	h      *handle
	stderr bool
}

func (w *transcriptWriter) Write(p []byte) (int, error) {
	clean := ansi.Strip(strings.ReplaceAll(string(p), "\r\n", "\n"))

	w.h.mu.Lock()
	w.h.transcript.WriteString(clean)
	if w.stderr && len(p) > 0 {
		w.h.wroteStderr = true
	}
	w.h.mu.Unlock()

	return len(p), nil
}
