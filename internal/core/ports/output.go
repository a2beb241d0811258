package ports

import "io"

// OutputSink defines the interface for the run-wide output collator: the
// thing that multiplexes every concurrently executing task's stdout/stderr
// onto one human-facing stream while keeping a full transcript of each.
//
//go:generate go run go.uber.org/mock/mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type OutputSink interface {
	// Open claims a Handle for the named task. The task's output is
	// buffered until it becomes the foreground task (or immediately
	// streamed, if nothing else currently holds the foreground).
	Open(name string) Handle
}

// Handle is one task's private channel into the collator: Stdout and
// Stderr write into both the live foreground/buffered stream and a
// persistent transcript; Complete reports the task's final status and
// releases the foreground claim.
type Handle interface {
	Stdout() io.Writer
	Stderr() io.Writer

	// Complete marks the task done with the given one-line summary and
	// whether it succeeded, and returns the task's full captured
	// transcript (ANSI-stripped, newline-normalized).
	Complete(summary string, succeeded bool) string

	// Close releases the handle without a completion summary, used when a
	// task is cached or skipped and never streams any output.
	Close()

	// WroteStderr reports whether anything was ever written to Stderr.
	// The runner treats this as a warning signal on an otherwise
	// successful command, per spec.md §4.F.
	WroteStderr() bool
}
