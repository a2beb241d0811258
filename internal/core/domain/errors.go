package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownProject is a ConfigError: a dependency edge references a
	// project that doesn't exist in the graph.
	ErrUnknownProject = zerr.New("unknown project reference")

	// ErrDuplicateTask is returned by TaskCollection.AddTask when a task
	// with the same name is already registered.
	ErrDuplicateTask = zerr.New("duplicate task")

	// ErrUnknownTask is returned by TaskCollection.AddDependencies when a
	// referenced task name isn't registered.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrCyclicDependency is returned by TaskCollection.OrderedTasks when
	// the dependent relation contains a cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrAnalyzerUnavailable is a non-fatal error signaling that the
	// change analyzer could not produce a file-hash map for a project
	// (no VCS present, VCS binary missing, or the repository is in an
	// unusable state). The caller degrades the task to always-run and
	// uncacheable.
	ErrAnalyzerUnavailable = zerr.New("change analyzer unavailable")

	// ErrAlreadyReported is a sentinel meaning a user-visible message was
	// already written by the runner; callers should suppress their own
	// failure message but still exit non-zero.
	ErrAlreadyReported = zerr.New("already reported")

	// ErrNoTargetsSpecified is returned when a run is requested without a
	// script name. (An empty to/from selection selects the whole graph.)
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrWarningsPresent is joined into a run's overall error when one or
	// more tasks finished StatusSuccessWithWarning and
	// RunnerConfig.AllowWarningsInSuccess is false. It never affects an
	// individual task's scheduling, only the run's final exit code.
	ErrWarningsPresent = zerr.New("one or more tasks completed with warnings")

	// ErrCache is a non-fatal error signaling that the cache object store
	// could not restore or store a task's outputs (corrupt archive,
	// unwritable cache root, disk full). The runner never fails a task for
	// it: a restore error is treated as a cache miss, and a store error
	// downgrades the task to StatusSuccessWithWarning.
	ErrCache = zerr.New("cache error")

	// ErrTaskTranscript carries a failing or warning task's full captured
	// transcript to the structural logger, separate from the live
	// foreground stream, per spec.md §4.E invariant 3.
	ErrTaskTranscript = zerr.New("task transcript")
)

// CommandFailure carries the exit code and captured stderr tail of a
// failed task command. It is the per-task CommandFailure error kind from
// spec.md §7.
type CommandFailure struct {
	ExitCode   int
	StderrTail string
}

func (e *CommandFailure) Error() string {
	return fmt.Sprintf("command exited with status %d", e.ExitCode)
}
