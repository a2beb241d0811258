// Package scheduler implements the task runner: a critical-path-ordered,
// dependency-respecting worker pool over a domain.TaskCollection.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
)

// Scheduler runs a domain.TaskCollection to completion.
type Scheduler struct {
	executor    ports.Executor
	analyzer    ports.ChangeAnalyzer
	stateStore  ports.BuildStateStore
	objectStore ports.ObjectStore
	sink        ports.OutputSink
	tracer      ports.Tracer
	verifier    ports.Verifier
	logger      ports.Logger

	toolVersionTag string
	configTag      string
}

// NewScheduler creates a Scheduler. logger receives a failing or
// warning task's full captured transcript, per spec.md §4.E invariant 3
// ("a separate destination receives per-task captured transcripts, used
// for log files and error summaries").
func NewScheduler(
	executor ports.Executor,
	analyzer ports.ChangeAnalyzer,
	stateStore ports.BuildStateStore,
	objectStore ports.ObjectStore,
	sink ports.OutputSink,
	tracer ports.Tracer,
	verifier ports.Verifier,
	logger ports.Logger,
	toolVersionTag, configTag string,
) *Scheduler {
	return &Scheduler{
		executor:       executor,
		analyzer:       analyzer,
		stateStore:     stateStore,
		objectStore:    objectStore,
		sink:           sink,
		tracer:         tracer,
		verifier:       verifier,
		logger:         logger,
		toolVersionTag: toolVersionTag,
		configTag:      configTag,
	}
}

// logTranscript reports a failing or warning task's full captured
// transcript through the scheduler's structural logger, independent of
// whatever the collator showed live.
func (s *Scheduler) logTranscript(taskName, transcript string) {
	if transcript == "" {
		return
	}
	s.logger.Error(zerr.With(zerr.With(domain.ErrTaskTranscript, "task", taskName), "transcript", transcript))
}

type result struct {
	task     domain.InternedString
	status   domain.TaskStatus
	err      error
	duration time.Duration
}

// runState holds everything mutated over the course of one Run call.
type runState struct {
	sched *Scheduler
	ctx   context.Context
	cfg   domain.RunnerConfig

	tasks      map[domain.InternedString]domain.Task
	priority   map[domain.InternedString]int // lower is higher priority
	dependents map[domain.InternedString][]domain.InternedString
	inDegree   map[domain.InternedString]int

	mu       sync.Mutex
	statuses map[domain.InternedString]domain.TaskStatus

	ready      []domain.InternedString
	active     int
	resultsCh  chan result
	errs       error
	failFast   bool
	stopReady  bool
}

// Run executes every task in ordered (already critical-path sorted by
// domain.TaskCollection.OrderedTasks), honoring dependency edges unless
// cfg.IgnoreDependencyOrder is set.
func (s *Scheduler) Run(ctx context.Context, ordered []domain.Task, cfg domain.RunnerConfig) error {
	state := s.newRunState(ctx, ordered, cfg)

	names := make([]string, len(ordered))
	for i, t := range ordered {
		names[i] = t.Name.String()
	}
	s.tracer.EmitPlan(ctx, names)

	return state.runLoop()
}

func (s *Scheduler) newRunState(ctx context.Context, ordered []domain.Task, cfg domain.RunnerConfig) *runState {
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	state := &runState{
		sched:      s,
		ctx:        ctx,
		cfg:        cfg,
		tasks:      make(map[domain.InternedString]domain.Task, len(ordered)),
		priority:   make(map[domain.InternedString]int, len(ordered)),
		dependents: make(map[domain.InternedString][]domain.InternedString),
		inDegree:   make(map[domain.InternedString]int, len(ordered)),
		statuses:   make(map[domain.InternedString]domain.TaskStatus, len(ordered)),
		resultsCh:  make(chan result, parallelism),
		failFast:   cfg.FailFast,
	}

	for i, t := range ordered {
		state.tasks[t.Name] = t
		state.priority[t.Name] = i
		state.statuses[t.Name] = domain.StatusReady
	}

	for _, t := range ordered {
		degree := 0
		if !cfg.IgnoreDependencyOrder {
			for _, dep := range t.Dependencies {
				if _, ok := state.tasks[dep]; ok {
					degree++
					state.dependents[dep] = append(state.dependents[dep], t.Name)
				}
			}
		}
		state.inDegree[t.Name] = degree
	}

	for _, t := range ordered {
		if state.inDegree[t.Name] == 0 {
			state.insertReady(t.Name)
		}
	}

	return state
}

// insertReady inserts name into the ready queue keeping it sorted by
// ascending priority (i.e. descending critical-path length).
func (state *runState) insertReady(name domain.InternedString) {
	pos := len(state.ready)
	for i, existing := range state.ready {
		if state.priority[name] < state.priority[existing] {
			pos = i
			break
		}
	}
	state.ready = append(state.ready, domain.InternedString{})
	copy(state.ready[pos+1:], state.ready[pos:])
	state.ready[pos] = name
}

func (state *runState) runLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	parallelism := state.cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	for len(state.ready) > 0 && state.active < parallelism && state.ctx.Err() == nil {
		if state.stopReady {
			// Fail-fast: drain the ready queue as Blocked instead of running it.
			name := state.ready[0]
			state.ready = state.ready[1:]
			state.setStatus(name, domain.StatusBlocked)
			state.propagateBlocked(name)
			continue
		}

		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.setStatus(name, domain.StatusExecuting)

		t := state.tasks[name]
		go state.executeTask(t)
	}
}

func (state *runState) setStatus(name domain.InternedString, status domain.TaskStatus) {
	state.mu.Lock()
	state.statuses[name] = status
	state.mu.Unlock()
}

func (state *runState) getStatus(name domain.InternedString) domain.TaskStatus {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.statuses[name]
}

func (state *runState) executeTask(t domain.Task) {
	start := time.Now()
	status, err := state.runOne(t)
	state.resultsCh <- result{task: t.Name, status: status, err: err, duration: time.Since(start)}
}

// runOne runs the full per-task pipeline: change analysis, fingerprinting,
// cache restore, incremental skip, command execution, and best-effort
// cache/state persistence.
func (state *runState) runOne(t domain.Task) (domain.TaskStatus, error) {
	ctx, span := state.sched.tracer.Start(state.ctx, t.Name.String())
	defer span.End()

	handle := state.sched.sink.Open(t.Name.String())

	// analyzable governs both the incremental-skip path and cache
	// restore/store: when the change analyzer can't produce a file-hash
	// map (no VCS, missing binary, unusable repo), the task is always-run
	// and uncacheable for this invocation, per spec.md §4.B/§7.
	files, analyzerErr := state.sched.analyzer.Analyze(t.Project.Dir, t.Project.IgnorePatterns)
	analyzable := analyzerErr == nil
	if !analyzable {
		files = domain.NewFileHashMap()
	}

	var fp domain.CacheFingerprint
	if analyzable {
		fp = domain.ComputeFingerprint(t.Command, files, state.sched.toolVersionTag, state.sched.configTag)

		// Per spec.md §4.F's pipeline order: attempt cache restore first
		// (step 5), and only fall back to the incremental-skip comparison
		// (step 6) on a cache miss.
		if restored, err := state.sched.objectStore.TryRestore(fp, t.Project.Dir); err == nil && restored {
			handle.Close()
			span.SetAttribute("weft.from_cache", true)
			return domain.StatusFromCache, nil
		}

		if state.cfg.Incremental {
			if status, skip := state.trySkip(t, files); skip {
				handle.Close()
				span.SetAttribute("weft.skipped", true)
				return status, nil
			}
		}

		// Neither restored nor skipped: about to spawn the command, so
		// drop any prior state file first (spec.md §4.F step 7). Otherwise
		// an interrupted rebuild (killed before persistCache's Put) could
		// leave a stale success record that a later invocation wrongly
		// matches against reverted inputs.
		if err := state.sched.stateStore.Delete(t.Project.Dir, t.ScriptName); err != nil {
			span.RecordError(err)
		}
	}

	err := state.sched.executor.Execute(ctx, t, handle)
	if err != nil {
		span.RecordError(err)
		transcript := handle.Complete(fmt.Sprintf("%s failed", t.Name.String()), false)
		state.sched.logTranscript(t.Name.String(), transcript)
		return domain.StatusFailure, zerr.With(zerr.Wrap(err, "task execution failed"), "task", t.Name.String())
	}

	status := domain.StatusSuccess
	if handle.WroteStderr() {
		status = domain.StatusSuccessWithWarning
	}

	outputsOK, verifyErr := state.sched.verifier.VerifyOutputs(t.Project.Dir, t.Outputs)
	if verifyErr != nil || !outputsOK {
		span.RecordError(verifyErr)
		status = domain.StatusSuccessWithWarning
	} else if analyzable && !state.persistCache(t, files, fp) {
		status = domain.StatusSuccessWithWarning
	}

	transcript := handle.Complete(fmt.Sprintf("%s done", t.Name.String()), true)
	if status == domain.StatusSuccessWithWarning {
		state.sched.logTranscript(t.Name.String(), transcript)
	}

	return status, nil
}

// trySkip reports whether t's own inputs are unchanged since its last
// recorded build state and, per spec.md's incremental rule, whether that's
// sufficient to skip: either ChangedProjectsOnly is set, or none of t's
// dependencies actually ran their command this run.
func (state *runState) trySkip(t domain.Task, files *domain.FileHashMap) (domain.TaskStatus, bool) {
	prior, err := state.sched.stateStore.Get(t.Project.Dir, t.ScriptName)
	if err != nil || prior == nil {
		return domain.StatusReady, false
	}

	if !prior.Matches(files, t.Command) {
		return domain.StatusReady, false
	}

	if state.cfg.ChangedProjectsOnly || !state.anyDependencyRan(t) {
		return domain.StatusSkipped, true
	}

	return domain.StatusReady, false
}

// anyDependencyRan reports whether any of t's dependencies actually
// executed its command this run (as opposed to being skipped or restored
// from cache).
func (state *runState) anyDependencyRan(t domain.Task) bool {
	for _, dep := range t.Dependencies {
		switch state.getStatus(dep) {
		case domain.StatusSuccess, domain.StatusSuccessWithWarning:
			return true
		}
	}
	return false
}

// persistCache writes the new build state and attempts to store the
// task's outputs in the object store. Both are best-effort: a failure
// here never fails the task, only downgrades it to SuccessWithWarning
// (the state-write failure just costs a future cache miss either way).
func (state *runState) persistCache(t domain.Task, files *domain.FileHashMap, fp domain.CacheFingerprint) bool {
	buildState := domain.NewBuildState(files, t.Command)
	if err := state.sched.stateStore.Put(t.Project.Dir, t.ScriptName, buildState); err != nil {
		return false
	}
	if err := state.sched.objectStore.TryStore(fp, t.Project.Dir, t.Outputs); err != nil {
		return false
	}
	return true
}

func (state *runState) handleResult(res result) {
	state.active--
	state.setStatus(res.task, res.status)

	if res.status == domain.StatusFailure {
		state.errs = errors.Join(state.errs, res.err)
		if state.failFast {
			state.stopReady = true
		}
		state.propagateBlocked(res.task)
		return
	}

	if res.status == domain.StatusSuccessWithWarning && !state.cfg.AllowWarningsInSuccess {
		state.errs = errors.Join(state.errs, zerr.With(domain.ErrWarningsPresent, "task", res.task.String()))
	}

	for _, dep := range state.dependents[res.task] {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.insertReady(dep)
		}
	}
}

// propagateBlocked marks every transitive dependent of name as Blocked,
// so a failed (or already-blocked) task never lets its dependents reach
// Ready.
func (state *runState) propagateBlocked(name domain.InternedString) {
	queue := append([]domain.InternedString{}, state.dependents[name]...)

	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]

		status := state.getStatus(dep)
		if status == domain.StatusBlocked {
			continue
		}

		state.setStatus(dep, domain.StatusBlocked)
		queue = append(queue, state.dependents[dep]...)
	}
}
