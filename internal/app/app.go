// Package app wires the domain/engine layers into one build invocation:
// load the project graph, select the target subset, build its task
// collection, and drive the scheduler to completion.
package app

import (
	"context"
	"strconv"

	"github.com/vito/progrock"
	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/adapters/cas"
	"go.weft.build/weft/internal/adapters/collator"
	"go.weft.build/weft/internal/build"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
	"go.weft.build/weft/internal/engine/scheduler"
)

// App orchestrates one run of the scheduler end to end.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	analyzer     ports.ChangeAnalyzer
	stateStore   ports.BuildStateStore
	objectStore  ports.ObjectStore
	tracer       ports.Tracer
	verifier     ports.Verifier
}

// New creates an App.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	analyzer ports.ChangeAnalyzer,
	stateStore ports.BuildStateStore,
	objectStore ports.ObjectStore,
	tracer ports.Tracer,
	verifier ports.Verifier,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		analyzer:     analyzer,
		stateStore:   stateStore,
		objectStore:  objectStore,
		tracer:       tracer,
		verifier:     verifier,
	}
}

// RunOptions configures one invocation of Run.
type RunOptions struct {
	// Script is the script name selected for every project this run
	// touches (e.g. "build", "test"). Required.
	Script string

	// To and From are the project-graph selector per spec.md §4.A: To
	// selects the transitive upstream closure, From the transitive
	// downstream closure. Both empty selects the whole graph.
	To, From []string

	// Parallelism bounds concurrent task execution; zero picks
	// runtime.NumCPU() in the scheduler.
	Parallelism int

	// Quiet suppresses live stdout from the foreground stream.
	Quiet bool

	// ChangedProjectsOnly restricts the incremental skip to a task's own
	// file-hash match, per spec.md §6.
	ChangedProjectsOnly bool

	// AllowWarningsInSuccess keeps the run's exit code zero despite one
	// or more SuccessWithWarning tasks.
	AllowWarningsInSuccess bool

	// Force disables the incremental skip path; every selected task
	// executes its command (cache restore is still attempted unless
	// NoCache is also set).
	Force bool

	// NoCache bypasses the content-addressed object store entirely for
	// this run: no restore, no store.
	NoCache bool

	// IgnoreDependencyOrder drops dependency edges from the task
	// collection; all selected tasks race, subject only to Parallelism.
	IgnoreDependencyOrder bool

	// FailFast stops scheduling new tasks after the first Failure.
	FailFast bool
}

// Run loads the graph, selects the target projects, builds their task
// collection, and drives the scheduler to completion.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.Script == "" {
		return domain.ErrNoTargetsSpecified
	}

	graph, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace configuration")
	}

	selected, err := graph.Select(opts.To, opts.From)
	if err != nil {
		return zerr.Wrap(err, "failed to select target projects")
	}

	tc, err := buildTaskCollection(selected, opts.Script, opts.IgnoreDependencyOrder)
	if err != nil {
		return err
	}

	ordered, err := tc.OrderedTasks()
	if err != nil {
		return zerr.Wrap(err, "failed to order tasks")
	}

	a.logger.Info("running " + opts.Script + " for " + strconv.Itoa(len(ordered)) + " task(s)")

	objectStore := a.objectStore
	if opts.NoCache {
		objectStore = cas.NullObjectStore{}
	}

	sink := collator.New(progrock.NewTape(), opts.Quiet)
	defer func() {
		_ = sink.Close()
	}()

	// configTag salts the fingerprint with the script name so two scripts
	// that happen to share an identical command string (e.g. two no-op
	// placeholders) never collide on the same cache entry.
	sched := scheduler.NewScheduler(
		a.executor,
		a.analyzer,
		a.stateStore,
		objectStore,
		sink,
		a.tracer,
		a.verifier,
		a.logger,
		build.Version,
		opts.Script,
	)

	cfg := domain.RunnerConfig{
		Parallelism:            opts.Parallelism,
		QuietMode:              opts.Quiet,
		ChangedProjectsOnly:    opts.ChangedProjectsOnly,
		AllowWarningsInSuccess: opts.AllowWarningsInSuccess,
		Incremental:            !opts.Force,
		IgnoreDependencyOrder:  opts.IgnoreDependencyOrder,
		FailFast:               opts.FailFast,
	}

	if err := sched.Run(ctx, ordered, cfg); err != nil {
		a.logger.Error(err)
		return zerr.Wrap(domain.ErrAlreadyReported, "run failed")
	}

	return nil
}

// buildTaskCollection registers one task per selected project for the
// given script and wires dependency edges restricted to the selected set
// (a dependency outside the selection is simply not an edge, per spec.md
// §4.A selection semantics), unless ignoreDependencyOrder is set.
func buildTaskCollection(selected []domain.Project, script string, ignoreDependencyOrder bool) (*domain.TaskCollection, error) {
	tc := domain.NewTaskCollection()

	inSelection := make(map[domain.InternedString]bool, len(selected))
	for _, p := range selected {
		inSelection[p.Name] = true
	}

	for _, p := range selected {
		task := domain.Task{
			Name:       p.Name,
			Project:    p,
			ScriptName: script,
			Command:    p.Scripts[script],
			Outputs:    p.Outputs[script],
		}
		if err := tc.AddTask(task); err != nil {
			return nil, zerr.Wrap(err, "failed to register task")
		}
	}

	if ignoreDependencyOrder {
		return tc, nil
	}

	for _, p := range selected {
		var deps []string
		for _, dep := range p.DependsOn {
			if inSelection[dep] {
				deps = append(deps, dep.String())
			}
		}
		if err := tc.AddDependencies(p.Name.String(), deps); err != nil {
			return nil, zerr.Wrap(err, "failed to link task dependencies")
		}
	}

	return tc, nil
}
