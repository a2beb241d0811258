package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// taskNode is one arena slot: a Task plus integer-indexed dependency and
// dependent edges, per spec.md §9's "arena of tasks ... integer indices"
// redesign of the teacher's cyclic parent/child task pointers.
type taskNode struct {
	task         Task
	dependencies []int
	dependents   []int
	criticalPath int // -1 = unmemoized
}

// TaskCollection is the mapping task-name -> task, built once via AddTask/
// AddDependencies and then frozen by OrderedTasks. Names are unique; every
// dependency and dependent reference resolves to a task in the same
// collection; after ordering, the dependent relation is acyclic.
type TaskCollection struct {
	index map[InternedString]int
	nodes []taskNode
}

// NewTaskCollection creates an empty collection.
func NewTaskCollection() *TaskCollection {
	return &TaskCollection{index: make(map[InternedString]int)}
}

// AddTask registers a new task. It fails with ErrDuplicateTask if the name
// is already registered.
func (tc *TaskCollection) AddTask(t Task) error {
	if _, exists := tc.index[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateTask, "task already registered"), "task", t.Name.String())
	}
	idx := len(tc.nodes)
	tc.index[t.Name] = idx
	tc.nodes = append(tc.nodes, taskNode{task: t, criticalPath: -1})
	return nil
}

// AddDependencies links name to each of deps (name depends on each dep).
// It fails with ErrUnknownTask if name or any dep isn't registered.
func (tc *TaskCollection) AddDependencies(name string, deps []string) error {
	n := NewInternedString(name)
	idx, ok := tc.index[n]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownTask, "task not registered"), "task", name)
	}

	for _, depName := range deps {
		d := NewInternedString(depName)
		depIdx, ok := tc.index[d]
		if !ok {
			return zerr.With(zerr.Wrap(ErrUnknownTask, "dependency not registered"), "task", depName)
		}
		tc.nodes[idx].dependencies = append(tc.nodes[idx].dependencies, depIdx)
		tc.nodes[depIdx].dependents = append(tc.nodes[depIdx].dependents, idx)
		tc.nodes[idx].task.Dependencies = append(tc.nodes[idx].task.Dependencies, d)
	}
	return nil
}

// Task returns the registered task by name.
func (tc *TaskCollection) Task(name InternedString) (Task, bool) {
	idx, ok := tc.index[name]
	if !ok {
		return Task{}, false
	}
	return tc.nodes[idx].task, true
}

// Count returns the number of registered tasks.
func (tc *TaskCollection) Count() int {
	return len(tc.nodes)
}

// Dependents returns the names of tasks that depend on name.
func (tc *TaskCollection) Dependents(name InternedString) []InternedString {
	idx, ok := tc.index[name]
	if !ok {
		return nil
	}
	out := make([]InternedString, 0, len(tc.nodes[idx].dependents))
	for _, depIdx := range tc.nodes[idx].dependents {
		out = append(out, tc.nodes[depIdx].task.Name)
	}
	return out
}

// OrderedTasks performs the acyclicity check over the dependent relation,
// then returns every task sorted by descending critical-path length
// (ties broken by ascending task name), per spec.md §4.D.
func (tc *TaskCollection) OrderedTasks() ([]Task, error) {
	visited := make([]bool, len(tc.nodes))
	onStack := make([]bool, len(tc.nodes))

	var path []int

	var visit func(i int) error
	visit = func(i int) error {
		onStack[i] = true
		path = append(path, i)

		for _, dep := range tc.nodes[i].dependents {
			if onStack[dep] {
				return tc.cycleError(path, dep)
			}
			if !visited[dep] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		onStack[i] = false
		path = path[:len(path)-1]
		visited[i] = true
		return nil
	}

	for i := range tc.nodes {
		if !visited[i] {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}

	for i := range tc.nodes {
		tc.criticalPathLength(i)
	}

	ordered := make([]Task, len(tc.nodes))
	for i, n := range tc.nodes {
		ordered[i] = n.task
	}

	slices.SortFunc(ordered, func(a, b Task) int {
		ai, bi := tc.index[a.Name], tc.index[b.Name]
		ap, bp := tc.nodes[ai].criticalPath, tc.nodes[bi].criticalPath
		if ap != bp {
			return bp - ap // descending critical-path length
		}
		return strings.Compare(a.Name.String(), b.Name.String())
	})

	return ordered, nil
}

// criticalPathLength is 0 for a task with no dependents, otherwise
// 1 + max over dependents' critical-path length. Memoized per task.
func (tc *TaskCollection) criticalPathLength(i int) int {
	if tc.nodes[i].criticalPath >= 0 {
		return tc.nodes[i].criticalPath
	}

	max := 0
	for _, dep := range tc.nodes[i].dependents {
		if cp := tc.criticalPathLength(dep) + 1; cp > max {
			max = cp
		}
	}

	tc.nodes[i].criticalPath = max
	return max
}

// cycleError builds a CyclicDependency error quoting the cycle chain
// reversed (leaf -> root), per spec.md §4.D. The active stack is built by
// walking the *dependent* relation, which runs opposite to the natural
// "X depends on Y" reading, so the chain is reversed back before quoting.
func (tc *TaskCollection) cycleError(path []int, dep int) error {
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}

	segment := append(append([]int{}, path[startIdx:]...), dep)

	chain := make([]string, len(segment))
	for i, node := range segment {
		chain[len(segment)-1-i] = tc.nodes[node].task.Name.String()
	}

	return zerr.With(zerr.Wrap(ErrCyclicDependency, "task graph contains a cycle"), "cycle", strings.Join(chain, " -> "))
}
