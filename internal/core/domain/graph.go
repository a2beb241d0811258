package domain

import (
	"go.trai.ch/zerr"
)

// ProjectGraph is the immutable directed graph of project nodes with
// local-dependency edges. It is not required to be acyclic — cycle
// detection is deferred to TaskCollection.OrderedTasks, per spec.md §4.A.
type ProjectGraph struct {
	projects map[InternedString]Project
	// dependents is the reversed edge relation: dependents[p] is the set
	// of projects that declare p in their DependsOn.
	dependents map[InternedString][]InternedString
}

// BuildProjectGraph constructs an immutable graph from the given projects.
// It fails with ErrUnknownProject if any DependsOn entry doesn't resolve
// to a project in the set.
func BuildProjectGraph(projects []Project) (*ProjectGraph, error) {
	g := &ProjectGraph{
		projects:   make(map[InternedString]Project, len(projects)),
		dependents: make(map[InternedString][]InternedString),
	}

	for _, p := range projects {
		g.projects[p.Name] = p
	}

	for _, p := range projects {
		for _, dep := range p.DependsOn {
			if _, ok := g.projects[dep]; !ok {
				return nil, zerr.With(
					zerr.With(zerr.Wrap(ErrUnknownProject, "dependency does not resolve"), "project", p.Name.String()),
					"missing_dependency", dep.String(),
				)
			}
			g.dependents[dep] = append(g.dependents[dep], p.Name)
		}
	}

	return g, nil
}

// Project looks up a project by name.
func (g *ProjectGraph) Project(name InternedString) (Project, bool) {
	p, ok := g.projects[name]
	return p, ok
}

// ProjectCount returns the number of projects in the graph.
func (g *ProjectGraph) ProjectCount() int {
	return len(g.projects)
}

// All returns every project in the graph, in no particular order.
func (g *ProjectGraph) All() []Project {
	out := make([]Project, 0, len(g.projects))
	for _, p := range g.projects {
		out = append(out, p)
	}
	return out
}

// Select returns the project subset to execute. "to" selects the
// transitive upstream closure of the named projects (a project plus
// everything it depends on); "from" selects the transitive downstream
// closure via the reversed edge relation. An empty to and from selects
// the whole graph. When both are non-empty the result is their union.
func (g *ProjectGraph) Select(to, from []string) ([]Project, error) {
	if len(to) == 0 && len(from) == 0 {
		return g.All(), nil
	}

	selected := make(map[InternedString]bool)

	for _, name := range to {
		n := NewInternedString(name)
		if _, ok := g.projects[n]; !ok {
			return nil, zerr.With(zerr.Wrap(ErrUnknownProject, "selected project not in graph"), "project", name)
		}
		g.walkUpstream(n, selected)
	}

	for _, name := range from {
		n := NewInternedString(name)
		if _, ok := g.projects[n]; !ok {
			return nil, zerr.With(zerr.Wrap(ErrUnknownProject, "selected project not in graph"), "project", name)
		}
		g.walkDownstream(n, selected)
	}

	out := make([]Project, 0, len(selected))
	for name := range selected {
		out = append(out, g.projects[name])
	}
	return out, nil
}

// walkUpstream adds name and every transitive dependency to selected.
func (g *ProjectGraph) walkUpstream(name InternedString, selected map[InternedString]bool) {
	if selected[name] {
		return
	}
	selected[name] = true
	for _, dep := range g.projects[name].DependsOn {
		g.walkUpstream(dep, selected)
	}
}

// walkDownstream adds name and every transitive dependent to selected.
func (g *ProjectGraph) walkDownstream(name InternedString, selected map[InternedString]bool) {
	if selected[name] {
		return
	}
	selected[name] = true
	for _, dep := range g.dependents[name] {
		g.walkDownstream(dep, selected)
	}
}
