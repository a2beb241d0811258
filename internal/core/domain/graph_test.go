package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.weft.build/weft/internal/core/domain"
)

func projectNames(t *testing.T, projects []domain.Project) []string {
	t.Helper()
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name.String()
	}
	return names
}

func TestBuildProjectGraph_UnknownDependency(t *testing.T) {
	_, err := domain.BuildProjectGraph([]domain.Project{
		{
			Name:      domain.NewInternedString("app"),
			DependsOn: []domain.InternedString{domain.NewInternedString("missing")},
		},
	})
	require.ErrorIs(t, err, domain.ErrUnknownProject)
}

func TestProjectGraph_Select_EmptySelectsAll(t *testing.T) {
	g, err := domain.BuildProjectGraph([]domain.Project{
		{Name: domain.NewInternedString("a")},
		{Name: domain.NewInternedString("b")},
	})
	require.NoError(t, err)

	selected, err := g.Select(nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, projectNames(t, selected))
}

func TestProjectGraph_Select_To_TransitiveUpstream(t *testing.T) {
	// web -> api -> db (web depends on api depends on db)
	g, err := domain.BuildProjectGraph([]domain.Project{
		{Name: domain.NewInternedString("db")},
		{Name: domain.NewInternedString("api"), DependsOn: []domain.InternedString{domain.NewInternedString("db")}},
		{Name: domain.NewInternedString("web"), DependsOn: []domain.InternedString{domain.NewInternedString("api")}},
		{Name: domain.NewInternedString("unrelated")},
	})
	require.NoError(t, err)

	selected, err := g.Select([]string{"web"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"web", "api", "db"}, projectNames(t, selected))
}

func TestProjectGraph_Select_From_TransitiveDownstream(t *testing.T) {
	g, err := domain.BuildProjectGraph([]domain.Project{
		{Name: domain.NewInternedString("db")},
		{Name: domain.NewInternedString("api"), DependsOn: []domain.InternedString{domain.NewInternedString("db")}},
		{Name: domain.NewInternedString("web"), DependsOn: []domain.InternedString{domain.NewInternedString("api")}},
		{Name: domain.NewInternedString("unrelated")},
	})
	require.NoError(t, err)

	selected, err := g.Select(nil, []string{"db"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"db", "api", "web"}, projectNames(t, selected))
}

func TestProjectGraph_Select_ToAndFrom_Union(t *testing.T) {
	g, err := domain.BuildProjectGraph([]domain.Project{
		{Name: domain.NewInternedString("db")},
		{Name: domain.NewInternedString("api"), DependsOn: []domain.InternedString{domain.NewInternedString("db")}},
		{Name: domain.NewInternedString("web"), DependsOn: []domain.InternedString{domain.NewInternedString("api")}},
		{Name: domain.NewInternedString("isolated")},
	})
	require.NoError(t, err)

	selected, err := g.Select([]string{"api"}, []string{"isolated"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"api", "db", "isolated"}, projectNames(t, selected))
}

func TestProjectGraph_Select_UnknownTarget(t *testing.T) {
	g, err := domain.BuildProjectGraph([]domain.Project{{Name: domain.NewInternedString("a")}})
	require.NoError(t, err)

	_, err = g.Select([]string{"nonexistent"}, nil)
	require.ErrorIs(t, err, domain.ErrUnknownProject)
}

func TestProjectGraph_CyclicOKIsOrdinaryForSelection(t *testing.T) {
	// a <-> b declared cyclic-ok; Select must still walk both directions
	// fine since it only checks edges, never acyclicity (that's
	// TaskCollection's job).
	g, err := domain.BuildProjectGraph([]domain.Project{
		{Name: domain.NewInternedString("a"), DependsOn: []domain.InternedString{domain.NewInternedString("b")}, CyclicOK: true},
		{Name: domain.NewInternedString("b"), DependsOn: []domain.InternedString{domain.NewInternedString("a")}, CyclicOK: true},
	})
	require.NoError(t, err)

	selected, err := g.Select([]string{"a"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, projectNames(t, selected))
}
