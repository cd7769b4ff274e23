package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "routegen.dev/pkg/routegen/internal/model"
)

func decl(name string, method m.HTTPMethod, route string, modulePath ...string) m.RouteDeclaration {
	return m.RouteDeclaration{
		Name:        name,
		Method:      method,
		RoutePath:   route,
		ModulePath:  modulePath,
		HandlerPath: append([]string{m.RootMarker}, modulePath...),
		Source:      m.Path("src/" + name + ".rs"),
	}
}

func TestGroupDeclarations_Correctness(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("list_nations", m.MethodGet, "/", "handler", "nation"),
		decl("get_agency", m.MethodGet, "/{id}", "handler", "agency"),
		decl("create_agency", m.MethodPost, "/", "handler", "agency"),
	}

	groups, routes := GroupDeclarations(decls)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"handler", "agency"}, groups[0].ModulePath)
	assert.Equal(t, "/handler/agency", groups[0].Scope())
	require.Len(t, groups[0].Declarations, 2)
	assert.Equal(t, "create_agency", groups[0].Declarations[0].Name)
	assert.Equal(t, "get_agency", groups[0].Declarations[1].Name)

	assert.Equal(t, []string{"handler", "nation"}, groups[1].ModulePath)
	assert.Equal(t, "/handler/nation", groups[1].Scope())
	require.Len(t, groups[1].Declarations, 1)
	assert.Equal(t, "list_nations", groups[1].Declarations[0].Name)

	require.Len(t, routes, 3)
	assert.Equal(t, m.RouteSummary{
		Method:   m.MethodPost,
		FullPath: "/handler/agency/",
		Handler:  "crate::handler::agency::create_agency",
		Source:   "src/create_agency.rs",
	}, routes[0])
	assert.Equal(t, "/handler/agency/{id}", routes[1].FullPath)
	assert.Equal(t, "/handler/nation/", routes[2].FullPath)
}

func TestGroupDeclarations_SequenceEquality(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("a", m.MethodGet, "/a", "x", "y"),
		decl("b", m.MethodGet, "/b", "y", "x"),
		decl("c", m.MethodGet, "/c", "x", "y", "z"),
		decl("d", m.MethodGet, "/d"),
	}

	groups, _ := GroupDeclarations(decls)
	require.Len(t, groups, 4)

	assert.Empty(t, groups[0].ModulePath)
	assert.Equal(t, "/", groups[0].Scope())
	assert.Equal(t, []string{"x", "y"}, groups[1].ModulePath)
	assert.Equal(t, []string{"x", "y", "z"}, groups[2].ModulePath)
	assert.Equal(t, []string{"y", "x"}, groups[3].ModulePath)
}

func TestGroupDeclarations_OrderIndependent(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("list", m.MethodGet, "/", "handler", "nation"),
		decl("get", m.MethodGet, "/{id}", "handler", "nation"),
		decl("delete", m.MethodDelete, "/{id}", "handler", "nation"),
		decl("list", m.MethodGet, "/", "handler", "agency"),
		decl("create", m.MethodPost, "/", "handler", "agency"),
		decl("health", m.MethodGet, "/health"),
	}

	wantGroups, wantRoutes := GroupDeclarations(decls)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]m.RouteDeclaration(nil), decls...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		groups, routes := GroupDeclarations(shuffled)
		assert.Equal(t, wantGroups, groups)
		assert.Equal(t, wantRoutes, routes)
	}
}

func TestGroupDeclarations_DoesNotMutateInput(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("b", m.MethodGet, "/b", "handler"),
		decl("a", m.MethodGet, "/a", "handler"),
	}

	GroupDeclarations(decls)

	assert.Equal(t, "b", decls[0].Name)
}

func TestDuplicateHandlers(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("list", m.MethodGet, "/", "handler", "agency"),
		decl("list", m.MethodGet, "/all", "handler", "agency"),
		decl("list", m.MethodPost, "/x", "handler", "agency"),
		decl("list", m.MethodGet, "/", "handler", "nation"),
		decl("get", m.MethodGet, "/{id}", "handler", "nation"),
	}

	groups, _ := GroupDeclarations(decls)
	dups := DuplicateHandlers(groups)

	require.Len(t, dups, 1)
	assert.ErrorIs(t, dups[0], ErrDuplicateHandler)

	var dupErr *DuplicateHandlerError
	require.ErrorAs(t, dups[0], &dupErr)
	assert.Equal(t, "list", dupErr.Name)
	assert.Equal(t, []string{"handler", "agency"}, dupErr.ModulePath)
}
