package domain

import (
	"cmp"
	"slices"
	"strings"

	m "routegen.dev/pkg/routegen/internal/model"
)

// GroupDeclarations groups declarations by module path and restores a total
// order so the emitted text does not depend on scan scheduling. Groups are
// ordered by module path, declarations by name, route path, method and
// source.
func GroupDeclarations(decls []m.RouteDeclaration) ([]m.ModuleGroup, []m.RouteSummary) {
	sorted := slices.Clone(decls)
	slices.SortStableFunc(sorted, compareDeclarations)

	var groups []m.ModuleGroup

	for _, decl := range sorted {
		if n := len(groups); n > 0 && slices.Equal(groups[n-1].ModulePath, decl.ModulePath) {
			groups[n-1].Declarations = append(groups[n-1].Declarations, decl)
			continue
		}

		groups = append(groups, m.ModuleGroup{
			ModulePath:   slices.Clone(decl.ModulePath),
			Declarations: []m.RouteDeclaration{decl},
		})
	}

	routes := make([]m.RouteSummary, 0, len(sorted))
	for _, group := range groups {
		for _, decl := range group.Declarations {
			routes = append(routes, m.RouteSummary{
				Method:   decl.Method,
				FullPath: decl.FullPath(),
				Handler:  HandlerReference(decl),
				Source:   decl.Source,
			})
		}
	}

	return groups, routes
}

func compareDeclarations(a, b m.RouteDeclaration) int {
	return cmp.Or(
		slices.Compare(a.ModulePath, b.ModulePath),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.RoutePath, b.RoutePath),
		cmp.Compare(a.Method, b.Method),
		cmp.Compare(a.Source, b.Source),
	)
}

// HandlerReference is the unescaped Rust path of the handler function.
func HandlerReference(decl m.RouteDeclaration) string {
	return strings.Join(append(slices.Clone(decl.HandlerPath), decl.Name), "::")
}

// DuplicateHandlers reports every handler name declared more than once
// within a group. Groups must come from GroupDeclarations.
func DuplicateHandlers(groups []m.ModuleGroup) []error {
	var errs []error

	for _, group := range groups {
		for i := 1; i < len(group.Declarations); i++ {
			name := group.Declarations[i].Name
			if name != group.Declarations[i-1].Name {
				continue
			}

			if i >= 2 && group.Declarations[i-2].Name == name {
				continue
			}

			errs = append(errs, &DuplicateHandlerError{ModulePath: group.ModulePath, Name: name})
		}
	}

	return errs
}
