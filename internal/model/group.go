package model

import "strings"

// ModuleGroup holds every declaration sharing one module path.
type ModuleGroup struct {
	ModulePath   []string
	Declarations []RouteDeclaration
}

// Scope returns the URL prefix the group is mounted under.
func (g ModuleGroup) Scope() string {
	return ScopeFor(g.ModulePath)
}

// Key returns a string usable as a map key for the module path.
func (g ModuleGroup) Key() string {
	return ModuleKey(g.ModulePath)
}

// ModuleKey joins module segments with a NUL separator so distinct
// sequences never share a key.
func ModuleKey(modulePath []string) string {
	return strings.Join(modulePath, "\x00")
}

// RouteSummary is one line of the route manifest.
type RouteSummary struct {
	Method   HTTPMethod `yaml:"method"`
	FullPath string     `yaml:"path"`
	Handler  string     `yaml:"handler"`
	Source   Path       `yaml:"source"`
}
