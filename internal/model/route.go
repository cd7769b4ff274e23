// Package model defines the data structures shared by the route generator.
package model

import "strings"

const (
	// RootMarker is the module-path qualifier of the invoking crate.
	RootMarker = "crate"
	// BootstrapSegment is the module segment contributed by mod.rs files.
	BootstrapSegment = "mod"
)

// HTTPMethod is one of the nine methods a handler marker can name.
type HTTPMethod string

// Supported HTTP methods.
const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodConnect HTTPMethod = "CONNECT"
	MethodOptions HTTPMethod = "OPTIONS"
	MethodTrace   HTTPMethod = "TRACE"
	MethodPatch   HTTPMethod = "PATCH"
)

var markerMethods = map[string]HTTPMethod{
	"get":     MethodGet,
	"post":    MethodPost,
	"put":     MethodPut,
	"delete":  MethodDelete,
	"head":    MethodHead,
	"connect": MethodConnect,
	"options": MethodOptions,
	"trace":   MethodTrace,
	"patch":   MethodPatch,
}

// MethodForMarker maps a marker name such as "get" to its HTTP method.
func MethodForMarker(name string) (HTTPMethod, bool) {
	method, ok := markerMethods[name]
	return method, ok
}

// RouteDeclaration is a handler function discovered in the source tree.
type RouteDeclaration struct {
	Name      string
	Method    HTTPMethod
	RoutePath string
	// ModulePath locates the declaration for grouping and scope naming.
	ModulePath []string
	// HandlerPath is the Rust item path of the enclosing module, used to
	// reference the handler from generated code.
	HandlerPath []string
	Source      Path
}

// FullPath returns the URL the handler is served on once mounted.
func (d RouteDeclaration) FullPath() string {
	return ScopeFor(d.ModulePath) + d.RoutePath
}

// ScopeFor returns the mount scope of a module path.
func ScopeFor(modulePath []string) string {
	if len(modulePath) == 0 {
		return "/"
	}

	return "/" + strings.Join(modulePath, "/")
}
