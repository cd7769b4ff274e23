package domain

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"routegen.dev/pkg/routegen/internal/adapter"
	m "routegen.dev/pkg/routegen/internal/model"
)

// DefaultMarkerNamespace is the crate a qualified marker may be prefixed with.
const DefaultMarkerNamespace = "actix_web"

// ExtractOptions tunes module-path inference.
type ExtractOptions struct {
	// DoubleModuleSegment keeps the repeated segment produced by an inline
	// module named like its file (agency.rs containing mod agency). When
	// false the repeat is collapsed in ModulePath only.
	DoubleModuleSegment bool
	// MarkerNamespace is the accepted marker prefix, e.g. actix_web::get.
	MarkerNamespace string
}

// DefaultExtractOptions returns the options used when none are configured.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{DoubleModuleSegment: true, MarkerNamespace: DefaultMarkerNamespace}
}

// DeclarationExtractor finds route handlers in one source file.
type DeclarationExtractor interface {
	Extract(ctx context.Context, project m.ProjectDescriptor, file m.SourceFile, opts ExtractOptions) ([]m.RouteDeclaration, error)
}

type declarationExtractor struct {
	adapter.SourceFSAdapter
	adapter.RustFileAdapter
}

// NewDeclarationExtractor constructs a DeclarationExtractor.
func NewDeclarationExtractor(fs adapter.SourceFSAdapter, parser adapter.RustFileAdapter) DeclarationExtractor {
	return &declarationExtractor{
		SourceFSAdapter: fs,
		RustFileAdapter: parser,
	}
}

func (e *declarationExtractor) Extract(ctx context.Context, project m.ProjectDescriptor, file m.SourceFile, opts ExtractOptions) ([]m.RouteDeclaration, error) {
	src, err := e.ReadFile(ctx, file.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, &FileError{Path: file.Path, Kind: ErrRead, Err: err}
	}

	items, err := e.Parse(ctx, file.Path, src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, &FileError{Path: file.Path, Kind: ErrParse, Err: err}
	}

	base, err := e.baseModulePath(project, file)
	if err != nil {
		return nil, &FileError{Path: file.Path, Kind: ErrRead, Err: err}
	}

	if opts.MarkerNamespace == "" {
		opts.MarkerNamespace = DefaultMarkerNamespace
	}

	w := &moduleWalker{
		opts:   opts,
		stem:   fileStem(file.Path),
		source: file.Path,
	}
	w.walk(items, base, base)

	return w.decls, nil
}

// baseModulePath is the qualifier, then the directories between the source
// root and the file, then the file stem unless it is an entry name.
func (e *declarationExtractor) baseModulePath(project m.ProjectDescriptor, file m.SourceFile) ([]string, error) {
	rel, err := e.RelPath(project.SourceRoot, file.Path)
	if err != nil {
		return nil, err
	}

	segments := []string{project.Qualifier()}

	dirs := filepath.ToSlash(filepath.Dir(string(rel)))
	if dirs != "." {
		for _, dir := range strings.Split(dirs, "/") {
			if dir == "" || dir == "main" {
				continue
			}

			segments = append(segments, dir)
		}
	}

	stem := fileStem(file.Path)
	if stem != "main" && stem != "lib" {
		segments = append(segments, stem)
	}

	return segments, nil
}

func fileStem(path m.Path) string {
	return strings.TrimSuffix(filepath.Base(string(path)), filepath.Ext(string(path)))
}

type moduleWalker struct {
	opts   ExtractOptions
	stem   string
	source m.Path
	decls  []m.RouteDeclaration
}

// walk visits items with two stacks: modulePath drives grouping and scopes,
// handlerPath mirrors the real Rust module nesting.
func (w *moduleWalker) walk(items []m.Item, modulePath, handlerPath []string) {
	for _, item := range items {
		switch item.Kind {
		case m.ItemFunction:
			method, route, ok := w.marker(item.Attributes)
			if !ok {
				continue
			}

			w.decls = append(w.decls, m.RouteDeclaration{
				Name:        item.Name,
				Method:      method,
				RoutePath:   route,
				ModulePath:  visibleSegments(modulePath, m.RootMarker, m.BootstrapSegment),
				HandlerPath: visibleSegments(handlerPath, m.BootstrapSegment),
				Source:      w.source,
			})

		case m.ItemModule:
			nextModule := modulePath
			if w.opts.DoubleModuleSegment || item.Name != w.stem || last(modulePath) != w.stem {
				nextModule = appendSegment(modulePath, item.Name)
			}

			w.walk(item.Items, nextModule, appendSegment(handlerPath, item.Name))

		case m.ItemOther:
		}
	}
}

// marker returns the method and path of the last recognised marker that
// carries a string literal.
func (w *moduleWalker) marker(attrs []m.Attribute) (m.HTTPMethod, string, bool) {
	var (
		method m.HTTPMethod
		route  string
		found  bool
	)

	for _, attr := range attrs {
		name, ok := w.markerName(attr.Path)
		if !ok {
			continue
		}

		candidate, ok := m.MethodForMarker(name)
		if !ok || !attr.HasLiteral {
			continue
		}

		method, route, found = candidate, attr.Literal, true
	}

	return method, route, found
}

func (w *moduleWalker) markerName(path []string) (string, bool) {
	switch {
	case len(path) == 1:
		return path[0], true
	case len(path) == 2 && path[0] == w.opts.MarkerNamespace:
		return path[1], true
	default:
		return "", false
	}
}

func visibleSegments(path []string, hidden ...string) []string {
	out := make([]string, 0, len(path))

	for _, segment := range path {
		skip := false

		for _, h := range hidden {
			if segment == h {
				skip = true
				break
			}
		}

		if !skip {
			out = append(out, segment)
		}
	}

	return out
}

// appendSegment never aliases the caller's backing array.
func appendSegment(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)

	return append(out, segment)
}

func last(path []string) string {
	if len(path) == 0 {
		return ""
	}

	return path[len(path)-1]
}
