package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	m "routegen.dev/pkg/routegen/internal/model"
)

// GeneratedHeader opens every emitted file.
const GeneratedHeader = "// Code generated by routegen. DO NOT EDIT."

// DefaultFramework is the crate providing ServiceConfig and scope.
const DefaultFramework = "actix_web"

// EmitOptions tunes the generated Rust.
type EmitOptions struct {
	Framework string
}

// CodeEmitter renders grouped declarations as Rust source.
type CodeEmitter interface {
	Emit(groups []m.ModuleGroup, routes []m.RouteSummary, opts EmitOptions) (string, error)
}

type codeEmitter struct {
	tmpl *template.Template
}

// NewCodeEmitter constructs a CodeEmitter.
func NewCodeEmitter() CodeEmitter {
	return &codeEmitter{tmpl: routesTemplate}
}

type emitGroup struct {
	Suffix   string
	Scope    string
	Handlers []string
}

type emitRoute struct {
	Method string
	Path   string
}

type emitData struct {
	Header    string
	Framework string
	Groups    []emitGroup
	Routes    []emitRoute
}

var routesTemplate = template.Must(template.New("routes").Funcs(template.FuncMap{
	"rustString": rustString,
}).Parse(`{{ .Header }}
{{ range .Groups }}
#[allow(dead_code)]
pub fn register_{{ .Suffix }}(cfg: &mut {{ $.Framework }}::web::ServiceConfig) {
{{- range .Handlers }}
    cfg.service({{ . }});
{{- end }}
}

#[allow(dead_code)]
pub fn configure_{{ .Suffix }}(cfg: &mut {{ $.Framework }}::web::ServiceConfig) {
    cfg.service({{ $.Framework }}::web::scope({{ rustString .Scope }}).configure(register_{{ .Suffix }}));
}
{{ end }}
pub fn configure(cfg: &mut {{ .Framework }}::web::ServiceConfig) {
    use ::std::sync::atomic::{AtomicBool, Ordering};

    static ROUTES_LOGGED: AtomicBool = AtomicBool::new(false);

    if ROUTES_LOGGED
        .compare_exchange(false, true, Ordering::SeqCst, Ordering::SeqCst)
        .is_ok()
    {
{{- range .Routes }}
        log::info!("Registered route: {} {}", {{ rustString .Method }}, {{ rustString .Path }});
{{- end }}
    }
{{ range .Groups }}
    cfg.configure(configure_{{ .Suffix }});
{{- end }}
}
`))

// Emit renders the module. Groups and routes are rendered in the order given.
func (e *codeEmitter) Emit(groups []m.ModuleGroup, routes []m.RouteSummary, opts EmitOptions) (string, error) {
	framework := opts.Framework
	if framework == "" {
		framework = DefaultFramework
	}

	data := emitData{
		Header:    GeneratedHeader,
		Framework: framework,
		Groups:    make([]emitGroup, 0, len(groups)),
		Routes:    make([]emitRoute, 0, len(routes)),
	}

	suffixes := identifierSuffixes(groups)

	for i, group := range groups {
		handlers := make([]string, 0, len(group.Declarations))
		for _, decl := range group.Declarations {
			handlers = append(handlers, rustItemPath(append(append([]string{}, decl.HandlerPath...), decl.Name)))
		}

		data.Groups = append(data.Groups, emitGroup{
			Suffix:   suffixes[i],
			Scope:    group.Scope(),
			Handlers: handlers,
		})
	}

	for _, route := range routes {
		data.Routes = append(data.Routes, emitRoute{Method: string(route.Method), Path: route.FullPath})
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render routes: %w", err)
	}

	return buf.String(), nil
}

// identifierSuffixes derives one function-name suffix per group, unique
// within the output.
func identifierSuffixes(groups []m.ModuleGroup) []string {
	suffixes := make([]string, len(groups))
	used := make(map[string]bool, len(groups))

	for i, group := range groups {
		base := sanitizeIdentifier(strings.Join(group.ModulePath, "_"))
		if base == "" {
			base = "root"
		}

		suffix := base
		for n := 2; used[suffix]; n++ {
			suffix = base + "_" + strconv.Itoa(n)
		}

		used[suffix] = true
		suffixes[i] = suffix
	}

	return suffixes
}

func sanitizeIdentifier(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

// rustItemPath joins segments with "::", escaping reserved words.
func rustItemPath(segments []string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = escapeRustIdent(segment)
	}

	return strings.Join(escaped, "::")
}

// pathKeywords have no raw form and are valid as path segments as-is.
var pathKeywords = map[string]bool{
	"crate": true,
	"self":  true,
	"super": true,
	"Self":  true,
}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "gen": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true,
	"static": true, "struct": true, "trait": true, "true": true, "try": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true,
}

func escapeRustIdent(name string) string {
	if pathKeywords[name] || strings.HasPrefix(name, "r#") {
		return name
	}

	if rustKeywords[name] {
		return "r#" + name
	}

	return name
}

// rustString quotes s as a Rust string literal.
func rustString(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
