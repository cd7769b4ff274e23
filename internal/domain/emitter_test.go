package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "routegen.dev/pkg/routegen/internal/model"
)

const singleGroupGolden = `// Code generated by routegen. DO NOT EDIT.

#[allow(dead_code)]
pub fn register_handler_agency(cfg: &mut actix_web::web::ServiceConfig) {
    cfg.service(crate::handler::agency::agency::get_agency);
}

#[allow(dead_code)]
pub fn configure_handler_agency(cfg: &mut actix_web::web::ServiceConfig) {
    cfg.service(actix_web::web::scope("/handler/agency").configure(register_handler_agency));
}

pub fn configure(cfg: &mut actix_web::web::ServiceConfig) {
    use ::std::sync::atomic::{AtomicBool, Ordering};

    static ROUTES_LOGGED: AtomicBool = AtomicBool::new(false);

    if ROUTES_LOGGED
        .compare_exchange(false, true, Ordering::SeqCst, Ordering::SeqCst)
        .is_ok()
    {
        log::info!("Registered route: {} {}", "GET", "/handler/agency/{id}");
    }

    cfg.configure(configure_handler_agency);
}
`

func TestCodeEmitter_Golden(t *testing.T) {
	decls := []m.RouteDeclaration{{
		Name:        "get_agency",
		Method:      m.MethodGet,
		RoutePath:   "/{id}",
		ModulePath:  []string{"handler", "agency"},
		HandlerPath: []string{"crate", "handler", "agency", "agency"},
	}}

	groups, routes := GroupDeclarations(decls)

	out, err := NewCodeEmitter().Emit(groups, routes, EmitOptions{})
	require.NoError(t, err)
	assert.Equal(t, singleGroupGolden, out)
}

func TestCodeEmitter_OneShotLogging(t *testing.T) {
	groups, routes := GroupDeclarations([]m.RouteDeclaration{
		decl("list", m.MethodGet, "/", "handler", "nation"),
		decl("create", m.MethodPost, "/", "handler", "agency"),
	})

	out, err := NewCodeEmitter().Emit(groups, routes, EmitOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "static ROUTES_LOGGED: AtomicBool = AtomicBool::new(false);"))
	assert.Contains(t, out, ".compare_exchange(false, true, Ordering::SeqCst, Ordering::SeqCst)")

	guard := strings.Index(out, ".is_ok()")
	firstLog := strings.Index(out, "log::info!")
	closeGuard := strings.LastIndex(out, "log::info!")
	firstMount := strings.Index(out, "cfg.configure(configure_")

	require.Positive(t, guard)
	assert.Less(t, guard, firstLog)
	assert.Less(t, closeGuard, firstMount)
	assert.Equal(t, 2, strings.Count(out, "log::info!"))
	assert.Equal(t, 2, strings.Count(out, "cfg.configure(configure_"))
}

func TestCodeEmitter_KeywordEscaping(t *testing.T) {
	groups, routes := GroupDeclarations([]m.RouteDeclaration{{
		Name:        "list",
		Method:      m.MethodGet,
		RoutePath:   "/",
		ModulePath:  []string{"handler", "type", "match"},
		HandlerPath: []string{"crate", "handler", "type", "match"},
	}, {
		Name:        "get",
		Method:      m.MethodGet,
		RoutePath:   "/",
		ModulePath:  []string{"api"},
		HandlerPath: []string{"crate", "api", "self", "super"},
	}})

	out, err := NewCodeEmitter().Emit(groups, routes, EmitOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "cfg.service(crate::handler::r#type::r#match::list);")
	assert.Contains(t, out, "cfg.service(crate::api::self::super::get);")
	assert.NotContains(t, out, "r#crate")
	assert.Contains(t, out, `scope("/handler/type/match")`)
	assert.Contains(t, out, "pub fn register_handler_type_match(")
}

func TestCodeEmitter_IdentifierSuffixes(t *testing.T) {
	groups := []m.ModuleGroup{
		{ModulePath: nil},
		{ModulePath: []string{"my-api", "v1"}},
		{ModulePath: []string{"my_api", "v1"}},
		{ModulePath: []string{"my_api_v1"}},
	}

	assert.Equal(t, []string{"root", "my_api_v1", "my_api_v1_2", "my_api_v1_3"}, identifierSuffixes(groups))
}

func TestCodeEmitter_Framework(t *testing.T) {
	groups, routes := GroupDeclarations([]m.RouteDeclaration{decl("list", m.MethodGet, "/", "handler")})

	out, err := NewCodeEmitter().Emit(groups, routes, EmitOptions{Framework: "web_framework"})
	require.NoError(t, err)

	assert.Contains(t, out, "cfg: &mut web_framework::web::ServiceConfig")
	assert.Contains(t, out, `web_framework::web::scope("/handler")`)
	assert.NotContains(t, out, "actix_web")
}

func TestCodeEmitter_Empty(t *testing.T) {
	out, err := NewCodeEmitter().Emit(nil, nil, EmitOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, GeneratedHeader+"\n"))
	assert.Contains(t, out, "pub fn configure(cfg: &mut actix_web::web::ServiceConfig) {")
	assert.NotContains(t, out, "register_")
}

func TestCodeEmitter_Deterministic(t *testing.T) {
	decls := []m.RouteDeclaration{
		decl("list", m.MethodGet, "/", "handler", "nation"),
		decl("get", m.MethodGet, "/{id}", "handler", "nation"),
		decl("create", m.MethodPost, "/", "handler", "agency"),
	}

	emitter := NewCodeEmitter()

	groups, routes := GroupDeclarations(decls)
	first, err := emitter.Emit(groups, routes, EmitOptions{})
	require.NoError(t, err)

	reversed := []m.RouteDeclaration{decls[2], decls[1], decls[0]}
	groups, routes = GroupDeclarations(reversed)
	second, err := emitter.Emit(groups, routes, EmitOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRustString(t *testing.T) {
	assert.Equal(t, `"/a"`, rustString("/a"))
	assert.Equal(t, `"/a\"b\\c"`, rustString(`/a"b\c`))
	assert.Equal(t, `"{id}"`, rustString("{id}"))
}
