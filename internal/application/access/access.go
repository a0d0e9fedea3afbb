// Package access decide la navegación por perfil: cada ruta declara estáticamente
// los perfiles permitidos; sin lista, cualquier usuario autenticado entra.
package access

import (
	"strings"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// Outcome resultado de la decisión.
type Outcome string

const (
	Allow                Outcome = "allow"
	RedirectLogin        Outcome = "redirect_login"
	RedirectUnauthorized Outcome = "redirect_unauthorized"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	HomePath         = "/dashboard"
)

// Route ruta del front end con su lista de perfiles. Roles vacío = cualquier autenticado.
type Route struct {
	Path  string
	Label string
	Roles []entity.Role
}

var (
	client = []entity.Role{entity.RoleClient}
	staff  = []entity.Role{entity.RoleAccountant, entity.RoleAdministrator}
	admin  = []entity.Role{entity.RoleAdministrator}
)

// Routes tabla de rutas protegidas, en orden de menú.
var Routes = []Route{
	{Path: "/dashboard", Label: "Dashboard"},
	{Path: "/empresa", Label: "Minha empresa", Roles: client},
	{Path: "/abrir-mei", Label: "Abrir MEI", Roles: client},
	{Path: "/documentos", Label: "Documentos", Roles: client},
	{Path: "/contratar-servicos", Label: "Contratar serviços", Roles: client},
	{Path: "/nfse", Label: "Notas fiscais", Roles: client},
	{Path: "/emissor-orcamento", Label: "Emissor de orçamento", Roles: client},
	{Path: "/contador/documentos", Label: "Revisão de documentos", Roles: staff},
	{Path: "/contador/servicos", Label: "Execução de serviços", Roles: staff},
	{Path: "/empresas", Label: "Empresas", Roles: staff},
	{Path: "/orcamentos", Label: "Orçamentos", Roles: []entity.Role{entity.RoleAccountant}},
	{Path: "/usuarios", Label: "Usuários", Roles: admin},
	{Path: "/planos", Label: "Planos", Roles: admin},
	{Path: "/servicos", Label: "Serviços", Roles: admin},
	{Path: "/auditoria", Label: "Auditoria", Roles: admin},
	{Path: "/cobrancas", Label: "Cobranças"},
	{Path: "/notificacoes", Label: "Notificações"},
}

// publicPaths accesibles sin sesión.
var publicPaths = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/forgot-password": true,
	"/reset-password":  true,
	UnauthorizedPath:   true,
}

// Decision resultado de Decide. Redirect indica el destino cuando no es Allow, o la ruta
// canónica cuando el path pedido no existe.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
}

// Decide aplica la regla: sin sesión → login; perfil fuera de la lista → unauthorized; si no, allow.
// Paths desconocidos se tratan como /dashboard.
func Decide(path string, s *auth.Session) Decision {
	path = normalize(path)
	if publicPaths[path] {
		return Decision{Outcome: Allow}
	}
	if s == nil || s.UserID == "" {
		return Decision{Outcome: RedirectLogin, Redirect: LoginPath}
	}
	route, ok := find(path)
	if !ok {
		route, _ = find(HomePath)
		d := decideRoute(route, *s)
		if d.Outcome == Allow {
			d.Redirect = HomePath
		}
		return d
	}
	return decideRoute(route, *s)
}

func decideRoute(r Route, s auth.Session) Decision {
	if len(r.Roles) == 0 || s.Is(r.Roles...) {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: RedirectUnauthorized, Redirect: UnauthorizedPath}
}

// Allowed informa si el perfil puede entrar en la ruta.
func (r Route) Allowed(role entity.Role) bool {
	return len(r.Roles) == 0 || auth.Session{UserID: "-", Role: role}.Is(r.Roles...)
}

// Menu rutas visibles para el perfil, en el orden de la tabla.
func Menu(role entity.Role) []Route {
	var out []Route
	for _, r := range Routes {
		if r.Allowed(role) {
			out = append(out, r)
		}
	}
	return out
}

func find(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return HomePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}
