package client

import (
	"slices"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
)

type GateResult int

const (
	GateLoading GateResult = iota
	GateRedirectLogin
	GateUnauthorized
	GateAllow
)

func (g GateResult) String() string {
	switch g {
	case GateLoading:
		return "loading"
	case GateRedirectLogin:
		return "redirect-login"
	case GateUnauthorized:
		return "unauthorized"
	case GateAllow:
		return "allow"
	}
	return "unknown"
}

// IdentitySource is satisfied by *Session.
type IdentitySource interface {
	Identity() *dto.UserResponse
	Loading() bool
}

// Gate decides whether the current identity may see a page restricted to
// allowed. An empty allow-list admits any signed-in user.
func Gate(s IdentitySource, allowed ...string) GateResult {
	if s.Loading() {
		return GateLoading
	}
	user := s.Identity()
	if user == nil {
		return GateRedirectLogin
	}
	if len(allowed) == 0 || slices.Contains(allowed, user.Role) {
		return GateAllow
	}
	return GateUnauthorized
}

// Route restricts Pattern to Roles. A pattern ending in "/*" covers every
// path below it.
type Route struct {
	Pattern string
	Roles   []string
}

func (r Route) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/dashboard/student", Roles: []string{models.RoleStudent}},
		{Pattern: "/dashboard/organization", Roles: []string{models.RoleOrganization}},
		{Pattern: "/dashboard/admin", Roles: []string{models.RoleAdmin}},
		{Pattern: "/hackathons/new", Roles: []string{models.RoleOrganization}},
		{Pattern: "/teams/*", Roles: []string{models.RoleStudent}},
	}
}

// Router evaluates the gate on every Resolve. Nothing is cached.
type Router struct {
	session IdentitySource
	routes  []Route
}

func NewRouter(session IdentitySource, routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	return &Router{session: session, routes: routes}
}

// Resolve gates path. Paths outside the table are public.
func (r *Router) Resolve(path string) GateResult {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, route := range r.routes {
		if route.matches(path) {
			return Gate(r.session, route.Roles...)
		}
	}
	return GateAllow
}
