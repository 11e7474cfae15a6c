package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	PathLogin = "/login"
	PathHome  = "/"
)

// maxRedirects bounds Navigate so a misconfigured table cannot spin.
const maxRedirects = 5

var ErrRedirectLoop = errors.New("too many redirects")

type Route struct {
	Name        string
	Pattern     string
	Requirement Requirement
}

// DefaultRoutes is the navigation surface of the application.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "login", Pattern: PathLogin, Requirement: RequireGuest},
		{Name: "home", Pattern: PathHome, Requirement: RequireAuth},
		{Name: "history", Pattern: "/history", Requirement: RequireAuth},
		{Name: "result", Pattern: "/result/{id}", Requirement: RequireAuth},
		{Name: "developers", Pattern: "/developers", Requirement: RequireAuth},
	}
}

// AuthState reports whether the current session is signed in.
type AuthState interface {
	IsAuthenticated() bool
}

type Router struct {
	mux    *chi.Mux
	routes map[string]Route
	auth   AuthState
}

// New builds a Router over routes, DefaultRoutes when none are given.
// Paths matching no route fall through to PathHome.
func New(auth AuthState, routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	r := &Router{
		mux:    chi.NewRouter(),
		routes: make(map[string]Route, len(routes)),
		auth:   auth,
	}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, rt := range routes {
		r.mux.Get(rt.Pattern, noop)
		r.routes[rt.Pattern] = rt
	}
	return r
}

// Resolve matches path against the route table and returns its URL params.
func (r *Router) Resolve(path string) (Route, map[string]string, bool) {
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, cleanPath(path)) {
		return Route{}, nil, false
	}
	rt, ok := r.routes[rctx.RoutePattern()]
	if !ok {
		return Route{}, nil, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return rt, params, true
}

// Navigation describes where a navigation request ended up.
type Navigation struct {
	Requested string
	Path      string
	Route     Route
	Params    map[string]string
	// Redirects lists every intermediate target, in order.
	Redirects []string
}

// Redirected reports whether the navigation landed somewhere else.
func (n Navigation) Redirected() bool { return len(n.Redirects) > 0 }

// Navigate resolves path and applies the catch-all and guard redirects.
func (r *Router) Navigate(path string) (Navigation, error) {
	nav := Navigation{Requested: path}
	cur := cleanPath(path)
	authenticated := r.auth != nil && r.auth.IsAuthenticated()

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return nav, fmt.Errorf("navigate %s: %w", path, ErrRedirectLoop)
		}

		next := PathHome
		rt, params, ok := r.Resolve(cur)
		if ok {
			switch Guard(rt.Requirement, authenticated) {
			case Allow:
				nav.Path, nav.Route, nav.Params = cur, rt, params
				return nav, nil
			case RedirectLogin:
				next = PathLogin
			case RedirectHome:
				next = PathHome
			}
		}
		nav.Redirects = append(nav.Redirects, next)
		cur = next
	}
}

// cleanPath drops the query and fragment and makes the path absolute.
func cleanPath(p string) string {
	p, _, _ = strings.Cut(p, "#")
	p, _, _ = strings.Cut(p, "?")
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
