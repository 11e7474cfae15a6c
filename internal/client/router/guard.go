// Package router decides where a navigation may land. Guard is the pure
// decision table; Router matches paths against the route table and follows
// guard redirects until an allowed route is reached.
package router

// Requirement is the auth precondition a route declares.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuth
	RequireGuest
)

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Guard sends signed-out users away from protected routes and signed-in
// users away from guest-only ones.
func Guard(req Requirement, authenticated bool) Decision {
	switch {
	case req == RequireAuth && !authenticated:
		return RedirectLogin
	case req == RequireGuest && authenticated:
		return RedirectHome
	}
	return Allow
}
