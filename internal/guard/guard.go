package guard

import (
	"net/http"
	"net/url"

	"escapedia/internal/session"
	"escapedia/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Decision int

const (
	Placeholder Decision = iota
	RedirectLogin
	RedirectHome
	Allow
)

func (d Decision) String() string {
	switch d {
	case Placeholder:
		return "placeholder"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

// Decide is the whole access policy of a protected page. With no roles any
// authenticated visitor is allowed.
func Decide(state session.State, roles ...model.Role) Decision {
	if state.Loading {
		return Placeholder
	}
	if state.User == nil {
		return RedirectLogin
	}
	if len(roles) > 0 && !state.User.HasRole(roles...) {
		return RedirectHome
	}
	return Allow
}

type Capability string

const (
	Authenticated    Capability = "authenticated"
	ManageRooms      Capability = "manage_rooms"
	ManageAllLocales Capability = "manage_all_locales"
)

var capabilityRoles = map[Capability][]model.Role{
	Authenticated:    nil,
	ManageRooms:      {model.RoleOwner, model.RoleAdmin},
	ManageAllLocales: {model.RoleAdmin},
}

// Can answers capability questions for pages and templates with the same policy as Decide.
func Can(state session.State, c Capability) bool {
	roles, ok := capabilityRoles[c]
	if !ok {
		return false
	}
	return Decide(state, roles...) == Allow
}

// RolesFor exposes the roles a capability needs so routes can be declared by capability.
func RolesFor(c Capability) []model.Role {
	return capabilityRoles[c]
}

type Guard struct {
	placeholder http.Handler
}

// New builds a guard that renders placeholder while a session is unresolved.
func New(placeholder http.Handler) *Guard {
	return &Guard{placeholder: placeholder}
}

// Require protects h with Decide.
func (g *Guard) Require(h httprouter.Handle, roles ...model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		switch Decide(session.FromContext(r.Context()), roles...) {
		case Placeholder:
			w.Header().Set("Retry-After", "1")
			w.Header().Set("Cache-Control", "no-store")
			if g.placeholder != nil {
				g.placeholder.ServeHTTP(w, r)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		case RedirectLogin:
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
		case RedirectHome:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			h(w, r, ps)
		}
	}
}

// LoginURL points at the login page, remembering where the visitor was going.
func LoginURL(r *http.Request) string {
	if r.Method != http.MethodGet || r.URL.Path == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(r.URL.RequestURI())
}
