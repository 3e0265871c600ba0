package console

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/snapbook/opsconsole/internal/domain/session"
)

// Screen is one entry of the route table. The table drives both the role
// gates and the navigation.
type Screen struct {
	Name  string
	Title string
	Path  string
	// Roles narrows access beyond ConsoleRoles. Empty means every console role.
	Roles []string
}

// ConsoleRoles may enter the console at all.
var ConsoleRoles = []string{session.RoleAdmin, session.RoleOps, session.RoleManager}

// Screens is the route table, in navigation order.
var Screens = []Screen{
	{Name: "dashboard", Title: "Dashboard", Path: "/"},
	{Name: "users", Title: "Users", Path: "/users"},
	{Name: "orders", Title: "Orders", Path: "/orders"},
	{Name: "disputes", Title: "Disputes", Path: "/disputes", Roles: []string{session.RoleAdmin, session.RoleOps}},
	{Name: "content", Title: "Content review", Path: "/content", Roles: []string{session.RoleAdmin, session.RoleOps}},
	{Name: "audit", Title: "Audit log", Path: "/audit", Roles: []string{session.RoleAdmin}},
	{Name: "ops", Title: "Operations", Path: "/ops", Roles: []string{session.RoleAdmin}},
}

// ScreenByName returns the route table entry for name.
func ScreenByName(name string) (Screen, bool) {
	for _, s := range Screens {
		if s.Name == name {
			return s, true
		}
	}
	return Screen{}, false
}

// AuthGate sends requests without a session to the login page, carrying the
// requested URL in next for GET and HEAD. Authenticated requests pass through
// unchanged.
func AuthGate(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsAuthenticated(r.Context()) {
				target := "/"
				if r.Method == http.MethodGet || r.Method == http.MethodHead {
					target = r.URL.RequestURI()
				}
				http.Redirect(w, r, LoginURL(target), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleGate serves denied in place when the session holds none of roles.
// With no roles every session passes.
func RoleGate(store *session.Store, denied http.Handler, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.HasAnyRole(r.Context(), roles...) {
				denied.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginURL returns the login page URL that returns to next afterwards.
func LoginURL(next string) string {
	next = SafeNext(next)
	if next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a path on this host, otherwise "/".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	// "//host" and "/\host" are scheme-relative to browsers.
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.HasPrefix(next, "/login") || strings.HasPrefix(next, "/logout") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}

type navItem struct {
	Screen
	Active bool
}

// navFor filters the route table by the session's roles.
func navFor(r *http.Request, store *session.Store, active string) []navItem {
	if !store.HasAnyRole(r.Context(), ConsoleRoles...) {
		return nil
	}
	var items []navItem
	for _, s := range Screens {
		if store.HasAnyRole(r.Context(), s.Roles...) {
			items = append(items, navItem{Screen: s, Active: s.Name == active})
		}
	}
	return items
}
