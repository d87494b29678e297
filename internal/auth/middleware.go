package auth

import (
	"net/http"
	"path"
	"strings"
)

// Admin area paths.
const (
	ProtectedPrefix = "/admin"
	LoginPath       = "/admin/login"
	DashboardPath   = "/admin/dashboard"
)

// Decision is the outcome of the route policy for one request.
type Decision int

const (
	// Pass lets the request continue to its handler.
	Pass Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login page.
	RedirectLogin
	// RedirectDashboard sends an authenticated admin away from the login page.
	RedirectDashboard
)

// IsProtected reports whether p lies under the admin prefix.
func IsProtected(p string) bool {
	p = cleanPath(p)
	return p == ProtectedPrefix || strings.HasPrefix(p, ProtectedPrefix+"/")
}

// Decide applies the route policy to a path and session state. It is pure.
func Decide(p string, authenticated bool) Decision {
	p = cleanPath(p)
	if !IsProtected(p) {
		return Pass
	}
	if p == LoginPath {
		if authenticated {
			return RedirectDashboard
		}
		return Pass
	}
	if !authenticated {
		return RedirectLogin
	}
	return Pass
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// RouteMiddleware enforces Decide before any page handler runs. Sessions are
// only verified for protected paths; verified claims are put in the context.
func (g *Gate) RouteMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsProtected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := g.CurrentSession(r)
		switch Decide(r.URL.Path, ok) {
		case RedirectLogin:
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		case RedirectDashboard:
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}

		if ok {
			r = r.WithContext(WithClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}
