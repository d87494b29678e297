package auth

import (
	"net/http"
)

// Guard returns middleware for state-changing endpoints. It consults the
// gate on every request, independently of RouteMiddleware, and calls reject
// without running next when there is no valid session.
func (g *Gate) Guard(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := g.CurrentSession(r)
			if !ok {
				g.logger.WarnContext(r.Context(), "action rejected without session",
					"method", r.Method, "path", r.URL.Path)
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
