package auth

import (
	"net/http"
)

// CookieName is the fixed name of the session cookie.
const CookieName = "auth-token"

// CookieManager stores the session token in an HTTP-only cookie. It holds no
// per-request state; every call works on the given request or response.
type CookieManager struct {
	Secure bool
}

// Set writes the session cookie.
func (m CookieManager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenTTL.Seconds()),
	})
}

// Get returns the token carried by the request, if any.
func (m CookieManager) Get(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Clear expires the session cookie on the client.
func (m CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
