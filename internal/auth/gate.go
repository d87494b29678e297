package auth

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/domain"
)

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying the session claims.
func WithClaims(ctx context.Context, c *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, c)
}

// ClaimsFromContext returns the claims stored by the route middleware or guard.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*domain.Claims)
	return c, ok && c != nil
}

// Gate decides whether a request carries a valid session. It is the only
// place tokens are verified for incoming requests.
type Gate struct {
	codec    *Codec
	cookies  CookieManager
	denylist domain.TokenDenylist
	logger   *slog.Logger
}

// NewGate creates a Gate. denylist may be nil, in which case sessions are
// purely stateless and a logged-out token stays valid until it expires.
func NewGate(codec *Codec, cookies CookieManager, denylist domain.TokenDenylist, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{codec: codec, cookies: cookies, denylist: denylist, logger: logger}
}

// Cookies returns the cookie manager the gate reads from.
func (g *Gate) Cookies() CookieManager {
	return g.cookies
}

// CurrentSession returns the verified claims of the request's session.
func (g *Gate) CurrentSession(r *http.Request) (*domain.Claims, bool) {
	token, ok := g.cookies.Get(r)
	if !ok {
		return nil, false
	}
	claims, ok := g.codec.Verify(token)
	if !ok {
		return nil, false
	}
	if g.denylist != nil && claims.TokenID != "" {
		revoked, err := g.denylist.IsRevoked(r.Context(), claims.TokenID)
		if err != nil {
			g.logger.WarnContext(r.Context(), "denylist lookup failed", "error", err)
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}
	return claims, true
}
