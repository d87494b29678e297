package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"storefront/internal/app"
	"storefront/internal/auth"
)

const stateCookieName = "oauth_state"

// SSO holds the OpenID Connect provider used for optional admin sign-in.
type SSO struct {
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// NewSSO discovers the issuer and builds the OAuth2 client configuration.
func NewSSO(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*SSO, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &SSO{
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
	}, nil
}

type loginPage struct {
	Email      string
	Error      string
	SSOEnabled bool
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", pageData{
		Title: "Yönetici Girişi",
		Login: &loginPage{SSOEnabled: s.sso != nil},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLoginError(w, r, http.StatusBadRequest, "", msgBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	token, err := s.authSvc.Login(r.Context(), email, password)
	if err != nil {
		if ve, ok := app.IsValidation(err); ok {
			s.renderLoginError(w, r, http.StatusBadRequest, email, ve.Message)
			return
		}
		if errors.Is(err, app.ErrInvalidCredentials) {
			s.renderLoginError(w, r, http.StatusUnauthorized, email, app.MsgInvalidCredentials)
			return
		}
		s.logger.ErrorContext(r.Context(), "login failed", "error", err)
		s.renderLoginError(w, r, http.StatusInternalServerError, email, "Giriş yapılırken bir hata oluştu")
		return
	}

	s.gate.Cookies().Set(w, token)
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	s.render(w, r, status, "login.html", pageData{
		Title: "Yönetici Girişi",
		Login: &loginPage{Email: email, Error: msg, SSOEnabled: s.sso != nil},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		if err := s.authSvc.Logout(r.Context(), claims); err != nil {
			s.logger.WarnContext(r.Context(), "token revocation failed", "error", err)
		}
	}
	s.gate.Cookies().Clear(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		http.NotFound(w, r)
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/sso",
		HttpOnly: true,
		Secure:   s.gate.Cookies().Secure,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.sso.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		http.NotFound(w, r)
		return
	}

	state, err := r.Cookie(stateCookieName)
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, MaxAge: -1, Path: "/sso"})

	token, err := s.sso.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.logger.WarnContext(r.Context(), "sso code exchange failed", "error", err)
		s.renderLoginError(w, r, http.StatusUnauthorized, "", app.MsgInvalidCredentials)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		s.renderLoginError(w, r, http.StatusUnauthorized, "", app.MsgInvalidCredentials)
		return
	}

	idToken, err := s.sso.Provider.Verifier(&oidc.Config{ClientID: s.sso.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sso id token rejected", "error", err)
		s.renderLoginError(w, r, http.StatusUnauthorized, "", app.MsgInvalidCredentials)
		return
	}

	email, ok := verifiedEmail(idToken.Claims)
	if !ok {
		s.renderLoginError(w, r, http.StatusUnauthorized, "", app.MsgInvalidCredentials)
		return
	}

	sessionToken, err := s.authSvc.LoginWithEmail(r.Context(), email)
	if errors.Is(err, app.ErrInvalidCredentials) {
		s.renderLoginError(w, r, http.StatusUnauthorized, "", app.MsgInvalidCredentials)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "sso login failed", "error", err)
		s.renderLoginError(w, r, http.StatusInternalServerError, "", "Giriş yapılırken bir hata oluştu")
		return
	}

	s.gate.Cookies().Set(w, sessionToken)
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// verifiedEmail extracts the email from ID token claims. The provider must
// assert email_verified=true; an absent claim is treated as unverified.
func verifiedEmail(decode func(v any) error) (string, bool) {
	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := decode(&claims); err != nil {
		return "", false
	}
	if claims.Email == "" || claims.EmailVerified == nil || !*claims.EmailVerified {
		return "", false
	}
	return claims.Email, true
}
