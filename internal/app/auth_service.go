// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

const minPasswordLen = 8

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// AuthService handles login, logout and admin provisioning.
type AuthService struct {
	users    domain.UserRepository
	hasher   domain.PasswordHasher
	tokens   TokenIssuer
	denylist domain.TokenDenylist
	logger   *slog.Logger
	now      func() time.Time

	// compared against when the email is unknown so both rejections cost the same
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher domain.PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	dummy, _ := hasher.Hash("storefront-timing-equalizer")
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// WithDenylist makes Logout revoke the current token until it expires.
func (s *AuthService) WithDenylist(d domain.TokenDenylist) *AuthService {
	s.denylist = d
	return s
}

// Login validates the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", invalid("email", "Email gereklidir")
	}
	if password == "" {
		return "", invalid("password", "Şifre gereklidir")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		s.logger.WarnContext(ctx, "login rejected")
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login rejected")
		return "", ErrInvalidCredentials
	}
	if user.Role != domain.RoleAdmin {
		s.logger.WarnContext(ctx, "login rejected: role", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "admin logged in", "user_id", user.ID)
	return token, nil
}

// LoginWithEmail issues a session for an admin already authenticated by an
// external identity provider. Unknown emails are rejected; nothing is provisioned.
func (s *AuthService) LoginWithEmail(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || user.Role != domain.RoleAdmin {
		s.logger.WarnContext(ctx, "sso login rejected")
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "admin logged in via sso", "user_id", user.ID)
	return token, nil
}

// Logout revokes the session token when a denylist is configured. Without
// one it is a no-op: the caller only removes the client's cookie and the
// token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *domain.Claims) error {
	if s.denylist == nil || claims == nil || claims.TokenID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// CreateAdmin provisions an admin account. It refuses to overwrite an
// existing account with the same email.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "Geçerli bir email adresi giriniz")
	}
	if len(password) < minPasswordLen {
		return nil, invalid("password", fmt.Sprintf("Şifre en az %d karakter olmalıdır", minPasswordLen))
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
