package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
)

type mockUserRepo struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	createFn     func(ctx context.Context, u *domain.User) error
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

// plainHasher keeps tests fast; "hash:" + plaintext is the stored form.
type plainHasher struct {
	verifyCalls int
}

func (h *plainHasher) Hash(p string) (string, error) { return "hash:" + p, nil }

func (h *plainHasher) Verify(p, hash string) bool {
	h.verifyCalls++
	return hash == "hash:"+p
}

type mockIssuer struct {
	issued []string
	err    error
}

func (m *mockIssuer) Issue(userID, email string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.issued = append(m.issued, userID)
	return "token-for-" + userID, nil
}

type mockDenylist struct {
	revokeFn func(ctx context.Context, id string, ttl time.Duration) error
}

func (m *mockDenylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id, ttl)
	}
	return nil
}

func (m *mockDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func adminRepo() *mockUserRepo {
	return &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "admin@yasargranit.com" {
				return nil, nil
			}
			return &domain.User{
				ID:           "u1",
				Email:        "admin@yasargranit.com",
				PasswordHash: "hash:correct-horse",
				Role:         domain.RoleAdmin,
			}, nil
		},
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	issuer := &mockIssuer{}
	svc := NewAuthService(adminRepo(), &plainHasher{}, issuer, nil)

	token, err := svc.Login(context.Background(), "admin@yasargranit.com", "correct-horse")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "token-for-u1" {
		t.Errorf("unexpected token %q", token)
	}
	if len(issuer.issued) != 1 {
		t.Errorf("expected one token issued, got %d", len(issuer.issued))
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailMatch(t *testing.T) {
	issuer := &mockIssuer{}
	hasher := &plainHasher{}
	svc := NewAuthService(adminRepo(), hasher, issuer, nil)

	_, errWrong := svc.Login(context.Background(), "admin@yasargranit.com", "nope")
	_, errUnknown := svc.Login(context.Background(), "ghost@yasargranit.com", "nope")

	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}
	if errWrong != errUnknown {
		t.Errorf("rejections differ: %v vs %v", errWrong, errUnknown)
	}
	if hasher.verifyCalls != 2 {
		t.Errorf("expected a hash comparison for both attempts, got %d", hasher.verifyCalls)
	}
	if len(issuer.issued) != 0 {
		t.Error("no token may be issued on rejection")
	}
}

func TestAuthService_Login_EmailIsCaseSensitive(t *testing.T) {
	svc := NewAuthService(adminRepo(), &plainHasher{}, &mockIssuer{}, nil)

	_, err := svc.Login(context.Background(), "Admin@YasarGranit.com", "correct-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_FieldValidation(t *testing.T) {
	lookups := 0
	repo := &mockUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
		lookups++
		return nil, nil
	}}
	svc := NewAuthService(repo, &plainHasher{}, &mockIssuer{}, nil)

	tests := []struct {
		email, password, field, msg string
	}{
		{"", "x", "email", "Email gereklidir"},
		{"   ", "x", "email", "Email gereklidir"},
		{"a@b.c", "", "password", "Şifre gereklidir"},
	}
	for _, tc := range tests {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		ve, ok := IsValidation(err)
		if !ok {
			t.Fatalf("expected validation error, got %v", err)
		}
		if ve.Field != tc.field || ve.Message != tc.msg {
			t.Errorf("got %s/%q; want %s/%q", ve.Field, ve.Message, tc.field, tc.msg)
		}
	}
	if lookups != 0 {
		t.Errorf("validation must happen before any lookup, got %d lookups", lookups)
	}
}

func TestAuthService_Login_NonAdminRejected(t *testing.T) {
	repo := &mockUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: "u2", Email: email, PasswordHash: "hash:pw", Role: "VIEWER"}, nil
	}}
	svc := NewAuthService(repo, &plainHasher{}, &mockIssuer{}, nil)

	_, err := svc.Login(context.Background(), "viewer@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := &mockUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
		return nil, errors.New("connection refused")
	}}
	svc := NewAuthService(repo, &plainHasher{}, &mockIssuer{}, nil)

	_, err := svc.Login(context.Background(), "admin@yasargranit.com", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected a wrapped store error, got %v", err)
	}
}

func TestAuthService_LoginWithEmail(t *testing.T) {
	svc := NewAuthService(adminRepo(), &plainHasher{}, &mockIssuer{}, nil)

	token, err := svc.LoginWithEmail(context.Background(), "admin@yasargranit.com")
	if err != nil || token == "" {
		t.Fatalf("expected token, got %q, %v", token, err)
	}

	_, err = svc.LoginWithEmail(context.Background(), "stranger@example.com")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown sso user, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := &domain.Claims{UserID: "u1", TokenID: "jti-1", ExpiresAt: now.Add(2 * time.Hour)}

	svc := NewAuthService(adminRepo(), &plainHasher{}, &mockIssuer{}, nil)
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("stateless logout should not fail: %v", err)
	}

	var gotID string
	var gotTTL time.Duration
	svc.WithDenylist(&mockDenylist{revokeFn: func(ctx context.Context, id string, ttl time.Duration) error {
		gotID, gotTTL = id, ttl
		return nil
	}})
	svc.now = func() time.Time { return now }

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if gotID != "jti-1" || gotTTL != 2*time.Hour {
		t.Errorf("revoked %q for %v; want jti-1 for 2h", gotID, gotTTL)
	}
}

func TestAuthService_CreateAdmin(t *testing.T) {
	var created *domain.User
	repo := &mockUserRepo{createFn: func(ctx context.Context, u *domain.User) error {
		created = u
		return nil
	}}
	svc := NewAuthService(repo, &plainHasher{}, &mockIssuer{}, nil)

	u, err := svc.CreateAdmin(context.Background(), "", " admin@yasargranit.com ", "long-enough")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil || created != u {
		t.Fatal("user was not stored")
	}
	if u.Email != "admin@yasargranit.com" || u.Role != domain.RoleAdmin || u.Name != "Admin" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.PasswordHash != "hash:long-enough" {
		t.Errorf("password was not hashed: %q", u.PasswordHash)
	}
	if u.ID == "" {
		t.Error("expected generated id")
	}
}

func TestAuthService_CreateAdmin_Rejections(t *testing.T) {
	svc := NewAuthService(adminRepo(), &plainHasher{}, &mockIssuer{}, nil)

	if _, err := svc.CreateAdmin(context.Background(), "A", "not-an-email", "long-enough"); err == nil {
		t.Error("expected invalid email error")
	}
	_, err := svc.CreateAdmin(context.Background(), "A", "new@yasargranit.com", "short")
	if ve, ok := IsValidation(err); !ok || !strings.Contains(ve.Message, "8") {
		t.Errorf("expected password length error, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "A", "admin@yasargranit.com", "long-enough"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !h.Verify("s3cret-pass", hash) {
		t.Error("expected match")
	}
	if h.Verify("wrong", hash) || h.Verify("s3cret-pass", "") {
		t.Error("expected mismatch")
	}
}
