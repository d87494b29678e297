// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Role is the authorization level of a user. Only ADMIN exists today.
type Role string

// RoleAdmin grants access to the admin panel.
const RoleAdmin Role = "ADMIN"

// User represents a provisioned credential. Email is unique and compared
// exactly as stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID    string
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserRepository defines the port for credential lookups and provisioning.
// GetByEmail returns (nil, nil) when no user matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenDenylist records revoked session tokens by token id until their
// natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
