// Package redis implements the session token denylist on Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const keyPrefix = "storefront:revoked:"

// Denylist records revoked token IDs until their natural expiry.
type Denylist struct {
	client *goredis.Client
}

var _ domain.TokenDenylist = (*Denylist)(nil)

// NewDenylist wraps an existing client.
func NewDenylist(client *goredis.Client) *Denylist {
	return &Denylist{client: client}
}

// Open parses a redis:// URL, connects and pings.
func Open(ctx context.Context, url string) (*Denylist, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Denylist{client: client}, nil
}

// Close closes the underlying client.
func (d *Denylist) Close() error {
	return d.client.Close()
}

// Revoke marks id as revoked for ttl.
func (d *Denylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, keyPrefix+id, 1, ttl).Err()
}

// IsRevoked reports whether id was revoked. Callers treat an error as revoked.
func (d *Denylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
