package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TokenDenylist records the IDs of tokens revoked by logout. Entries expire
// together with the token itself, so the set stays bounded.
type TokenDenylist struct {
	client *redisv9.Client
}

func NewTokenDenylist(client *redisv9.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token failed: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token failed: %w", err)
	}
	return exists > 0, nil
}

func (d *TokenDenylist) key(tokenID string) string {
	return "auth:revoked:" + tokenID
}
