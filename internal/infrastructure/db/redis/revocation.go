package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList is a denylist of token ids backed by Redis.
// Key format: revoked:<jti>. Each key lives exactly as long as the token
// it revokes would have, so the set never outgrows the live tokens.
type RevocationList struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client, now: time.Now}
}

// Revoke denylists tokenID until expiresAt. Already expired tokens are skipped.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been denylisted.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *RevocationList) key(tokenID string) string {
	return "revoked:" + tokenID
}
