package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker marks signed-out token ids in Redis so a sign-out on one instance
// holds on every instance. Entries expire with the token itself.
type Revoker struct {
	client *redis.Client
}

func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

func (r *Revoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Revoker) key(tokenID string) string {
	return "portal:revoked:" + tokenID
}
