package memory

import (
	"context"
	"sync"
	"time"
)

// Revoker remembers signed-out token ids until they would have expired anyway.
type Revoker struct {
	clock func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewRevoker() *Revoker {
	return &Revoker{
		clock:   time.Now,
		revoked: make(map[string]time.Time),
	}
}

func (r *Revoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = r.clock().Add(ttl)
	return nil
}

func (r *Revoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if r.clock().After(until) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
