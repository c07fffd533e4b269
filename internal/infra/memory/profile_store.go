package memory

import (
	"context"
	"sync"

	"dvg-portal/internal/domain"
)

// ProfileStore keeps per-user progress rows in process memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserStats
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.UserStats)}
}

func (s *ProfileStore) Get(_ context.Context, userID string) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.profiles[userID]
	if !ok {
		return domain.UserStats{}, domain.ErrProfileNotFound
	}
	return stats.Clone(), nil
}

// Upsert merges the patch into the stored row, creating a zero row first for
// unknown users.
func (s *ProfileStore) Upsert(_ context.Context, userID string, patch domain.ProfilePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.profiles[userID]
	if !ok {
		stats = domain.NewUserStats()
	}
	patch.ApplyTo(&stats)
	s.profiles[userID] = stats
	return nil
}
