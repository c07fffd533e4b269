package memory

import (
	"context"
	"sort"
	"sync"

	"dvg-portal/internal/domain"
)

// GameResultStore keeps arcade results in process memory, newest first.
type GameResultStore struct {
	mu      sync.RWMutex
	results map[string][]domain.GameResultRow
}

func NewGameResultStore() *GameResultStore {
	return &GameResultStore{results: make(map[string][]domain.GameResultRow)}
}

func (s *GameResultStore) Insert(_ context.Context, row domain.GameResultRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[row.UserID] = append(s.results[row.UserID], row)
	return nil
}

// List returns the user's results newest first. Empty gameKey or subjectKey
// match every row.
func (s *GameResultStore) List(_ context.Context, userID, gameKey, subjectKey string, limit int) ([]domain.GameResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.GameResultRow, 0, len(s.results[userID]))
	for _, row := range s.results[userID] {
		if gameKey != "" && row.GameKey != gameKey {
			continue
		}
		if subjectKey != "" && row.SubjectKey != subjectKey {
			continue
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CompletedAt.After(rows[j].CompletedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
