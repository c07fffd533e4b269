package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dvg-portal/internal/domain"
)

// Leaderboard ranks players in process memory. Snapshot assembly is cached
// with a short TTL so a burst of viewers does not re-sort on every request.
type Leaderboard struct {
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu     sync.RWMutex
	scores map[string]domain.PlayerScore

	cacheMu sync.RWMutex
	cached  cachedBoard
}

type cachedBoard struct {
	board     domain.Leaderboard
	limit     int
	expiresAt time.Time
}

func NewLeaderboard(ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		scores: make(map[string]domain.PlayerScore),
	}
}

// Upsert replaces the player's score and invalidates the cached snapshot.
func (l *Leaderboard) Upsert(_ context.Context, score domain.PlayerScore) error {
	l.mu.Lock()
	l.scores[score.UserID] = score
	l.mu.Unlock()

	l.cacheMu.Lock()
	l.cached = cachedBoard{}
	l.cacheMu.Unlock()
	return nil
}

// Top returns the highest-ranked players. Ties on XP break by streak, then by
// display name so the ordering is stable across calls.
func (l *Leaderboard) Top(_ context.Context, limit int) (domain.Leaderboard, error) {
	now := l.clock()

	l.cacheMu.RLock()
	if l.cached.limit == limit && l.cached.expiresAt.After(now) {
		board := l.cached.board
		l.cacheMu.RUnlock()
		return board, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.sf.Do("top", func() (interface{}, error) {
		now := l.clock()
		l.cacheMu.RLock()
		if l.cached.limit == limit && l.cached.expiresAt.After(now) {
			board := l.cached.board
			l.cacheMu.RUnlock()
			return board, nil
		}
		l.cacheMu.RUnlock()

		board := l.assemble(limit, now)

		l.cacheMu.Lock()
		l.cached = cachedBoard{board: board, limit: limit, expiresAt: now.Add(l.ttlWithJitter())}
		l.cacheMu.Unlock()
		return board, nil
	})
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return result.(domain.Leaderboard), nil
}

// Rank reports the 1-based position of a player, domain.ErrProfileNotFound if
// the player has never scored.
func (l *Leaderboard) Rank(_ context.Context, userID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.scores[userID]; !ok {
		return 0, domain.ErrProfileNotFound
	}
	ranked := l.sorted()
	for i, score := range ranked {
		if score.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, domain.ErrProfileNotFound
}

func (l *Leaderboard) assemble(limit int, now time.Time) domain.Leaderboard {
	l.mu.RLock()
	ranked := l.sorted()
	l.mu.RUnlock()

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, score := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      score.UserID,
			DisplayName: score.DisplayName,
			XP:          score.XP,
			Level:       domain.Level(score.XP),
			Streak:      score.Streak,
		})
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: now}
}

// sorted must be called with l.mu held.
func (l *Leaderboard) sorted() []domain.PlayerScore {
	out := make([]domain.PlayerScore, 0, len(l.scores))
	for _, score := range l.scores {
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

func (l *Leaderboard) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(l.ttl) / 10
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}
