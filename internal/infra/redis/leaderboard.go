// Package redis holds the Redis-backed stores: the shared XP leaderboard and
// the token revocation list. Both are optional; the server falls back to the
// in-memory equivalents when no Redis address is configured.
package redis

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dvg-portal/internal/domain"
)

// Leaderboard keeps player scores in a sorted set so every portal instance
// sees the same board. Layout:
//
//	ZADD portal:leaderboard {xp} {userID}
//	HSET portal:leaderboard:names   {userID} {displayName}
//	HSET portal:leaderboard:streaks {userID} {streak}
type Leaderboard struct {
	client *redis.Client
	clock  func() time.Time
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client, clock: time.Now}
}

func (l *Leaderboard) Upsert(ctx context.Context, score domain.PlayerScore) error {
	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, l.boardKey(), redis.Z{Score: float64(score.XP), Member: score.UserID})
	pipe.HSet(ctx, l.namesKey(), score.UserID, score.DisplayName)
	pipe.HSet(ctx, l.streaksKey(), score.UserID, score.Streak)
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the highest-ranked players. Redis orders same-score members
// lexically, so ties are re-sorted here the same way the in-memory board
// does it: streak desc, then display name.
func (l *Leaderboard) Top(ctx context.Context, limit int) (domain.Leaderboard, error) {
	members, err := l.client.ZRevRangeWithScores(ctx, l.boardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return domain.Leaderboard{}, err
	}
	names, err := l.client.HGetAll(ctx, l.namesKey()).Result()
	if err != nil {
		return domain.Leaderboard{}, err
	}
	streaks, _ := l.client.HGetAll(ctx, l.streaksKey()).Result()

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		userID, _ := member.Member.(string)
		xp := int(member.Score)
		streak := 0
		if raw, ok := streaks[userID]; ok {
			if parsed, err := strconv.Atoi(raw); err == nil {
				streak = parsed
			}
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      userID,
			DisplayName: names[userID],
			XP:          xp,
			Level:       domain.Level(xp),
			Streak:      streak,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		if entries[i].Streak != entries[j].Streak {
			return entries[i].Streak > entries[j].Streak
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: l.clock()}, nil
}

func (l *Leaderboard) Rank(ctx context.Context, userID string) (int, error) {
	rank, err := l.client.ZRevRank(ctx, l.boardKey(), userID).Result()
	if err == redis.Nil {
		return 0, domain.ErrProfileNotFound
	}
	if err != nil {
		return 0, err
	}
	return int(rank) + 1, nil
}

func (l *Leaderboard) boardKey() string {
	return "portal:leaderboard"
}

func (l *Leaderboard) namesKey() string {
	return "portal:leaderboard:names"
}

func (l *Leaderboard) streaksKey() string {
	return "portal:leaderboard:streaks"
}
