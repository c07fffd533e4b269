// Package postgres holds the durable stores: accounts, profile rows and game
// results. All of them run on a shared pgxpool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"dvg-portal/internal/domain"
)

// ProfileStore persists per-user progress rows.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (domain.UserStats, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT xp, streak, correct_answers, total_answers,
		       badges_earned, subject_progress, last_played_date
		FROM profiles WHERE user_id=$1`, userID)
	return scanProfile(row)
}

// Upsert merges the patch into the stored row inside one transaction so two
// portal instances cannot interleave partial updates.
func (s *ProfileStore) Upsert(ctx context.Context, userID string, patch domain.ProfilePatch) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin profile upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT xp, streak, correct_answers, total_answers,
		       badges_earned, subject_progress, last_played_date
		FROM profiles WHERE user_id=$1 FOR UPDATE`, userID)
	stats, err := scanProfile(row)
	if errors.Is(err, domain.ErrProfileNotFound) {
		stats = domain.NewUserStats()
	} else if err != nil {
		return err
	}
	patch.ApplyTo(&stats)

	badges, err := json.Marshal(stats.BadgesEarned)
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	subjects, err := json.Marshal(stats.SubjectProgress)
	if err != nil {
		return fmt.Errorf("marshal subject progress: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, xp, streak, correct_answers, total_answers,
		                      badges_earned, subject_progress, last_played_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (user_id) DO UPDATE SET
			xp = EXCLUDED.xp,
			streak = EXCLUDED.streak,
			correct_answers = EXCLUDED.correct_answers,
			total_answers = EXCLUDED.total_answers,
			badges_earned = EXCLUDED.badges_earned,
			subject_progress = EXCLUDED.subject_progress,
			last_played_date = EXCLUDED.last_played_date,
			updated_at = now()`,
		userID, stats.XP, stats.Streak, stats.CorrectAnswers, stats.TotalAnswers,
		badges, subjects, stats.LastPlayedDate)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return tx.Commit(ctx)
}

func scanProfile(row pgx.Row) (domain.UserStats, error) {
	var (
		stats    domain.UserStats
		badges   []byte
		subjects []byte
	)
	err := row.Scan(&stats.XP, &stats.Streak, &stats.CorrectAnswers, &stats.TotalAnswers,
		&badges, &subjects, &stats.LastPlayedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserStats{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load profile: %w", err)
	}
	if err := json.Unmarshal(badges, &stats.BadgesEarned); err != nil {
		return domain.UserStats{}, fmt.Errorf("unmarshal badges: %w", err)
	}
	if err := json.Unmarshal(subjects, &stats.SubjectProgress); err != nil {
		return domain.UserStats{}, fmt.Errorf("unmarshal subject progress: %w", err)
	}
	if stats.BadgesEarned == nil {
		stats.BadgesEarned = []string{}
	}
	if stats.SubjectProgress == nil {
		stats.SubjectProgress = make(map[domain.Subject]int)
	}
	stats.Level = domain.Level(stats.XP)
	return stats, nil
}
