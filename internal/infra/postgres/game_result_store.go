package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"dvg-portal/internal/domain"
)

// GameResultStore persists finished arcade plays.
type GameResultStore struct {
	pool *pgxpool.Pool
}

func NewGameResultStore(pool *pgxpool.Pool) *GameResultStore {
	return &GameResultStore{pool: pool}
}

func (s *GameResultStore) Insert(ctx context.Context, row domain.GameResultRow) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game_results (id, user_id, game_key, subject_key,
		                          score, accuracy, streak, level_reached, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.UserID, row.GameKey, row.SubjectKey,
		row.Score, row.Accuracy, row.Streak, row.LevelReached, row.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// List returns the user's results newest first. Empty gameKey or subjectKey
// match every row.
func (s *GameResultStore) List(ctx context.Context, userID, gameKey, subjectKey string, limit int) ([]domain.GameResultRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, game_key, subject_key,
		       score, accuracy, streak, level_reached, completed_at
		FROM game_results
		WHERE user_id=$1
		  AND ($2 = '' OR game_key=$2)
		  AND ($3 = '' OR subject_key=$3)
		ORDER BY completed_at DESC LIMIT $4`, userID, gameKey, subjectKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list game results: %w", err)
	}
	defer rows.Close()

	var out []domain.GameResultRow
	for rows.Next() {
		var row domain.GameResultRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.GameKey, &row.SubjectKey,
			&row.Score, &row.Accuracy, &row.Streak, &row.LevelReached, &row.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
