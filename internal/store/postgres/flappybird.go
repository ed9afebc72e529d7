package postgres

import (
	"context"
	"errors"
	"fmt"

	"rttrailserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlappyBirdStore struct {
	pool *pgxpool.Pool
}

func NewFlappyBirdStore(pool *pgxpool.Pool) *FlappyBirdStore {
	return &FlappyBirdStore{pool: pool}
}

// UpsertBestScore keeps one row per player holding their best value. It
// reports whether the submission improved (or created) the stored best.
func (s *FlappyBirdStore) UpsertBestScore(ctx context.Context, score domain.FlappyBirdScore) (bool, error) {
	const q = `
		INSERT INTO flappybird_scores (id, user_id, value, creation_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET value = EXCLUDED.value, creation_time = EXCLUDED.creation_time
		WHERE flappybird_scores.value < EXCLUDED.value
		RETURNING id
	`

	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q, score.ID, score.UserID, score.Value, score.CreationTime).Scan(&idUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict row already holds a better or equal value.
			return false, nil
		}
		return false, fmt.Errorf("upsert best score: %w", err)
	}
	return true, nil
}

func (s *FlappyBirdStore) Leaderboard(ctx context.Context, limit int) ([]domain.FlappyBirdRank, error) {
	const q = `
		SELECT s.id, s.user_id, s.value, s.creation_time, a.name,
		       row_number() OVER (ORDER BY s.value DESC, s.creation_time ASC)
		FROM flappybird_scores s
		JOIN accounts a ON a.id = s.user_id
		ORDER BY s.value DESC, s.creation_time ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.FlappyBirdRank
	for rows.Next() {
		rank, err := scanRank(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, rank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out, nil
}

func (s *FlappyBirdStore) PersonalRank(ctx context.Context, userID string) (domain.FlappyBirdRank, error) {
	const q = `
		WITH ranked AS (
			SELECT s.id, s.user_id, s.value, s.creation_time, a.name,
			       row_number() OVER (ORDER BY s.value DESC, s.creation_time ASC) AS position
			FROM flappybird_scores s
			JOIN accounts a ON a.id = s.user_id
		)
		SELECT id, user_id, value, creation_time, name, position
		FROM ranked
		WHERE user_id = $1
	`

	rank, err := scanRank(s.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FlappyBirdRank{}, domain.ErrNotFound
		}
		return domain.FlappyBirdRank{}, fmt.Errorf("personal rank: %w", err)
	}
	return rank, nil
}

func scanRank(row rowScanner) (domain.FlappyBirdRank, error) {
	var (
		rank       domain.FlappyBirdRank
		idUUID     pgtype.UUID
		userIDUUID pgtype.UUID
	)
	err := row.Scan(
		&idUUID,
		&userIDUUID,
		&rank.Score.Value,
		&rank.Score.CreationTime,
		&rank.Name,
		&rank.Position,
	)
	if err != nil {
		return domain.FlappyBirdRank{}, err
	}
	rank.Score.ID = uuidOrEmpty(idUUID)
	rank.Score.UserID = uuidOrEmpty(userIDUUID)
	return rank, nil
}
