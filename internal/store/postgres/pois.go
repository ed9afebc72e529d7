package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rttrailserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type POIStore struct {
	pool *pgxpool.Pool
}

func NewPOIStore(pool *pgxpool.Pool) *POIStore {
	return &POIStore{pool: pool}
}

func (s *POIStore) CreatePOI(ctx context.Context, poi domain.POI) error {
	const q = `
		INSERT INTO pois (id, user_id, creation_time, title, poi_type, latitude, longitude, description, vote_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, q,
		poi.ID,
		poi.UserID,
		poi.CreationTime,
		poi.Title,
		poi.Type,
		poi.Latitude,
		poi.Longitude,
		poi.Description,
		poi.VoteScore,
	)
	if err != nil {
		return fmt.Errorf("create poi: %w", err)
	}
	return nil
}

func (s *POIStore) GetPOIByID(ctx context.Context, id string) (domain.POI, error) {
	const q = `
		SELECT id, user_id, creation_time, title, poi_type, latitude, longitude, description, vote_score
		FROM pois
		WHERE id = $1
	`

	poi, err := scanPOI(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.POI{}, domain.ErrNotFound
		}
		return domain.POI{}, fmt.Errorf("get poi by id: %w", err)
	}
	return poi, nil
}

func (s *POIStore) ListPOIsInBox(ctx context.Context, box domain.BoundingBox) ([]domain.POI, error) {
	const q = `
		SELECT id, user_id, creation_time, title, poi_type, latitude, longitude, description, vote_score
		FROM pois
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY creation_time DESC, id
	`

	rows, err := s.pool.Query(ctx, q, box.MinLatitude, box.MaxLatitude, box.MinLongitude, box.MaxLongitude)
	if err != nil {
		return nil, fmt.Errorf("list pois: %w", err)
	}
	defer rows.Close()

	var out []domain.POI
	for rows.Next() {
		poi, err := scanPOI(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poi: %w", err)
		}
		out = append(out, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pois: %w", err)
	}
	return out, nil
}

func (s *POIStore) UpdatePOI(ctx context.Context, id string, upd domain.POIUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Type != nil {
		add("poi_type", *upd.Type)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if len(sets) == 0 {
		return nil
	}

	q := fmt.Sprintf(`UPDATE pois SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update poi: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *POIStore) DeletePOI(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poi: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *POIStore) GetVote(ctx context.Context, poiID, userID string) (domain.VoteValue, error) {
	const q = `
		SELECT vote_value
		FROM poi_votes
		WHERE poi_id = $1 AND user_id = $2
	`
	var value int
	err := s.pool.QueryRow(ctx, q, poiID, userID).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get vote: %w", err)
	}
	return domain.VoteValue(value), nil
}

// InsertVote records a first vote and moves the score by its value, in one
// transaction so the score never drifts from the vote rows.
func (s *POIStore) InsertVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error {
	return s.applyVote(ctx, "insert vote",
		`INSERT INTO poi_votes (poi_id, user_id, vote_value) VALUES ($1, $2, $3)`,
		[]any{poiID, userID, int(value)},
		poiID, int(value),
	)
}

// FlipVote inverts an existing vote; the score moves two steps.
func (s *POIStore) FlipVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error {
	return s.applyVote(ctx, "flip vote",
		`UPDATE poi_votes SET vote_value = $3 WHERE poi_id = $1 AND user_id = $2`,
		[]any{poiID, userID, int(value)},
		poiID, 2*int(value),
	)
}

// DeleteVote withdraws a vote and backs its value out of the score.
func (s *POIStore) DeleteVote(ctx context.Context, poiID, userID string, previous domain.VoteValue) error {
	return s.applyVote(ctx, "delete vote",
		`DELETE FROM poi_votes WHERE poi_id = $1 AND user_id = $2`,
		[]any{poiID, userID},
		poiID, -int(previous),
	)
}

func (s *POIStore) applyVote(ctx context.Context, op, voteSQL string, voteArgs []any, poiID string, scoreDelta int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, voteSQL, voteArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.Exec(ctx, `UPDATE pois SET vote_score = vote_score + $2 WHERE id = $1`, poiID, scoreDelta); err != nil {
		return fmt.Errorf("%s: adjust score: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func scanPOI(row rowScanner) (domain.POI, error) {
	var (
		poi        domain.POI
		idUUID     pgtype.UUID
		userIDUUID pgtype.UUID
	)
	err := row.Scan(
		&idUUID,
		&userIDUUID,
		&poi.CreationTime,
		&poi.Title,
		&poi.Type,
		&poi.Latitude,
		&poi.Longitude,
		&poi.Description,
		&poi.VoteScore,
	)
	if err != nil {
		return domain.POI{}, err
	}
	poi.ID = uuidOrEmpty(idUUID)
	poi.UserID = uuidOrEmpty(userIDUUID)
	return poi, nil
}
