package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rttrailserver/internal/domain"
)

const defaultLeaderboardSize = 10

type FlappyBirdStore interface {
	UpsertBestScore(ctx context.Context, score domain.FlappyBirdScore) (bool, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.FlappyBirdRank, error)
	PersonalRank(ctx context.Context, userID string) (domain.FlappyBirdRank, error)
}

type FlappyBirdService struct {
	Store FlappyBirdStore
	Now   func() time.Time
}

// SubmitScore records a run and reports whether it beat the player's best.
func (s *FlappyBirdService) SubmitScore(ctx context.Context, acct domain.Account, value int) (bool, error) {
	if s.Now == nil {
		s.Now = time.Now
	}
	if value < 0 {
		return false, domain.NewValidationError(map[string]string{"value": "must not be negative"})
	}
	return s.Store.UpsertBestScore(ctx, domain.FlappyBirdScore{
		ID:           uuid.NewString(),
		UserID:       acct.ID,
		Value:        value,
		CreationTime: s.Now(),
	})
}

func (s *FlappyBirdService) Leaderboard(ctx context.Context, limit int) ([]domain.FlappyBirdRank, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	return s.Store.Leaderboard(ctx, limit)
}

// PersonalRank returns the caller's best score and leaderboard position.
// ErrNotFound when the player never submitted a score.
func (s *FlappyBirdService) PersonalRank(ctx context.Context, acct domain.Account) (domain.FlappyBirdRank, error) {
	return s.Store.PersonalRank(ctx, acct.ID)
}
