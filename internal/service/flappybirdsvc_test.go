package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rttrailserver/internal/domain"
)

type stubFlappyBirdStore struct {
	t *testing.T

	upsertBestScoreFunc func(context.Context, domain.FlappyBirdScore) (bool, error)
	leaderboardFunc     func(context.Context, int) ([]domain.FlappyBirdRank, error)
	personalRankFunc    func(context.Context, string) (domain.FlappyBirdRank, error)
}

func (s *stubFlappyBirdStore) UpsertBestScore(ctx context.Context, score domain.FlappyBirdScore) (bool, error) {
	if s.upsertBestScoreFunc != nil {
		return s.upsertBestScoreFunc(ctx, score)
	}
	s.t.Fatalf("UpsertBestScore called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubFlappyBirdStore) Leaderboard(ctx context.Context, limit int) ([]domain.FlappyBirdRank, error) {
	if s.leaderboardFunc != nil {
		return s.leaderboardFunc(ctx, limit)
	}
	s.t.Fatalf("Leaderboard called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubFlappyBirdStore) PersonalRank(ctx context.Context, userID string) (domain.FlappyBirdRank, error) {
	if s.personalRankFunc != nil {
		return s.personalRankFunc(ctx, userID)
	}
	s.t.Fatalf("PersonalRank called unexpectedly")
	return domain.FlappyBirdRank{}, errors.New("unexpected call")
}

func TestSubmitScore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var stored domain.FlappyBirdScore
	store := &stubFlappyBirdStore{
		t: t,
		upsertBestScoreFunc: func(_ context.Context, score domain.FlappyBirdScore) (bool, error) {
			stored = score
			return score.Value > 40, nil
		},
	}
	svc := &FlappyBirdService{Store: store, Now: func() time.Time { return now }}
	acct := domain.Account{ID: "u1"}

	improved, err := svc.SubmitScore(ctx, acct, 42)
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if !improved {
		t.Fatalf("expected improved best")
	}
	if stored.UserID != "u1" || stored.Value != 42 || !stored.CreationTime.Equal(now) {
		t.Fatalf("unexpected stored score %+v", stored)
	}

	if improved, err = svc.SubmitScore(ctx, acct, 12); err != nil || improved {
		t.Fatalf("expected no improvement, got improved=%v err=%v", improved, err)
	}

	if _, err := svc.SubmitScore(ctx, acct, -1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaderboardDefaultLimit(t *testing.T) {
	var requested int
	store := &stubFlappyBirdStore{
		t: t,
		leaderboardFunc: func(_ context.Context, limit int) ([]domain.FlappyBirdRank, error) {
			requested = limit
			return nil, nil
		},
	}
	svc := &FlappyBirdService{Store: store}

	if _, err := svc.Leaderboard(context.Background(), 0); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if requested != defaultLeaderboardSize {
		t.Fatalf("expected default limit %d, got %d", defaultLeaderboardSize, requested)
	}

	if _, err := svc.Leaderboard(context.Background(), 3); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if requested != 3 {
		t.Fatalf("expected limit 3, got %d", requested)
	}
}

func TestPersonalRankNoScore(t *testing.T) {
	store := &stubFlappyBirdStore{
		t: t,
		personalRankFunc: func(context.Context, string) (domain.FlappyBirdRank, error) {
			return domain.FlappyBirdRank{}, domain.ErrNotFound
		},
	}
	svc := &FlappyBirdService{Store: store}
	_, err := svc.PersonalRank(context.Background(), domain.Account{ID: "u1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
