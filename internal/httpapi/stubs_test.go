package httpapi

import (
	"context"
	"testing"
	"time"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

type stubAccountsStore struct {
	t *testing.T

	getAccountByIDFunc    func(context.Context, string) (domain.Account, error)
	getAccountByEmailFunc func(context.Context, string) (domain.AccountWithPassword, error)
	updateAccountFunc     func(context.Context, string, domain.AccountUpdate) error
}

func (s *stubAccountsStore) CreateAccount(ctx context.Context, acct domain.AccountWithPassword) (domain.Account, error) {
	s.t.Fatalf("CreateAccount called unexpectedly")
	return domain.Account{}, context.Canceled
}

func (s *stubAccountsStore) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	if s.getAccountByIDFunc != nil {
		return s.getAccountByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetAccountByID called unexpectedly")
	return domain.Account{}, context.Canceled
}

func (s *stubAccountsStore) GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error) {
	if s.getAccountByEmailFunc != nil {
		return s.getAccountByEmailFunc(ctx, email)
	}
	s.t.Fatalf("GetAccountByEmail called unexpectedly")
	return domain.AccountWithPassword{}, context.Canceled
}

func (s *stubAccountsStore) ListAccounts(ctx context.Context, types []domain.AccountType) ([]domain.Account, error) {
	s.t.Fatalf("ListAccounts called unexpectedly")
	return nil, context.Canceled
}

func (s *stubAccountsStore) CountAccounts(ctx context.Context) (int, error) {
	s.t.Fatalf("CountAccounts called unexpectedly")
	return 0, context.Canceled
}

func (s *stubAccountsStore) UpdateAccount(ctx context.Context, id string, upd domain.AccountUpdate) error {
	if s.updateAccountFunc != nil {
		return s.updateAccountFunc(ctx, id, upd)
	}
	s.t.Fatalf("UpdateAccount called unexpectedly")
	return context.Canceled
}

func (s *stubAccountsStore) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	s.t.Fatalf("UpdatePasswordHash called unexpectedly")
	return context.Canceled
}

type stubPOIStore struct {
	t *testing.T

	createPOIFunc     func(context.Context, domain.POI) error
	getPOIByIDFunc    func(context.Context, string) (domain.POI, error)
	listPOIsInBoxFunc func(context.Context, domain.BoundingBox) ([]domain.POI, error)
	getVoteFunc       func(context.Context, string, string) (domain.VoteValue, error)
	insertVoteFunc    func(context.Context, string, string, domain.VoteValue) error
}

func (s *stubPOIStore) CreatePOI(ctx context.Context, poi domain.POI) error {
	if s.createPOIFunc != nil {
		return s.createPOIFunc(ctx, poi)
	}
	s.t.Fatalf("CreatePOI called unexpectedly")
	return context.Canceled
}

func (s *stubPOIStore) GetPOIByID(ctx context.Context, id string) (domain.POI, error) {
	if s.getPOIByIDFunc != nil {
		return s.getPOIByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetPOIByID called unexpectedly")
	return domain.POI{}, context.Canceled
}

func (s *stubPOIStore) ListPOIsInBox(ctx context.Context, box domain.BoundingBox) ([]domain.POI, error) {
	if s.listPOIsInBoxFunc != nil {
		return s.listPOIsInBoxFunc(ctx, box)
	}
	s.t.Fatalf("ListPOIsInBox called unexpectedly")
	return nil, context.Canceled
}

func (s *stubPOIStore) UpdatePOI(ctx context.Context, id string, upd domain.POIUpdate) error {
	s.t.Fatalf("UpdatePOI called unexpectedly")
	return context.Canceled
}

func (s *stubPOIStore) DeletePOI(ctx context.Context, id string) error {
	s.t.Fatalf("DeletePOI called unexpectedly")
	return context.Canceled
}

func (s *stubPOIStore) GetVote(ctx context.Context, poiID, userID string) (domain.VoteValue, error) {
	if s.getVoteFunc != nil {
		return s.getVoteFunc(ctx, poiID, userID)
	}
	s.t.Fatalf("GetVote called unexpectedly")
	return 0, context.Canceled
}

func (s *stubPOIStore) InsertVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error {
	if s.insertVoteFunc != nil {
		return s.insertVoteFunc(ctx, poiID, userID, value)
	}
	s.t.Fatalf("InsertVote called unexpectedly")
	return context.Canceled
}

func (s *stubPOIStore) FlipVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error {
	s.t.Fatalf("FlipVote called unexpectedly")
	return context.Canceled
}

func (s *stubPOIStore) DeleteVote(ctx context.Context, poiID, userID string, previous domain.VoteValue) error {
	s.t.Fatalf("DeleteVote called unexpectedly")
	return context.Canceled
}

type stubFlappyStore struct {
	t *testing.T

	upsertBestScoreFunc func(context.Context, domain.FlappyBirdScore) (bool, error)
	leaderboardFunc     func(context.Context, int) ([]domain.FlappyBirdRank, error)
}

func (s *stubFlappyStore) UpsertBestScore(ctx context.Context, score domain.FlappyBirdScore) (bool, error) {
	if s.upsertBestScoreFunc != nil {
		return s.upsertBestScoreFunc(ctx, score)
	}
	s.t.Fatalf("UpsertBestScore called unexpectedly")
	return false, context.Canceled
}

func (s *stubFlappyStore) Leaderboard(ctx context.Context, limit int) ([]domain.FlappyBirdRank, error) {
	if s.leaderboardFunc != nil {
		return s.leaderboardFunc(ctx, limit)
	}
	s.t.Fatalf("Leaderboard called unexpectedly")
	return nil, context.Canceled
}

func (s *stubFlappyStore) PersonalRank(ctx context.Context, userID string) (domain.FlappyBirdRank, error) {
	s.t.Fatalf("PersonalRank called unexpectedly")
	return domain.FlappyBirdRank{}, context.Canceled
}

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec([]byte("handler-test-secret-handler-test"), time.Hour, nil)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func withAccount(ctx context.Context, acct domain.Account) context.Context {
	return context.WithValue(ctx, authAccountKey, acct)
}
