package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rttrailserver/internal/domain"
)

type POIStore interface {
	CreatePOI(ctx context.Context, poi domain.POI) error
	GetPOIByID(ctx context.Context, id string) (domain.POI, error)
	ListPOIsInBox(ctx context.Context, box domain.BoundingBox) ([]domain.POI, error)
	UpdatePOI(ctx context.Context, id string, upd domain.POIUpdate) error
	DeletePOI(ctx context.Context, id string) error
	GetVote(ctx context.Context, poiID, userID string) (domain.VoteValue, error)
	InsertVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error
	FlipVote(ctx context.Context, poiID, userID string, value domain.VoteValue) error
	DeleteVote(ctx context.Context, poiID, userID string, previous domain.VoteValue) error
}

type POICreate struct {
	Title       string
	Type        domain.POIType
	Latitude    float64
	Longitude   float64
	Description string
}

type POIService struct {
	Store POIStore
	Now   func() time.Time
}

func (s *POIService) Create(ctx context.Context, acct domain.Account, input POICreate) (domain.POI, error) {
	if s.Now == nil {
		s.Now = time.Now
	}

	input.Title = strings.TrimSpace(input.Title)
	if fields := validatePOIFields(input.Title, input.Type, input.Latitude, input.Longitude); len(fields) > 0 {
		return domain.POI{}, domain.NewValidationError(fields)
	}

	poi := domain.POI{
		ID:           uuid.NewString(),
		UserID:       acct.ID,
		CreationTime: s.Now(),
		Title:        input.Title,
		Type:         input.Type,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Description:  strings.TrimSpace(input.Description),
	}
	if err := s.Store.CreatePOI(ctx, poi); err != nil {
		return domain.POI{}, err
	}
	return poi, nil
}

func (s *POIService) Get(ctx context.Context, id string) (domain.POI, error) {
	return s.Store.GetPOIByID(ctx, id)
}

func (s *POIService) ListInBox(ctx context.Context, box domain.BoundingBox) ([]domain.POI, error) {
	fields := map[string]string{}
	if box.MinLatitude > box.MaxLatitude {
		fields["latitude"] = "min must not exceed max"
	}
	if box.MinLongitude > box.MaxLongitude {
		fields["longitude"] = "min must not exceed max"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}
	return s.Store.ListPOIsInBox(ctx, box)
}

// Update modifies a POI. Owners may update their own; moderators and
// admins may update any.
func (s *POIService) Update(ctx context.Context, acct domain.Account, id string, upd domain.POIUpdate) error {
	poi, err := s.Store.GetPOIByID(ctx, id)
	if err != nil {
		return err
	}
	if poi.UserID != acct.ID && !acct.AccountType.AtLeast(domain.AccountTypeModerator) {
		return domain.ErrForbidden
	}

	if upd.Type != nil && !upd.Type.Valid() {
		return domain.NewValidationError(map[string]string{"type": "unknown poi type"})
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return domain.NewValidationError(map[string]string{"title": "must not be empty"})
		}
		upd.Title = &title
	}
	return s.Store.UpdatePOI(ctx, id, upd)
}

func (s *POIService) Delete(ctx context.Context, acct domain.Account, id string) error {
	poi, err := s.Store.GetPOIByID(ctx, id)
	if err != nil {
		return err
	}
	if poi.UserID != acct.ID && !acct.AccountType.AtLeast(domain.AccountTypeModerator) {
		return domain.ErrForbidden
	}
	return s.Store.DeletePOI(ctx, id)
}

// Vote applies one vote per (poi, user): voting the same value again
// removes the vote, the opposite value flips it. The store keeps the
// vote_score adjustment in the same transaction as the vote row change.
func (s *POIService) Vote(ctx context.Context, acct domain.Account, poiID string, value domain.VoteValue) error {
	if !value.Valid() {
		return domain.NewValidationError(map[string]string{"value": "must be 1 or -1"})
	}
	if _, err := s.Store.GetPOIByID(ctx, poiID); err != nil {
		return err
	}

	previous, err := s.Store.GetVote(ctx, poiID, acct.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.Store.InsertVote(ctx, poiID, acct.ID, value)
		}
		return err
	}
	if previous == value {
		return s.Store.DeleteVote(ctx, poiID, acct.ID, previous)
	}
	return s.Store.FlipVote(ctx, poiID, acct.ID, value)
}

func validatePOIFields(title string, poiType domain.POIType, lat, lon float64) map[string]string {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "must not be empty"
	}
	if !poiType.Valid() {
		fields["type"] = "unknown poi type"
	}
	if lat < -90 || lat > 90 {
		fields["latitude"] = "must be between -90 and 90"
	}
	if lon < -180 || lon > 180 {
		fields["longitude"] = "must be between -180 and 180"
	}
	return fields
}
