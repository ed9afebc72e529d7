package domain

import "time"

// AccountType is the coarse privilege tier of an account. The tiers form a
// total order: user < moderator < admin.
type AccountType string

const (
	AccountTypeUser      AccountType = "user"
	AccountTypeModerator AccountType = "moderator"
	AccountTypeAdmin     AccountType = "admin"
)

// AccountTypes returns all tiers in ascending privilege order.
func AccountTypes() []AccountType {
	return []AccountType{AccountTypeUser, AccountTypeModerator, AccountTypeAdmin}
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeUser, AccountTypeModerator, AccountTypeAdmin:
		return true
	}
	return false
}

func (t AccountType) rank() int {
	switch t {
	case AccountTypeAdmin:
		return 2
	case AccountTypeModerator:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t grants the privileges of min.
func (t AccountType) AtLeast(min AccountType) bool {
	return t.rank() >= min.rank()
}

type Account struct {
	ID          string
	Email       string
	Name        string
	AccountType AccountType
	IsActive    bool
	CreatedOn   time.Time
}

type AccountWithPassword struct {
	Account
	PasswordHash string
}

// AccountUpdate carries the mutable account fields. Nil means "leave as is".
type AccountUpdate struct {
	Email       *string
	Name        *string
	AccountType *AccountType
	IsActive    *bool
}

// UnconfirmedAccount is a pending registration. Several rows may share an
// email; the activation token is the lookup key.
type UnconfirmedAccount struct {
	ID              string
	Email           string
	PasswordHash    string
	ActivationToken string
	CreatedOn       time.Time
	ExpireOn        time.Time
}

// RecoverRequest is a pending password reset ticket.
type RecoverRequest struct {
	Email      string
	UserID     string
	ResetToken string
	CreatedOn  time.Time
	ExpireOn   time.Time
}

// EmailMigrationCode is a pending email-change confirmation.
type EmailMigrationCode struct {
	UserID            string
	NewEmail          string
	OldEmail          string
	ConfirmationToken string
}

type POIType string

const (
	POITypeDanger     POIType = "danger"
	POITypeDisrepear  POIType = "disrepear"
	POITypeDifficulty POIType = "difficulty"
	POITypePOV        POIType = "pov"
	POITypeOther      POIType = "other"
)

func (t POIType) Valid() bool {
	switch t {
	case POITypeDanger, POITypeDisrepear, POITypeDifficulty, POITypePOV, POITypeOther:
		return true
	}
	return false
}

type VoteValue int

const (
	VoteUp   VoteValue = 1
	VoteDown VoteValue = -1
)

func (v VoteValue) Valid() bool { return v == VoteUp || v == VoteDown }

type POI struct {
	ID           string
	UserID       string
	CreationTime time.Time
	Title        string
	Type         POIType
	Latitude     float64
	Longitude    float64
	Description  string
	VoteScore    int
}

// POIUpdate carries the mutable POI fields. Nil means "leave as is".
type POIUpdate struct {
	Title       *string
	Type        *POIType
	Description *string
}

// BoundingBox selects POIs by coordinates, inclusive on all edges.
type BoundingBox struct {
	MinLatitude  float64
	MinLongitude float64
	MaxLatitude  float64
	MaxLongitude float64
}

type FlappyBirdScore struct {
	ID           string
	UserID       string
	Value        int
	CreationTime time.Time
}

// FlappyBirdRank is a leaderboard entry: a best score with the 1-based
// position of its holder.
type FlappyBirdRank struct {
	Score    FlappyBirdScore
	Name     string
	Position int
}
