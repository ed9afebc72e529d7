package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type PendingStore interface {
	CreateUnconfirmed(ctx context.Context, u domain.UnconfirmedAccount) error
	GetUnconfirmedByActivationToken(ctx context.Context, activationToken string) (domain.UnconfirmedAccount, error)
	DeleteUnconfirmedByEmail(ctx context.Context, email string) error
	CreateRecoverRequest(ctx context.Context, r domain.RecoverRequest) error
	GetRecoverRequestByResetToken(ctx context.Context, resetToken string) (domain.RecoverRequest, error)
	DeleteRecoverRequestsByEmail(ctx context.Context, email string) error
	CreateEmailMigrationCode(ctx context.Context, m domain.EmailMigrationCode) error
	GetEmailMigrationCodeByToken(ctx context.Context, confirmationToken string) (domain.EmailMigrationCode, error)
	DeleteEmailMigrationCodeByToken(ctx context.Context, confirmationToken string) error
}

type ActivationMailer interface {
	SendActivation(toEmail, activationToken string) error
	SendAccountExists(toEmail string) error
}

type RegistrationService struct {
	Accounts      AccountsStore
	Pending       PendingStore
	Mail          ActivationMailer
	ActivationTTL time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

// Register starts the two-phase account creation. It always reports
// success to the caller: whether the email already belongs to a confirmed
// account must not be observable from the outside.
func (s *RegistrationService) Register(ctx context.Context, email, password string) error {
	if s.Now == nil {
		s.Now = time.Now
	}

	email = normalizeEmail(email)
	if !validEmail(email) {
		return domain.NewValidationError(map[string]string{"email": "invalid email address"})
	}
	if err := auth.CheckPasswordStrength(password); err != nil {
		return err
	}

	_, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		if s.Logger != nil {
			s.Logger.Warn("register: account already exists", "category", "security", "email", email)
		}
		if mailErr := s.Mail.SendAccountExists(email); mailErr != nil && s.Logger != nil {
			s.Logger.Error("register: account exists mail failed", "category", "error", "err", mailErr)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	// Pending registrations for the same email may already exist; a new
	// one simply gets its own activation token.
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	activationToken, err := auth.GenerateToken(16)
	if err != nil {
		return err
	}

	now := s.Now()
	unconfirmed := domain.UnconfirmedAccount{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    passwordHash,
		ActivationToken: activationToken,
		CreatedOn:       now,
		ExpireOn:        now.Add(s.ActivationTTL),
	}
	if err := s.Pending.CreateUnconfirmed(ctx, unconfirmed); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("register: created unconfirmed account", "category", "security", "email", email)
	}
	if mailErr := s.Mail.SendActivation(email, activationToken); mailErr != nil && s.Logger != nil {
		s.Logger.Error("register: activation mail failed", "category", "error", "err", mailErr)
	}
	return nil
}

// Activate confirms a pending registration. On success the account reuses
// the pending row's id and every pending row sharing the email is removed.
func (s *RegistrationService) Activate(ctx context.Context, activationToken, name string) (domain.Account, error) {
	if s.Now == nil {
		s.Now = time.Now
	}

	unconfirmed, err := s.Pending.GetUnconfirmedByActivationToken(ctx, activationToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrTokenNotFound
		}
		return domain.Account{}, err
	}
	if unconfirmed.ExpireOn.Before(s.Now()) {
		return domain.Account{}, domain.ErrTokenExpired
	}

	// A confirmed account may have appeared in the meantime, for example
	// when the user registered twice and already used the other token.
	_, err = s.Accounts.GetAccountByEmail(ctx, unconfirmed.Email)
	if err == nil {
		return domain.Account{}, domain.ErrAlreadyConfirmed
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, err
	}

	acct, err := s.Accounts.CreateAccount(ctx, domain.AccountWithPassword{
		Account: domain.Account{
			ID:          unconfirmed.ID,
			Email:       unconfirmed.Email,
			Name:        strings.TrimSpace(name),
			AccountType: domain.AccountTypeUser,
			IsActive:    true,
			CreatedOn:   s.Now(),
		},
		PasswordHash: unconfirmed.PasswordHash,
	})
	if err != nil {
		// Unique-email violation: a concurrent activation won the race.
		if errors.Is(err, domain.ErrIntegrityConflict) {
			return domain.Account{}, domain.ErrAlreadyConfirmed
		}
		return domain.Account{}, err
	}

	if err := s.Pending.DeleteUnconfirmedByEmail(ctx, unconfirmed.Email); err != nil {
		return domain.Account{}, err
	}

	if s.Logger != nil {
		s.Logger.Info("activate: activated account", "category", "security", "id", acct.ID, "email", acct.Email)
	}
	return acct, nil
}
