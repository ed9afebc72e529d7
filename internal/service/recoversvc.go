package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

type RecoverMailer interface {
	SendRecover(toEmail, resetToken string) error
	SendRecoverNoAccount(toEmail string) error
}

type RecoverService struct {
	Accounts AccountsStore
	Pending  PendingStore
	Mail     RecoverMailer
	ResetTTL time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Recover starts a password reset. The caller always gets a success
// response; whether the email matches an account is only visible in the
// mail that goes out and in the server logs.
func (s *RecoverService) Recover(ctx context.Context, email string) error {
	if s.Now == nil {
		s.Now = time.Now
	}

	email = normalizeEmail(email)
	if !validEmail(email) {
		return domain.NewValidationError(map[string]string{"email": "invalid email address"})
	}

	acct, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("recover: no account for email", "category", "security", "email", email)
		}
		if mailErr := s.Mail.SendRecoverNoAccount(email); mailErr != nil && s.Logger != nil {
			s.Logger.Error("recover: notice mail failed", "category", "error", "err", mailErr)
		}
		return nil
	}

	resetToken, err := auth.GenerateToken(32)
	if err != nil {
		return err
	}

	now := s.Now()
	req := domain.RecoverRequest{
		Email:      email,
		UserID:     acct.ID,
		ResetToken: resetToken,
		CreatedOn:  now,
		ExpireOn:   now.Add(s.ResetTTL),
	}
	if err := s.Pending.CreateRecoverRequest(ctx, req); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("recover: created reset request", "category", "security", "email", email)
	}
	if mailErr := s.Mail.SendRecover(email, resetToken); mailErr != nil && s.Logger != nil {
		s.Logger.Error("recover: reset mail failed", "category", "error", "err", mailErr)
	}
	return nil
}

// ResetPassword consumes a reset token. All reset requests for the same
// email are removed afterwards, not just the one that was used.
func (s *RecoverService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if s.Now == nil {
		s.Now = time.Now
	}

	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return err
	}

	req, err := s.Pending.GetRecoverRequestByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}
	if req.ExpireOn.Before(s.Now()) {
		return domain.ErrTokenExpired
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Accounts.UpdatePasswordHash(ctx, req.UserID, passwordHash); err != nil {
		return err
	}
	if err := s.Pending.DeleteRecoverRequestsByEmail(ctx, req.Email); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("reset: password updated", "category", "security", "id", req.UserID)
	}
	return nil
}

// ChangePassword re-authenticates with the old password before updating.
func (s *RecoverService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	email = normalizeEmail(email)

	acct, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			auth.VerifyDummyPassword(oldPassword)
			return domain.ErrForbidden
		}
		return err
	}
	if !auth.VerifyPassword(acct.PasswordHash, oldPassword) {
		return domain.ErrForbidden
	}

	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Accounts.UpdatePasswordHash(ctx, acct.ID, passwordHash); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("change-password: password updated", "category", "security", "id", acct.ID)
	}
	return nil
}
