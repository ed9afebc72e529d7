package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

const migrationArchiveFile = "mail-migration-archives.txt"

type MigrationMailer interface {
	SendEmailMigration(newEmail, confirmationToken string) error
	SendEmailMigrationAlreadyUsed(newEmail string) error
}

type MigrationService struct {
	Accounts AccountsStore
	Pending  PendingStore
	Mail     MigrationMailer
	DataDir  string
	Logger   *slog.Logger
}

// RequestEmailChange sends a confirmation token to the new address. When
// the address is already taken the caller still gets a success response;
// the holder of the address is notified instead.
func (s *MigrationService) RequestEmailChange(ctx context.Context, acct domain.Account, newEmail string) error {
	newEmail = normalizeEmail(newEmail)
	if !validEmail(newEmail) {
		return domain.NewValidationError(map[string]string{"new_email": "invalid email address"})
	}

	_, err := s.Accounts.GetAccountByEmail(ctx, newEmail)
	if err == nil {
		if s.Logger != nil {
			s.Logger.Info("migrate-mail: address already in use", "category", "security", "email", newEmail)
		}
		if mailErr := s.Mail.SendEmailMigrationAlreadyUsed(newEmail); mailErr != nil && s.Logger != nil {
			s.Logger.Error("migrate-mail: notice mail failed", "category", "error", "err", mailErr)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	confirmationToken, err := auth.GenerateToken(32)
	if err != nil {
		return err
	}
	code := domain.EmailMigrationCode{
		UserID:            acct.ID,
		NewEmail:          newEmail,
		OldEmail:          acct.Email,
		ConfirmationToken: confirmationToken,
	}
	if err := s.Pending.CreateEmailMigrationCode(ctx, code); err != nil {
		return err
	}

	if mailErr := s.Mail.SendEmailMigration(newEmail, confirmationToken); mailErr != nil && s.Logger != nil {
		s.Logger.Error("migrate-mail: confirmation mail failed", "category", "error", "err", mailErr)
	}
	return nil
}

// ConfirmEmailChange applies a pending email change and records the old
// to new mapping in the migration archive.
func (s *MigrationService) ConfirmEmailChange(ctx context.Context, confirmationToken string) error {
	code, err := s.Pending.GetEmailMigrationCodeByToken(ctx, confirmationToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}

	_, err = s.Accounts.GetAccountByEmail(ctx, code.NewEmail)
	if err == nil {
		if s.Logger != nil {
			s.Logger.Info("migrate-mail-confirm: address already in use", "category", "security", "email", code.NewEmail)
		}
		return domain.ErrIntegrityConflict
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.Accounts.GetAccountByID(ctx, code.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	newEmail := code.NewEmail
	if err := s.Accounts.UpdateAccount(ctx, code.UserID, domain.AccountUpdate{Email: &newEmail}); err != nil {
		return err
	}
	if err := s.Pending.DeleteEmailMigrationCodeByToken(ctx, confirmationToken); err != nil {
		return err
	}

	if err := s.appendArchive(code); err != nil {
		if s.Logger != nil {
			s.Logger.Error("migrate-mail-confirm: archive write failed", "category", "error", "err", err)
		}
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("migrate-mail-confirm: email updated",
			"category", "security", "id", code.UserID, "old", code.OldEmail, "new", code.NewEmail)
	}
	return nil
}

func (s *MigrationService) appendArchive(code domain.EmailMigrationCode) error {
	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return fmt.Errorf("migration archive dir: %w", err)
	}
	path := filepath.Join(s.DataDir, migrationArchiveFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open migration archive: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s,%s,%s\n", code.UserID, code.OldEmail, code.NewEmail); err != nil {
		f.Close()
		return fmt.Errorf("write migration archive: %w", err)
	}
	return f.Close()
}
