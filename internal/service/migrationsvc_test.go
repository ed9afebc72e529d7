package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rttrailserver/internal/domain"
)

func TestRequestEmailChange(t *testing.T) {
	ctx := context.Background()

	var created domain.EmailMigrationCode
	accounts := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(context.Context, string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{}, domain.ErrNotFound
		},
	}
	pending := &stubPendingStore{
		t: t,
		createEmailMigrationCodeFunc: func(_ context.Context, m domain.EmailMigrationCode) error {
			created = m
			return nil
		},
	}
	mail := &stubMailer{}
	svc := &MigrationService{Accounts: accounts, Pending: pending, Mail: mail}

	acct := domain.Account{ID: "u1", Email: "old@example.com"}
	if err := svc.RequestEmailChange(ctx, acct, " New@Example.com "); err != nil {
		t.Fatalf("RequestEmailChange: %v", err)
	}
	if created.UserID != "u1" || created.OldEmail != "old@example.com" || created.NewEmail != "new@example.com" {
		t.Fatalf("unexpected migration code %+v", created)
	}
	if len(mail.migrations) != 1 || mail.migrations[0].to != "new@example.com" {
		t.Fatalf("confirmation mail not sent to the new address")
	}
}

func TestRequestEmailChangeAddressTaken(t *testing.T) {
	accounts := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(_ context.Context, email string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{Account: domain.Account{ID: "u2", Email: email}}, nil
		},
	}
	mail := &stubMailer{}
	svc := &MigrationService{Accounts: accounts, Pending: &stubPendingStore{t: t}, Mail: mail}

	// Uniform success; the holder of the address gets a notice instead.
	err := svc.RequestEmailChange(context.Background(), domain.Account{ID: "u1"}, "taken@example.com")
	if err != nil {
		t.Fatalf("RequestEmailChange: %v", err)
	}
	if len(mail.alreadyUsed) != 1 {
		t.Fatalf("expected address-in-use notice, got %d", len(mail.alreadyUsed))
	}
	if len(mail.migrations) != 0 {
		t.Fatalf("no confirmation mail expected")
	}
}

func TestConfirmEmailChange(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	code := domain.EmailMigrationCode{
		UserID:            "u1",
		NewEmail:          "new@example.com",
		OldEmail:          "old@example.com",
		ConfirmationToken: "tok",
	}
	var applied domain.AccountUpdate
	var deletedToken string
	accounts := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(context.Context, string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{}, domain.ErrNotFound
		},
		getAccountByIDFunc: func(_ context.Context, id string) (domain.Account, error) {
			return domain.Account{ID: id, Email: "old@example.com"}, nil
		},
		updateAccountFunc: func(_ context.Context, id string, upd domain.AccountUpdate) error {
			applied = upd
			return nil
		},
	}
	pending := &stubPendingStore{
		t: t,
		getEmailMigrationCodeByTokenFunc: func(_ context.Context, token string) (domain.EmailMigrationCode, error) {
			if token != "tok" {
				return domain.EmailMigrationCode{}, domain.ErrNotFound
			}
			return code, nil
		},
		deleteEmailMigrationCodeByTokenFunc: func(_ context.Context, token string) error {
			deletedToken = token
			return nil
		},
	}
	svc := &MigrationService{Accounts: accounts, Pending: pending, Mail: &stubMailer{}, DataDir: dataDir}

	if err := svc.ConfirmEmailChange(ctx, "tok"); err != nil {
		t.Fatalf("ConfirmEmailChange: %v", err)
	}
	if applied.Email == nil || *applied.Email != "new@example.com" {
		t.Fatalf("email not applied: %+v", applied)
	}
	if deletedToken != "tok" {
		t.Fatalf("migration code not consumed")
	}

	archive, err := os.ReadFile(filepath.Join(dataDir, migrationArchiveFile))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(archive) != "u1,old@example.com,new@example.com\n" {
		t.Fatalf("unexpected archive content %q", archive)
	}

	if err := svc.ConfirmEmailChange(ctx, "unknown"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestConfirmEmailChangeAddressTaken(t *testing.T) {
	accounts := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(_ context.Context, email string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{Account: domain.Account{ID: "u2", Email: email}}, nil
		},
	}
	pending := &stubPendingStore{
		t: t,
		getEmailMigrationCodeByTokenFunc: func(context.Context, string) (domain.EmailMigrationCode, error) {
			return domain.EmailMigrationCode{UserID: "u1", NewEmail: "taken@example.com"}, nil
		},
	}
	svc := &MigrationService{Accounts: accounts, Pending: pending, Mail: &stubMailer{}, DataDir: t.TempDir()}

	err := svc.ConfirmEmailChange(context.Background(), "tok")
	if !errors.Is(err, domain.ErrIntegrityConflict) {
		t.Fatalf("expected ErrIntegrityConflict, got %v", err)
	}
}
