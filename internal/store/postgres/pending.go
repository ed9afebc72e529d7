package postgres

import (
	"context"
	"errors"
	"fmt"

	"rttrailserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PendingStore holds the single-use rows gating account state transitions:
// unconfirmed registrations, password recovery requests, and email migration
// codes. Rows are looked up by their opaque token and deleted on consumption.
type PendingStore struct {
	pool *pgxpool.Pool
}

func NewPendingStore(pool *pgxpool.Pool) *PendingStore {
	return &PendingStore{pool: pool}
}

func (s *PendingStore) CreateUnconfirmed(ctx context.Context, u domain.UnconfirmedAccount) error {
	const q = `
		INSERT INTO unconfirmed_accounts (id, email, password_hash, activation_token, created_on, expire_on)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.pool.Exec(ctx, q, u.ID, u.Email, u.PasswordHash, u.ActivationToken, u.CreatedOn, u.ExpireOn)
	if err != nil {
		return fmt.Errorf("create unconfirmed account: %w", err)
	}
	return nil
}

func (s *PendingStore) GetUnconfirmedByActivationToken(ctx context.Context, activationToken string) (domain.UnconfirmedAccount, error) {
	const q = `
		SELECT id, email, password_hash, activation_token, created_on, expire_on
		FROM unconfirmed_accounts
		WHERE activation_token = $1
	`

	var (
		u      domain.UnconfirmedAccount
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, activationToken).Scan(
		&idUUID,
		&u.Email,
		&u.PasswordHash,
		&u.ActivationToken,
		&u.CreatedOn,
		&u.ExpireOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UnconfirmedAccount{}, domain.ErrNotFound
		}
		return domain.UnconfirmedAccount{}, fmt.Errorf("get unconfirmed account: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	return u, nil
}

// DeleteUnconfirmedByEmail removes every pending registration for the email,
// not just the consumed row.
func (s *PendingStore) DeleteUnconfirmedByEmail(ctx context.Context, email string) error {
	const q = `DELETE FROM unconfirmed_accounts WHERE email = $1`
	if _, err := s.pool.Exec(ctx, q, email); err != nil {
		return fmt.Errorf("delete unconfirmed accounts: %w", err)
	}
	return nil
}

func (s *PendingStore) CreateRecoverRequest(ctx context.Context, r domain.RecoverRequest) error {
	const q = `
		INSERT INTO recover_requests (email, user_id, reset_token, created_on, expire_on)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, q, r.Email, r.UserID, r.ResetToken, r.CreatedOn, r.ExpireOn)
	if err != nil {
		return fmt.Errorf("create recover request: %w", err)
	}
	return nil
}

func (s *PendingStore) GetRecoverRequestByResetToken(ctx context.Context, resetToken string) (domain.RecoverRequest, error) {
	const q = `
		SELECT email, user_id, reset_token, created_on, expire_on
		FROM recover_requests
		WHERE reset_token = $1
	`

	var (
		r          domain.RecoverRequest
		userIDUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, resetToken).Scan(
		&r.Email,
		&userIDUUID,
		&r.ResetToken,
		&r.CreatedOn,
		&r.ExpireOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RecoverRequest{}, domain.ErrNotFound
		}
		return domain.RecoverRequest{}, fmt.Errorf("get recover request: %w", err)
	}

	r.UserID = uuidOrEmpty(userIDUUID)
	return r, nil
}

// DeleteRecoverRequestsByEmail removes every outstanding reset ticket for the
// email once one of them has been used.
func (s *PendingStore) DeleteRecoverRequestsByEmail(ctx context.Context, email string) error {
	const q = `DELETE FROM recover_requests WHERE email = $1`
	if _, err := s.pool.Exec(ctx, q, email); err != nil {
		return fmt.Errorf("delete recover requests: %w", err)
	}
	return nil
}

func (s *PendingStore) CreateEmailMigrationCode(ctx context.Context, m domain.EmailMigrationCode) error {
	const q = `
		INSERT INTO email_migration_codes (user_id, new_email, old_email, confirmation_token)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.pool.Exec(ctx, q, m.UserID, m.NewEmail, m.OldEmail, m.ConfirmationToken)
	if err != nil {
		return fmt.Errorf("create email migration code: %w", err)
	}
	return nil
}

func (s *PendingStore) GetEmailMigrationCodeByToken(ctx context.Context, confirmationToken string) (domain.EmailMigrationCode, error) {
	const q = `
		SELECT user_id, new_email, old_email, confirmation_token
		FROM email_migration_codes
		WHERE confirmation_token = $1
	`

	var (
		m          domain.EmailMigrationCode
		userIDUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, confirmationToken).Scan(
		&userIDUUID,
		&m.NewEmail,
		&m.OldEmail,
		&m.ConfirmationToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmailMigrationCode{}, domain.ErrNotFound
		}
		return domain.EmailMigrationCode{}, fmt.Errorf("get email migration code: %w", err)
	}

	m.UserID = uuidOrEmpty(userIDUUID)
	return m, nil
}

func (s *PendingStore) DeleteEmailMigrationCodeByToken(ctx context.Context, confirmationToken string) error {
	const q = `DELETE FROM email_migration_codes WHERE confirmation_token = $1`
	if _, err := s.pool.Exec(ctx, q, confirmationToken); err != nil {
		return fmt.Errorf("delete email migration code: %w", err)
	}
	return nil
}
