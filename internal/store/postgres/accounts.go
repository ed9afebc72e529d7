package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rttrailserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountsStore struct {
	pool *pgxpool.Pool
}

func NewAccountsStore(pool *pgxpool.Pool) *AccountsStore {
	return &AccountsStore{pool: pool}
}

func (s *AccountsStore) CreateAccount(ctx context.Context, acct domain.AccountWithPassword) (domain.Account, error) {
	const q = `
		INSERT INTO accounts (id, email, name, password_hash, account_type, is_active, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, name, account_type, is_active, created_on
	`

	var (
		out    domain.Account
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q,
		acct.ID,
		acct.Email,
		acct.Name,
		acct.PasswordHash,
		acct.AccountType,
		acct.IsActive,
		acct.CreatedOn,
	).Scan(
		&idUUID,
		&out.Email,
		&out.Name,
		&out.AccountType,
		&out.IsActive,
		&out.CreatedOn,
	)
	if err != nil {
		return domain.Account{}, mapAccountWriteError("create account", err)
	}

	out.ID = uuidOrEmpty(idUUID)
	return out, nil
}

func (s *AccountsStore) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	const q = `
		SELECT id, email, name, account_type, is_active, created_on
		FROM accounts
		WHERE id = $1
	`

	var (
		out    domain.Account
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&idUUID,
		&out.Email,
		&out.Name,
		&out.AccountType,
		&out.IsActive,
		&out.CreatedOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	out.ID = uuidOrEmpty(idUUID)
	return out, nil
}

func (s *AccountsStore) GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error) {
	const q = `
		SELECT id, email, name, password_hash, account_type, is_active, created_on
		FROM accounts
		WHERE email = $1
		LIMIT 1
	`

	var (
		out    domain.AccountWithPassword
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&idUUID,
		&out.Email,
		&out.Name,
		&out.PasswordHash,
		&out.AccountType,
		&out.IsActive,
		&out.CreatedOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AccountWithPassword{}, domain.ErrNotFound
		}
		return domain.AccountWithPassword{}, fmt.Errorf("get account by email: %w", err)
	}

	out.ID = uuidOrEmpty(idUUID)
	return out, nil
}

func (s *AccountsStore) ListAccounts(ctx context.Context, types []domain.AccountType) ([]domain.Account, error) {
	const q = `
		SELECT id, email, name, account_type, is_active, created_on
		FROM accounts
		WHERE account_type = ANY($1)
		ORDER BY created_on, id
	`

	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	rows, err := s.pool.Query(ctx, q, typeNames)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var (
			a      domain.Account
			idUUID pgtype.UUID
		)
		if err := rows.Scan(&idUUID, &a.Email, &a.Name, &a.AccountType, &a.IsActive, &a.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.ID = uuidOrEmpty(idUUID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (s *AccountsStore) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (s *AccountsStore) UpdateAccount(ctx context.Context, id string, upd domain.AccountUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.AccountType != nil {
		add("account_type", *upd.AccountType)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	q := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapAccountWriteError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AccountsStore) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const q = `
		UPDATE accounts
		SET password_hash = $2
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAccountWriteError(op string, err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return domain.ErrIntegrityConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
