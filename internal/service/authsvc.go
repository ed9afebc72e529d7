package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

type AccountsStore interface {
	CreateAccount(ctx context.Context, acct domain.AccountWithPassword) (domain.Account, error)
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountWithPassword, error)
	ListAccounts(ctx context.Context, types []domain.AccountType) ([]domain.Account, error)
	CountAccounts(ctx context.Context) (int, error)
	UpdateAccount(ctx context.Context, id string, upd domain.AccountUpdate) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type AuthService struct {
	Accounts AccountsStore
	Codec    *auth.TokenCodec
	Logger   *slog.Logger
}

// Authenticate verifies credentials and returns the matching account. It
// does not check IsActive; callers reject inactive accounts themselves so
// that the failure is distinguishable from bad credentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	acct, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Run a hash comparison anyway so a missing account takes
			// as long as a wrong password.
			auth.VerifyDummyPassword(password)
			return domain.Account{}, domain.ErrInvalidCredentials
		}
		return domain.Account{}, err
	}
	if !auth.VerifyPassword(acct.PasswordHash, password) {
		return domain.Account{}, domain.ErrInvalidCredentials
	}
	return acct.Account, nil
}

func (s *AuthService) IssueAccessToken(acct domain.Account) (string, error) {
	return s.Codec.Issue(auth.TokenData{
		Sub:    acct.ID,
		Scopes: auth.JoinScopes(auth.ScopeAPI),
	})
}

// AuthorizedAccount decodes a bearer token, checks the scope policy (OR of
// AND sets; an empty policy always grants), resolves the subject and
// enforces the minimum account type.
func (s *AuthService) AuthorizedAccount(ctx context.Context, tokenString string, policy [][]auth.Scope, minType domain.AccountType) (domain.Account, error) {
	data, err := s.Codec.Parse(tokenString)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Info("token rejected", "category", "access", "reason", err.Error())
		}
		return domain.Account{}, err
	}
	if s.Logger != nil {
		s.Logger.Info("token decoded", "category", "access", "sub", data.Sub)
	}

	if !auth.ScopesSatisfied(policy, data.Scopes) {
		return domain.Account{}, domain.ErrScopeDenied
	}

	acct, err := s.Accounts.GetAccountByID(ctx, data.Sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	if !acct.AccountType.AtLeast(minType) {
		return domain.Account{}, &domain.PrivilegeError{Required: minType}
	}
	return acct, nil
}
