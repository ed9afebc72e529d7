package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"rttrailserver/internal/domain"
)

const searchLimit = 10

type AccountService struct {
	Accounts AccountsStore
	Logger   *slog.Logger
}

// List returns accounts of the given types; an empty filter means all types.
func (s *AccountService) List(ctx context.Context, types []domain.AccountType) ([]domain.Account, error) {
	for _, t := range types {
		if !t.Valid() {
			return nil, domain.NewValidationError(map[string]string{"account_type": "unknown account type " + string(t)})
		}
	}
	if len(types) == 0 {
		types = domain.AccountTypes()
	}
	return s.Accounts.ListAccounts(ctx, types)
}

func (s *AccountService) Count(ctx context.Context) (int, error) {
	return s.Accounts.CountAccounts(ctx)
}

func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.Accounts.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return acct, nil
}

// Search ranks accounts by name similarity to the query, ignoring case and
// accents. The query is assumed to be the beginning of a name, so words are
// capitalized before matching.
func (s *AccountService) Search(ctx context.Context, query string, included, excluded []domain.AccountType) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError(map[string]string{"query": "must not be empty"})
	}

	accounts, err := s.List(ctx, included)
	if err != nil {
		return nil, err
	}
	if len(excluded) > 0 {
		kept := accounts[:0]
		for _, acct := range accounts {
			skip := false
			for _, t := range excluded {
				if acct.AccountType == t {
					skip = true
					break
				}
			}
			if !skip {
				kept = append(kept, acct)
			}
		}
		accounts = kept
	}

	query = foldAccents(capitalizeWords(query))
	type scored struct {
		acct  domain.Account
		score float64
	}
	ranked := make([]scored, 0, len(accounts))
	for _, acct := range accounts {
		ranked = append(ranked, scored{acct, jaroWinkler(query, foldAccents(acct.Name))})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := len(ranked)
	if n > searchLimit {
		n = searchLimit
	}
	out := make([]domain.Account, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.acct)
	}
	return out, nil
}

// UpdateAdmin applies an administrator-driven update to any account.
func (s *AccountService) UpdateAdmin(ctx context.Context, id string, upd domain.AccountUpdate) error {
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if !validEmail(email) {
			return domain.NewValidationError(map[string]string{"email": "invalid email address"})
		}
		upd.Email = &email
	}
	if upd.AccountType != nil && !upd.AccountType.Valid() {
		return domain.NewValidationError(map[string]string{"account_type": "unknown account type"})
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Accounts.UpdateAccount(ctx, id, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}
	return nil
}

// UpdateSelf lets an account change its own descriptive fields only.
func (s *AccountService) UpdateSelf(ctx context.Context, id string, name *string) error {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if err := s.Accounts.UpdateAccount(ctx, id, domain.AccountUpdate{Name: &trimmed}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}
	return nil
}

// AskDeletion records a deletion request for manual processing by an
// administrator. Nothing is deleted in-band.
func (s *AccountService) AskDeletion(ctx context.Context, acct domain.Account) {
	if s.Logger != nil {
		s.Logger.Info("account deletion requested",
			"category", "security", "id", acct.ID, "email", acct.Email)
	}
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
