package service

import (
	"context"
	"errors"
	"testing"

	"rttrailserver/internal/domain"
)

func TestListDefaultsToAllTypes(t *testing.T) {
	var requested []domain.AccountType
	accounts := &stubAccountsStore{
		t: t,
		listAccountsFunc: func(_ context.Context, types []domain.AccountType) ([]domain.Account, error) {
			requested = types
			return nil, nil
		},
	}
	svc := &AccountService{Accounts: accounts}

	if _, err := svc.List(context.Background(), nil); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(requested) != 3 {
		t.Fatalf("expected all three account types, got %v", requested)
	}

	if _, err := svc.List(context.Background(), []domain.AccountType{"alien"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetTranslatesNotFound(t *testing.T) {
	accounts := &stubAccountsStore{
		t: t,
		getAccountByIDFunc: func(context.Context, string) (domain.Account, error) {
			return domain.Account{}, domain.ErrNotFound
		},
	}
	svc := &AccountService{Accounts: accounts}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSearchRanksByNameSimilarity(t *testing.T) {
	all := []domain.Account{
		{ID: "1", Name: "Élodie Martin", AccountType: domain.AccountTypeUser},
		{ID: "2", Name: "Bernard Dupont", AccountType: domain.AccountTypeUser},
		{ID: "3", Name: "Elias Berger", AccountType: domain.AccountTypeModerator},
	}
	accounts := &stubAccountsStore{
		t: t,
		listAccountsFunc: func(context.Context, []domain.AccountType) ([]domain.Account, error) {
			return all, nil
		},
	}
	svc := &AccountService{Accounts: accounts}

	// Accent-insensitive: "elodie" matches "Élodie Martin" best.
	got, err := svc.Search(context.Background(), "elodie", nil, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) == 0 || got[0].ID != "1" {
		t.Fatalf("expected Élodie first, got %+v", got)
	}

	// Excluded account types are dropped before ranking.
	got, err = svc.Search(context.Background(), "eli", nil, []domain.AccountType{domain.AccountTypeModerator})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, acct := range got {
		if acct.ID == "3" {
			t.Fatalf("excluded moderator returned")
		}
	}

	if _, err := svc.Search(context.Background(), "   ", nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
}

func TestSearchLimit(t *testing.T) {
	all := make([]domain.Account, 0, 25)
	for i := 0; i < 25; i++ {
		all = append(all, domain.Account{ID: string(rune('a' + i)), Name: "Somebody"})
	}
	accounts := &stubAccountsStore{
		t: t,
		listAccountsFunc: func(context.Context, []domain.AccountType) ([]domain.Account, error) {
			return all, nil
		},
	}
	svc := &AccountService{Accounts: accounts}

	got, err := svc.Search(context.Background(), "Somebody", nil, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != searchLimit {
		t.Fatalf("expected %d results, got %d", searchLimit, len(got))
	}
}

func TestUpdateAdminValidates(t *testing.T) {
	accounts := &stubAccountsStore{
		t: t,
		getAccountByIDFunc: func(_ context.Context, id string) (domain.Account, error) {
			return domain.Account{ID: id}, nil
		},
		updateAccountFunc: func(context.Context, string, domain.AccountUpdate) error {
			return nil
		},
	}
	svc := &AccountService{Accounts: accounts}

	bad := domain.AccountType("alien")
	err := svc.UpdateAdmin(context.Background(), "u1", domain.AccountUpdate{AccountType: &bad})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	email := " Mixed@Case.COM "
	var applied domain.AccountUpdate
	accounts.updateAccountFunc = func(_ context.Context, id string, upd domain.AccountUpdate) error {
		applied = upd
		return nil
	}
	if err := svc.UpdateAdmin(context.Background(), "u1", domain.AccountUpdate{Email: &email}); err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	if applied.Email == nil || *applied.Email != "mixed@case.com" {
		t.Fatalf("email not normalized: %+v", applied)
	}
}

func TestJaroWinkler(t *testing.T) {
	if got := jaroWinkler("Martha", "Martha"); got != 1 {
		t.Fatalf("identical strings: got %v", got)
	}
	if got := jaroWinkler("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings: got %v", got)
	}
	// Shared prefixes rank higher than the plain Jaro score.
	marthaMarhta := jaroWinkler("Martha", "Marhta")
	if marthaMarhta < 0.95 || marthaMarhta >= 1 {
		t.Fatalf("Martha/Marhta: got %v", marthaMarhta)
	}
	if jaroWinkler("Dwayne", "Duane") >= marthaMarhta {
		t.Fatalf("expected Martha/Marhta to outrank Dwayne/Duane")
	}
}
