package httpapi

import (
	"net/http"
	"time"

	"rttrailserver/internal/domain"
)

type accountResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email,omitempty"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"account_type"`
	IsActive    bool               `json:"is_active"`
	CreatedOn   time.Time          `json:"created_on,omitzero"`
}

// accountSummary is the listing shape: no email, no audit fields.
type accountSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"account_type"`
}

func writeAccount(w http.ResponseWriter, status int, acct domain.Account) {
	WriteJSON(w, status, accountResponse{
		ID:          acct.ID,
		Email:       acct.Email,
		Name:        acct.Name,
		AccountType: acct.AccountType,
		IsActive:    acct.IsActive,
		CreatedOn:   acct.CreatedOn,
	})
}

func writeAccountSummaries(w http.ResponseWriter, accounts []domain.Account) {
	out := make([]accountSummary, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, accountSummary{ID: acct.ID, Name: acct.Name, AccountType: acct.AccountType})
	}
	WriteJSON(w, http.StatusOK, out)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.registrationSvc.Register(r.Context(), req.Email, req.Password); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resultResponse{Success: true})
}

func (a *api) handleUsersList(w http.ResponseWriter, r *http.Request) {
	types := accountTypesParam(r, "accountTypes")
	accounts, err := a.accountSvc.List(r.Context(), types)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeAccountSummaries(w, accounts)
}

func (a *api) handleUsersCount(w http.ResponseWriter, r *http.Request) {
	count, err := a.accountSvc.Count(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, count)
}

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	included := accountTypesParam(r, "includedAccountTypes")
	excluded := accountTypesParam(r, "excludedAccountTypes")

	accounts, err := a.accountSvc.Search(r.Context(), query, included, excluded)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeAccountSummaries(w, accounts)
}

func (a *api) handleAccountTypes(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, domain.AccountTypes())
}

func (a *api) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	acct, err := a.accountSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeAccount(w, http.StatusOK, acct)
}

type userUpdateAdminRequest struct {
	Email       *string             `json:"email"`
	Name        *string             `json:"name"`
	AccountType *domain.AccountType `json:"account_type"`
	IsActive    *bool               `json:"is_active"`
}

func (a *api) handleUsersUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	upd := domain.AccountUpdate{
		Email:       req.Email,
		Name:        req.Name,
		AccountType: req.AccountType,
		IsActive:    req.IsActive,
	}
	if err := a.accountSvc.UpdateAdmin(r.Context(), r.PathValue("id"), upd); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func accountTypesParam(r *http.Request, key string) []domain.AccountType {
	values := r.URL.Query()[key]
	types := make([]domain.AccountType, 0, len(values))
	for _, v := range values {
		if v != "" {
			types = append(types, domain.AccountType(v))
		}
	}
	return types
}
