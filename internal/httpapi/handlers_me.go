package httpapi

import "net/http"

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}
	writeAccount(w, http.StatusOK, acct)
}

type meUpdateRequest struct {
	Name *string `json:"name"`
}

func (a *api) handleMeUpdate(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req meUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.accountSvc.UpdateSelf(r.Context(), acct.ID, req.Name); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleAskDeletion(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	a.accountSvc.AskDeletion(r.Context(), acct)
	w.WriteHeader(http.StatusNoContent)
}

type migrateMailRequest struct {
	NewEmail string `json:"new_email"`
}

func (a *api) handleMigrateMail(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	var req migrateMailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.migrationSvc.RequestEmailChange(r.Context(), acct, req.NewEmail); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
