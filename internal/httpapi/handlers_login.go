package httpapi

import (
	"net/http"
	"strings"

	"rttrailserver/internal/domain"
)

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleAccessToken implements the OAuth2 password grant: form-encoded
// username and password in, a bearer token out.
func (a *api) handleAccessToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_form", "invalid form data")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	acct, err := a.authSvc.Authenticate(r.Context(), username, password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if !acct.IsActive {
		WriteDomainError(w, domain.ErrAccountInactive)
		return
	}

	token, err := a.authSvc.IssueAccessToken(acct)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, accessTokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *api) handleTestToken(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrTokenInvalid)
		return
	}
	writeAccount(w, http.StatusOK, acct)
}

type activateRequest struct {
	ActivationToken string `json:"activation_token"`
	Name            string `json:"name"`
}

func (a *api) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	fields := map[string]string{}
	if req.ActivationToken == "" {
		fields["activation_token"] = "required"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	if _, err := a.registrationSvc.Activate(r.Context(), req.ActivationToken, req.Name); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resultResponse{Success: true})
}

type recoverRequest struct {
	Email string `json:"email"`
}

func (a *api) handleRecover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.recoverSvc.Recover(r.Context(), req.Email); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resultResponse{Success: true})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

func (a *api) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.recoverSvc.ResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resultResponse{Success: true})
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (a *api) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.recoverSvc.ChangePassword(r.Context(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, resultResponse{Success: true})
}

func (a *api) handleMigrateMailConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"token": "required"}))
		return
	}

	if err := a.migrationSvc.ConfirmEmailChange(r.Context(), token); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resultResponse{Success: true})
}
