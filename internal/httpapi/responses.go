package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"rttrailserver/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// resultResponse is the uniform body of enumeration-sensitive endpoints.
type resultResponse struct {
	Success bool `json:"success"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var pe *domain.PrivilegeError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect login or password")
	case errors.Is(err, domain.ErrAccountInactive):
		WriteError(w, http.StatusBadRequest, "account_inactive", "inactive account")
	case errors.Is(err, domain.ErrTokenExpired):
		WriteError(w, http.StatusForbidden, "token_expired", "token has expired")
	case errors.Is(err, domain.ErrTokenMalformed):
		WriteError(w, http.StatusForbidden, "token_malformed", "could not validate credentials")
	case errors.Is(err, domain.ErrTokenInvalid):
		WriteError(w, http.StatusForbidden, "token_invalid", "could not validate credentials")
	case errors.Is(err, domain.ErrScopeDenied):
		WriteError(w, http.StatusForbidden, "scope_denied", "token does not carry a required scope set")
	case errors.As(err, &pe):
		WriteError(w, http.StatusForbidden, "privilege_insufficient", pe.Error())
	case errors.Is(err, domain.ErrPrivilege):
		WriteError(w, http.StatusForbidden, "privilege_insufficient", "insufficient account type")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, domain.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "account_not_found", "account not found")
	case errors.Is(err, domain.ErrTokenNotFound):
		WriteError(w, http.StatusNotFound, "token_not_found", "invalid token")
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		WriteError(w, http.StatusBadRequest, "already_confirmed", "account is already confirmed")
	case errors.Is(err, domain.ErrIntegrityConflict):
		WriteError(w, http.StatusBadRequest, "integrity_conflict", "update failed due to a database integrity error")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
