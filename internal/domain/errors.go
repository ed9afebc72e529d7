package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountInactive    = errors.New("account_inactive")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenMalformed     = errors.New("token_malformed")
	ErrTokenInvalid       = errors.New("token_invalid")
	ErrScopeDenied        = errors.New("scope_denied")
	ErrPrivilege          = errors.New("privilege_insufficient")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrTokenNotFound      = errors.New("token_not_found")
	ErrAlreadyConfirmed   = errors.New("already_confirmed")
	ErrIntegrityConflict  = errors.New("integrity_conflict")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation")
)

// PrivilegeError names the tier a caller was missing.
type PrivilegeError struct {
	Required AccountType
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("unauthorized, user does not have %s permissions", e.Required)
}

func (e *PrivilegeError) Unwrap() error { return ErrPrivilege }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
