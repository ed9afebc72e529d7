package httpapi

import (
	"context"
	"net/http"
	"strings"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
)

type authCtxKey int

const authAccountKey authCtxKey = iota

var apiScopePolicy = [][]auth.Scope{{auth.ScopeAPI}}

// requireUser gates a handler behind a bearer token carrying the API scope
// and an account of at least the given type. Decode and scope failures are
// 403s; a missing header is a plain 401 challenge.
func (a *api) requireUser(minType domain.AccountType, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			WriteError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
			return
		}

		acct, err := a.authSvc.AuthorizedAccount(r.Context(), token, apiScopePolicy, minType)
		if err != nil {
			WriteDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authAccountKey, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func CurrentAccount(ctx context.Context) (domain.Account, bool) {
	acct, ok := ctx.Value(authAccountKey).(domain.Account)
	return acct, ok
}
