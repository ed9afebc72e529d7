package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rttrailserver/internal/auth"
	"rttrailserver/internal/domain"
	"rttrailserver/internal/service"
)

func accessTokenRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAccessToken(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	codec := newTestCodec(t)
	store := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(_ context.Context, email string) (domain.AccountWithPassword, error) {
			if email != "ada@example.com" {
				return domain.AccountWithPassword{}, domain.ErrNotFound
			}
			return domain.AccountWithPassword{
				Account:      domain.Account{ID: "u1", Email: email, AccountType: domain.AccountTypeUser, IsActive: true},
				PasswordHash: hash,
			}, nil
		},
	}
	api := &api{authSvc: &service.AuthService{Accounts: store, Codec: codec}}

	rr := httptest.NewRecorder()
	api.handleAccessToken(rr, accessTokenRequest("Ada@Example.com", "correct horse battery staple"))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp accessTokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("unexpected token type: %q", resp.TokenType)
	}

	data, err := codec.Parse(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if data.Sub != "u1" {
		t.Fatalf("unexpected subject: %q", data.Sub)
	}
	if !auth.ScopesSatisfied([][]auth.Scope{{auth.ScopeAPI}}, data.Scopes) {
		t.Fatalf("token missing api scope: %q", data.Scopes)
	}
}

func TestAccessTokenBadCredentials(t *testing.T) {
	store := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(context.Context, string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{}, domain.ErrNotFound
		},
	}
	api := &api{authSvc: &service.AuthService{Accounts: store, Codec: newTestCodec(t)}}

	rr := httptest.NewRecorder()
	api.handleAccessToken(rr, accessTokenRequest("nobody@example.com", "whatever"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("missing WWW-Authenticate challenge")
	}
}

func TestAccessTokenInactiveAccount(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &stubAccountsStore{
		t: t,
		getAccountByEmailFunc: func(_ context.Context, email string) (domain.AccountWithPassword, error) {
			return domain.AccountWithPassword{
				Account:      domain.Account{ID: "u1", Email: email, AccountType: domain.AccountTypeUser, IsActive: false},
				PasswordHash: hash,
			}, nil
		},
	}
	api := &api{authSvc: &service.AuthService{Accounts: store, Codec: newTestCodec(t)}}

	rr := httptest.NewRecorder()
	api.handleAccessToken(rr, accessTokenRequest("ada@example.com", "correct horse battery staple"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestAccessTokenMissingFields(t *testing.T) {
	api := &api{}

	rr := httptest.NewRecorder()
	api.handleAccessToken(rr, accessTokenRequest("", ""))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestAccessTokenMissingPasswordOnly(t *testing.T) {
	api := &api{}

	rr := httptest.NewRecorder()
	api.handleAccessToken(rr, accessTokenRequest("ada@example.com", ""))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Error.Message, "password") {
		t.Fatalf("missing field not reported: %q", resp.Error.Message)
	}
	if strings.Contains(resp.Error.Message, "username") {
		t.Fatalf("present field reported as missing: %q", resp.Error.Message)
	}
}

func TestTestTokenReturnsAccount(t *testing.T) {
	api := &api{}

	acct := domain.Account{ID: "u1", Email: "ada@example.com", Name: "Ada", AccountType: domain.AccountTypeUser, IsActive: true}
	req := httptest.NewRequest(http.MethodPost, "/login/test-token", nil)
	req = req.WithContext(withAccount(req.Context(), acct))

	rr := httptest.NewRecorder()
	api.handleTestToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp accountResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u1" || resp.Email != "ada@example.com" {
		t.Fatalf("unexpected account: %#v", resp)
	}
}

func TestMigrateMailConfirmMissingToken(t *testing.T) {
	api := &api{}

	rr := httptest.NewRecorder()
	api.handleMigrateMailConfirm(rr, httptest.NewRequest(http.MethodGet, "/login/migrate-mail-confirm", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}
