package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRouterWithoutDatabase(t *testing.T) {
	router := NewRouter(RouterOpts{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/login/access-token"},
		{http.MethodPost, "/users/register"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/poi"},
		{http.MethodPost, "/flappybird/scores"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: unexpected status %d", tc.method, tc.path, rr.Code)
		}
		var resp errorEnvelope
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("%s %s: decode response: %v", tc.method, tc.path, err)
		}
		if resp.Error.Code != "service_unavailable" {
			t.Fatalf("%s %s: unexpected error code %q", tc.method, tc.path, resp.Error.Code)
		}
	}
}

func TestRouterHealthzWithoutDatabase(t *testing.T) {
	router := NewRouter(RouterOpts{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if body := rr.Body.String(); body != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}
}
