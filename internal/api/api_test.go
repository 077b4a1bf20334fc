package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcabrerra/tvrs/internal/api/middleware"
	"github.com/jcabrerra/tvrs/internal/core"
)

// Mock tests for API handlers without DB dependency

func TestHealthHandler(t *testing.T) {
	api := &API{}
	r := chi.NewRouter()
	r.Get("/healthz", api.HealthHandler)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("expected body OK, got %s", w.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, core.NewAppError(core.ErrBadRequest, "test error"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Code != "TVRS_BAD_REQUEST" {
		t.Errorf("expected code TVRS_BAD_REQUEST, got %s", resp.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"key": "value"}
	WriteJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key=value, got %v", resp)
	}
}

func protectedRouter(secret []byte) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(secret))
		r.With(middleware.RequireRole(core.RoleAuditor, core.RoleAdmin)).
			Get("/audit", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
	})
	return r
}

func TestAuthMissingToken(t *testing.T) {
	r := protectedRouter([]byte("test-secret"))

	req := httptest.NewRequest("GET", "/audit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Code != "TVRS_UNAUTHORIZED" {
		t.Errorf("expected code TVRS_UNAUTHORIZED, got %s", resp.Code)
	}
}

func TestAuthBadSignature(t *testing.T) {
	token, err := middleware.IssueToken([]byte("other-secret"), core.User{
		UserID:   "u-1",
		Username: "aud",
		Role:     core.RoleAuditor,
	}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %s", err)
	}

	r := protectedRouter([]byte("test-secret"))
	req := httptest.NewRequest("GET", "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestRoleGate(t *testing.T) {
	secret := []byte("test-secret")
	r := protectedRouter(secret)

	cases := []struct {
		role core.Role
		want int
	}{
		{core.RoleAuditor, http.StatusOK},
		{core.RoleAdmin, http.StatusOK},
		{core.RoleOfficer, http.StatusForbidden},
		{core.RoleStaff, http.StatusForbidden},
	}
	for _, c := range cases {
		token, err := middleware.IssueToken(secret, core.User{
			UserID:   "u-1",
			Username: "user",
			Role:     c.role,
		}, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %s", err)
		}

		req := httptest.NewRequest("GET", "/audit", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != c.want {
			t.Errorf("role %s: expected status %d, got %d", c.role, c.want, w.Code)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := []byte("test-secret")
	token, err := middleware.IssueToken(secret, core.User{
		UserID:   "u-1",
		Username: "aud",
		Role:     core.RoleAuditor,
	}, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %s", err)
	}

	r := protectedRouter(secret)
	req := httptest.NewRequest("GET", "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 20},
		{"abc", 20},
		{"0", 20},
		{"50", 50},
		{"500", 100},
	}
	for _, c := range cases {
		if got := parseLimit(c.in, 20, 100); got != c.want {
			t.Errorf("parseLimit(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParsePageSize(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"0", 1},
		{"-5", 1},
		{"50", 50},
		{"500", 500},
	}
	for _, c := range cases {
		if got := parsePageSize(c.in); got != c.want {
			t.Errorf("parsePageSize(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAuditFilterParsing(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/audit/events?category=security&actor_id=u-1&from=2026-01-01T00:00:00Z", nil)
	f, appErr := auditFilter(req.URL.Query())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if f.Category != core.CategorySecurity {
		t.Errorf("expected security category, got %s", f.Category)
	}
	if f.ActorID != "u-1" {
		t.Errorf("expected actor_id u-1, got %s", f.ActorID)
	}
	if f.From == nil || !f.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from not parsed: %v", f.From)
	}

	req = httptest.NewRequest("GET", "/v1/audit/events?category=bogus", nil)
	if _, appErr := auditFilter(req.URL.Query()); appErr == nil {
		t.Error("expected error for unknown category")
	}

	req = httptest.NewRequest("GET", "/v1/audit/events?to=yesterday", nil)
	if _, appErr := auditFilter(req.URL.Query()); appErr == nil {
		t.Error("expected error for malformed to")
	}
}
