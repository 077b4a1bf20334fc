package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcabrerra/tvrs/internal/audit"
	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
)

// fakeDB serves one user row for lookups and captures audit inserts.
type fakeDB struct {
	user    store.TvrsUser
	inserts [][]interface{}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if strings.Contains(sql, "audit_events") {
		f.inserts = append(f.inserts, args)
		return scanFunc(func(dest ...interface{}) error { return nil })
	}
	u := f.user
	return scanFunc(func(dest ...interface{}) error {
		*dest[0].(*string) = u.UserID
		*dest[1].(*string) = u.Username
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*string) = u.FullName
		*dest[4].(*string) = u.Role
		*dest[5].(*bool) = u.Active
		return nil
	})
}

type scanFunc func(dest ...interface{}) error

func (s scanFunc) Scan(dest ...interface{}) error { return s(dest...) }

func loginTestAPI(t *testing.T) (*API, *fakeDB) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %s", err)
	}
	db := &fakeDB{user: store.TvrsUser{
		UserID:       "u-123",
		Username:     "officer1",
		PasswordHash: string(hash),
		FullName:     "Officer One",
		Role:         "OFFICER",
		Active:       true,
	}}
	queries := store.New(db)
	log := zap.NewNop()
	return &API{
		queries:  queries,
		recorder: audit.NewRecorder(queries, log),
		cfg:      Config{JWTSecret: "test-secret", TokenTTL: time.Hour},
		log:      log,
	}, db
}

func doLogin(t *testing.T, a *API, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest("POST", "/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	a.Login(w, req)
	return w
}

// A failed login is anonymous even when the username resolves to a real user:
// the event must carry no actor, only the attempted username in details.
func TestLoginFailedEventHasNoActor(t *testing.T) {
	a, db := loginTestAPI(t)

	w := doLogin(t, a, "officer1", "wrong-password")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if len(db.inserts) != 1 {
		t.Fatalf("expected 1 audit insert, got %d", len(db.inserts))
	}

	actorID, ok := db.inserts[0][0].(pgtype.Text)
	if !ok {
		t.Fatalf("first insert arg is %T, want pgtype.Text", db.inserts[0][0])
	}
	if actorID.Valid {
		t.Errorf("failed login event must have no actor, got %q", actorID.String)
	}
	if action := db.inserts[0][1].(string); action != core.ActionLoginFailed {
		t.Errorf("expected action %s, got %s", core.ActionLoginFailed, action)
	}
	details := db.inserts[0][2].(pgtype.Text)
	if !strings.Contains(details.String, "officer1") {
		t.Errorf("details should name the attempted username, got %q", details.String)
	}
}

func TestLoginSuccessEventAttributesActor(t *testing.T) {
	a, db := loginTestAPI(t)

	w := doLogin(t, a, "officer1", "right-password")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if len(db.inserts) != 1 {
		t.Fatalf("expected 1 audit insert, got %d", len(db.inserts))
	}

	actorID := db.inserts[0][0].(pgtype.Text)
	if !actorID.Valid || actorID.String != "u-123" {
		t.Errorf("success login event should be attributed to u-123, got %+v", actorID)
	}
	if action := db.inserts[0][1].(string); action != core.ActionLoginSuccess {
		t.Errorf("expected action %s, got %s", core.ActionLoginSuccess, action)
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
}
