package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/db"
)

func newUsers(t *testing.T) *auth.Users {
	t.Helper()
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return auth.NewUsers(conn)
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pass string
		ok         bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"bad name", "password1", false},
		{"alice", "short", false},
	}
	for _, tc := range cases {
		if err := auth.ValidateSignup(tc.user, tc.pass); (err == nil) != tc.ok {
			t.Errorf("ValidateSignup(%q, %q) = %v", tc.user, tc.pass, err)
		}
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, " alice ", "password1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "alice" || u.ID == "" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := users.Create(ctx, "ALICE", "password1"); !errors.Is(err, auth.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	if _, err := users.Authenticate(ctx, "alice", "wrong-pass"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	got, err := users.Authenticate(ctx, "Alice", "password1")
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: %v %v", got, err)
	}

	if _, err := users.FindByID(ctx, "nope"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "bob_1", "password1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_ = users.RecordStarted(ctx, u.ID)
	_ = users.RecordStarted(ctx, u.ID)
	_ = users.RecordCompleted(ctx, u.ID, 50000)
	_ = users.RecordCompleted(ctx, u.ID, 70000)

	got, err := users.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PuzzlesPlayed != 2 || got.PuzzlesCompleted != 2 {
		t.Fatalf("unexpected counters %+v", got)
	}
	if got.BestMs == nil || *got.BestMs != 50000 {
		t.Fatalf("expected best 50000, got %v", got.BestMs)
	}
}

func TestSignerRoundTrip(t *testing.T) {
	s := auth.Signer{Secret: []byte("secret"), TTL: time.Hour}
	tok, exp, err := s.Sign("id1", "alice")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry should be in the future")
	}
	id, err := s.Parse(tok)
	if err != nil || id.ID != "id1" || id.Username != "alice" {
		t.Fatalf("parse: %+v %v", id, err)
	}

	other := auth.Signer{Secret: []byte("other"), TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
	expired := auth.Signer{Secret: []byte("secret"), TTL: -time.Minute}
	old, _, _ := expired.Sign("id1", "alice")
	if _, err := s.Parse(old); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, _ := users.Create(ctx, "carol", "password1")
	m := auth.Middleware{
		Signer:  auth.Signer{Secret: []byte("k"), TTL: time.Hour},
		Cookies: auth.Cookies{Name: "ws_token"},
		Users:   users,
	}
	tok, _, _ := m.Signer.Sign(u.ID, u.Username)

	var seen *auth.Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.FromContext(r.Context())
	})

	// Guest through Optional.
	m.Optional(h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if seen != nil {
		t.Fatal("guest should have no identity")
	}

	// Cookie through Optional.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "ws_token", Value: tok})
	m.Optional(h).ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != u.ID {
		t.Fatalf("expected identity from cookie, got %+v", seen)
	}

	// Require without token.
	w := httptest.NewRecorder()
	m.Require(h).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// Require with bearer.
	seen = nil
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	m.Require(h).ServeHTTP(w, req)
	if w.Code != http.StatusOK || seen == nil {
		t.Fatalf("expected pass-through, got %d %+v", w.Code, seen)
	}
}
