package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/storage"
)

func newUserMux(t *testing.T) (*http.ServeMux, *storage.MemoryStorage) {
	t.Helper()
	t.Setenv("HOTELFM_AUTH_DISABLED", "1")
	st := storage.NewMemory()
	authSvc, err := auth.NewService(st)
	if err != nil {
		t.Fatalf("auth service init failed: %v", err)
	}
	mux := http.NewServeMux()
	registerUserRoutes(mux, st, authSvc)
	return mux, st
}

func registerTestUser(t *testing.T, mux *http.ServeMux, username string) storage.User {
	t.Helper()
	body := `{"username":"` + username + `","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var u storage.User
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return u
}

func TestUpdateUserEndpoint(t *testing.T) {
	mux, st := newUserMux(t)
	admin := registerTestUser(t, mux, "alice")
	if admin.Role != "admin" {
		t.Fatalf("first user should bootstrap as admin, got %q", admin.Role)
	}
	target := registerTestUser(t, mux, "bob")

	req := httptest.NewRequest(http.MethodPut, "/api/users/"+target.ID,
		strings.NewReader(`{"role":"editor"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}

	u, err := st.GetUser(context.Background(), target.ID)
	if err != nil || u == nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if u.Role != "editor" {
		t.Errorf("expected role editor, got %q", u.Role)
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	mux, st := newUserMux(t)
	registerTestUser(t, mux, "alice")
	target := registerTestUser(t, mux, "bob")

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+target.ID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d: %s", rec.Code, rec.Body.String())
	}

	u, err := st.GetUser(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if u != nil {
		t.Error("user still present after delete")
	}

	// Deleting again reports not found.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/"+target.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing user, got %d", rec.Code)
	}
}

func TestUserDetailMethodNotAllowed(t *testing.T) {
	mux, _ := newUserMux(t)
	u := registerTestUser(t, mux, "alice")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/"+u.ID, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
