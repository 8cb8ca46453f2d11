package syslog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/novelpress/novelpress/internal/authclient"
	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/session"
)

func newRouter(t *testing.T, repo RepositoryPort, email, password string) http.Handler {
	t.Helper()
	store := session.New(nil, authclient.NewMock(), nil, nil)
	if email != "" {
		if err := store.Login(context.Background(), session.MethodEmail, session.Credentials{Email: email, Password: password}); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	g := guard.New(nil, store, guard.NewTable(guard.DefaultRoutes()), guard.Config{StrictPermissions: true})
	handler := NewHandler(nil, NewService(repo), g.RequirePermission)

	r := chi.NewRouter()
	r.Route("/system/logs", handler.MountRoutes)
	return r
}

func TestListRequiresLogin(t *testing.T) {
	router := newRouter(t, &stubRepo{}, "", "")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/system/logs", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestListForbiddenForNovelRoles(t *testing.T) {
	router := newRouter(t, &stubRepo{}, "test@example.com", "password123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/system/logs", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for the user role, got %d", rr.Code)
	}
}

func TestListAsAdmin(t *testing.T) {
	repo := &stubRepo{entries: []Entry{
		{ID: 1, Event: "auth.login", Actor: "admin@example.com", OccurredAt: time.Now().UTC()},
	}}
	router := newRouter(t, repo, "admin@example.com", "123456")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/system/logs?event=auth.login", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.List) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if repo.lastFilter.Event != "auth.login" {
		t.Fatalf("event filter not forwarded, got %q", repo.lastFilter.Event)
	}
}

func TestPurgeEndpoint(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubRepo{entries: []Entry{
		{ID: 1, Event: "auth.login", OccurredAt: now.Add(-10 * 24 * time.Hour)},
		{ID: 2, Event: "auth.login", OccurredAt: now.Add(-time.Hour)},
	}}
	router := newRouter(t, repo, "admin@example.com", "123456")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/system/logs?olderThanDays=7", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]int64
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["purged"] != 1 {
		t.Fatalf("expected 1 purged, got %d", resp["purged"])
	}
}

func TestPurgeRejectsBadWindow(t *testing.T) {
	router := newRouter(t, &stubRepo{}, "admin@example.com", "123456")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/system/logs?olderThanDays=zero", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
