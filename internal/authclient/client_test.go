package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/session"
)

func respond(w http.ResponseWriter, status, code int, message string, data any) {
	payload, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    json.RawMessage(payload),
	})
}

func TestEmailLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/email-login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["email"] != "admin@example.com" {
			t.Fatalf("unexpected email %q", body["email"])
		}
		respond(w, http.StatusOK, 200, "success", map[string]any{
			"token":    "tok-1",
			"userInfo": session.Profile{ID: 1, Username: "admin", Role: permission.RoleAdmin},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.EmailLogin(context.Background(), "admin@example.com", "123456")
	if err != nil {
		t.Fatalf("email login: %v", err)
	}
	if result.Token != "tok-1" {
		t.Fatalf("unexpected token %q", result.Token)
	}
	if result.User == nil || result.User.Role != permission.RoleAdmin {
		t.Fatalf("unexpected user %+v", result.User)
	}
}

func TestLoginRejectionIsAuthenticationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, 401, "wrong password", nil)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.EmailLogin(context.Background(), "admin@example.com", "nope")
	if session.ErrorKind(err) != session.KindAuthentication {
		t.Fatalf("expected authentication failure, got %v (%v)", session.ErrorKind(err), err)
	}
	if err.Error() != "wrong password" {
		t.Fatalf("expected upstream message, got %q", err.Error())
	}
}

func TestUserInfoRejectionIsAuthorizationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer stale" {
			t.Fatalf("unexpected auth header %q", got)
		}
		respond(w, http.StatusUnauthorized, 401, "token expired", nil)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.UserInfo(context.Background(), "stale")
	if session.ErrorKind(err) != session.KindAuthorization {
		t.Fatalf("expected authorization failure, got %v", session.ErrorKind(err))
	}
}

func TestUnmatchedRouteIsNotFoundFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, 404, "no such route", nil)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Register(context.Background(), session.Registration{Username: "x"})
	if session.ErrorKind(err) != session.KindNotFound {
		t.Fatalf("expected not-found failure, got %v", session.ErrorKind(err))
	}
}

func TestUnreachableServiceIsNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.UserInfo(context.Background(), "tok")
	if session.ErrorKind(err) != session.KindNetwork {
		t.Fatalf("expected network failure, got %v", session.ErrorKind(err))
	}
}
