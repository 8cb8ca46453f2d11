package authclient

import (
	"context"
	"testing"

	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/session"
)

func TestMockAdminLogin(t *testing.T) {
	mock := NewMock()
	for _, identity := range []string{"admin@example.com", "admin"} {
		result, err := mock.EmailLogin(context.Background(), identity, "123456")
		if err != nil {
			t.Fatalf("admin login as %q: %v", identity, err)
		}
		if result.Token != MockTokenAdmin {
			t.Fatalf("unexpected token %q", result.Token)
		}
		profile, err := mock.UserInfo(context.Background(), result.Token)
		if err != nil {
			t.Fatalf("user info: %v", err)
		}
		if profile.Role != permission.RoleAdmin {
			t.Fatalf("expected admin role, got %q", profile.Role)
		}
	}
}

func TestMockWrongPassword(t *testing.T) {
	mock := NewMock()
	_, err := mock.EmailLogin(context.Background(), "admin@example.com", "letmein")
	if session.ErrorKind(err) != session.KindAuthentication {
		t.Fatalf("expected authentication failure, got %v", err)
	}
}

func TestMockUnknownEmailLogsInAsTestUser(t *testing.T) {
	mock := NewMock()
	result, err := mock.EmailLogin(context.Background(), "someone@example.com", "whatever")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	profile, err := mock.UserInfo(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("user info: %v", err)
	}
	if profile.Role != permission.RoleUser {
		t.Fatalf("expected user role, got %q", profile.Role)
	}
	if profile.Email != "someone@example.com" {
		t.Fatalf("expected supplied email, got %q", profile.Email)
	}
}

func TestMockUserInfoRejectsUnknownToken(t *testing.T) {
	mock := NewMock()
	if _, err := mock.UserInfo(context.Background(), "forged"); session.ErrorKind(err) != session.KindAuthorization {
		t.Fatalf("expected authorization failure, got %v", err)
	}
	if _, err := mock.UserInfo(context.Background(), ""); session.ErrorKind(err) != session.KindAuthorization {
		t.Fatalf("expected authorization failure for empty token, got %v", err)
	}
}

// End-to-end over the session store: the admin fixture yields an admin
// session with the full grant set.
func TestAdminLoginThroughStore(t *testing.T) {
	store := session.New(nil, NewMock(), nil, nil)
	if err := store.Login(context.Background(), session.MethodEmail, session.Credentials{
		Email:    "admin@example.com",
		Password: "123456",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !store.IsAdmin() {
		t.Fatal("expected admin session")
	}
	if !store.HasAnyPermission(permission.NovelAccess, permission.SystemAccess) {
		t.Fatal("admin must hold any catalog permission")
	}
}

func TestPhoneLoginThroughStore(t *testing.T) {
	store := session.New(nil, NewMock(), nil, nil)
	if err := store.Login(context.Background(), session.MethodPhone, session.Credentials{
		Phone: "13800000000",
		Code:  "9999",
	}); err != nil {
		t.Fatalf("phone login: %v", err)
	}
	if store.Role() != permission.RoleUser {
		t.Fatalf("expected user role, got %q", store.Role())
	}
	if store.HasPermission(permission.SystemRoleManage) {
		t.Fatal("test user must not manage roles")
	}
}
