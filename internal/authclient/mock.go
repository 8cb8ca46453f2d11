package authclient

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/session"
)

// Fixed tokens issued by the development backend.
const (
	MockTokenAdmin = "mock-jwt-token-admin"
	MockTokenUser  = "mock-jwt-token"
)

type mockAccount struct {
	profile      session.Profile
	passwordHash []byte
	token        string
	passwords    []string
}

// Mock reproduces the development backend's fixtures: an admin account
// (admin@example.com or admin, password 123456) and a test user account
// (password123 or 123456). Unknown emails log in as the test user with the
// supplied email, matching the upstream mock behaviour.
type Mock struct {
	mu       sync.Mutex
	accounts []mockAccount
	sessions map[string]session.Profile
}

// NewMock builds the mock collaborator.
func NewMock() *Mock {
	admin := mockAccount{
		profile: session.Profile{ID: 1, Username: "admin", Email: "admin@example.com", Role: permission.RoleAdmin},
		token:   MockTokenAdmin,
	}
	admin.passwordHash = mustHash("123456")
	tester := mockAccount{
		profile:   session.Profile{ID: 2, Username: "testuser", Email: "test@example.com", Role: permission.RoleUser},
		token:     MockTokenUser,
		passwords: []string{"password123", "123456"},
	}
	tester.passwordHash = mustHash("password123")
	return &Mock{
		accounts: []mockAccount{admin, tester},
		sessions: map[string]session.Profile{},
	}
}

// EmailLogin matches credentials against the fixtures.
func (m *Mock) EmailLogin(ctx context.Context, email, password string) (session.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range m.accounts {
		if !strings.EqualFold(email, acct.profile.Email) && !strings.EqualFold(email, acct.profile.Username) {
			continue
		}
		if !acct.accepts(password) {
			return session.LoginResult{}, session.NewAuthError(session.KindAuthentication, "wrong password")
		}
		profile := acct.profile
		m.sessions[acct.token] = profile
		return session.LoginResult{Token: acct.token, User: &profile}, nil
	}

	// Unknown emails authenticate as the test user under the given address.
	profile := m.accounts[1].profile
	profile.Email = email
	token := uuid.NewString()
	m.sessions[token] = profile
	return session.LoginResult{Token: token, User: &profile}, nil
}

// PhoneLogin accepts any phone number and code.
func (m *Mock) PhoneLogin(ctx context.Context, phone, code string) (session.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile := m.accounts[1].profile
	token := uuid.NewString()
	m.sessions[token] = profile
	return session.LoginResult{Token: token, User: &profile}, nil
}

// Register always succeeds.
func (m *Mock) Register(ctx context.Context, reg session.Registration) error {
	return nil
}

// UserInfo resolves the profile issued with the token.
func (m *Mock) UserInfo(ctx context.Context, token string) (session.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.sessions[token]; ok {
		return profile, nil
	}
	switch token {
	case MockTokenAdmin:
		return m.accounts[0].profile, nil
	case MockTokenUser:
		return m.accounts[1].profile, nil
	case "":
		return session.Profile{}, session.NewAuthError(session.KindAuthorization, "missing bearer token")
	default:
		return session.Profile{}, session.NewAuthError(session.KindAuthorization, "unknown token")
	}
}

// Logout drops the issued token.
func (m *Mock) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (a mockAccount) accepts(password string) bool {
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil {
		return true
	}
	for _, alt := range a.passwords {
		if password == alt {
			return true
		}
	}
	return false
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}
