// Package session owns the authenticated operator's session: the token, the
// profile with its role-derived permission set, and the query surface the
// navigation guard and visibility directives read from. The store is the
// only writer; everything else holds read access through the getters.
package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/novelpress/novelpress/internal/permission"
)

// Profile describes the authenticated user. Permissions are always derived
// from the role at assignment time; lists supplied by the auth service are
// discarded.
type Profile struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email,omitempty"`
	Role        permission.Role `json:"role"`
	Permissions []string        `json:"permissions,omitempty"`
}

// Method selects the credential flavour used for login.
type Method string

const (
	MethodEmail Method = "email"
	MethodPhone Method = "phone"
)

// Credentials carries login input for either method.
type Credentials struct {
	Email    string
	Password string
	Phone    string
	Code     string
}

// Registration carries sign-up input. Registering does not log in.
type Registration struct {
	Username string
	Email    string
	Password string
}

// LoginResult is the auth service's answer to a login call. The store only
// consumes the token; the profile is re-fetched through UserInfo.
type LoginResult struct {
	Token string
	User  *Profile
}

// Service is the external auth collaborator.
type Service interface {
	EmailLogin(ctx context.Context, email, password string) (LoginResult, error)
	PhoneLogin(ctx context.Context, phone, code string) (LoginResult, error)
	Register(ctx context.Context, reg Registration) error
	UserInfo(ctx context.Context, token string) (Profile, error)
	Logout(ctx context.Context, token string) error
}

// Snapshots persists the {token, user} subset of the session across process
// restarts. All other fields are transient.
type Snapshots interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// Snapshot is the durable slice of session state.
type Snapshot struct {
	Token string   `json:"token"`
	User  *Profile `json:"userInfo"`
}

// Recorder receives session lifecycle events for the system log. A nil
// recorder disables recording.
type Recorder interface {
	Record(ctx context.Context, event, actor, detail string)
}

// Store holds the process-wide session. Mutations take the mutex; auth
// service I/O happens outside it, so a second login racing an in-flight one
// is last-writer-wins, as in the original design.
type Store struct {
	logger    *slog.Logger
	auth      Service
	snapshots Snapshots
	recorder  Recorder

	refresh singleflight.Group

	mu      sync.Mutex
	token   string
	user    *Profile
	loading bool
	lastErr *AuthError
}

// New constructs a Store. snapshots and recorder may be nil.
func New(logger *slog.Logger, auth Service, snapshots Snapshots, recorder Recorder) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger, auth: auth, snapshots: snapshots, recorder: recorder}
}

// Restore loads the persisted snapshot, if any. Call once at startup.
func (s *Store) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	s.SetToken(snap.Token)
	s.SetUser(snap.User)
	return nil
}

// SetToken stores the credential token. An empty token means unauthenticated.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.persist()
}

// SetUser stores the profile. When the role has a catalog entry the
// permission set is overwritten with the catalog's grants for that role; the
// role is the source of truth, never a caller-supplied list.
func (s *Store) SetUser(profile *Profile) {
	if profile != nil {
		p := *profile
		if permission.KnownRole(p.Role) {
			p.Permissions = permission.ForRole(p.Role)
		}
		profile = &p
	}
	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()
	s.persist()
}

// Clear resets the session to its initial empty state. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.lastErr = nil
	s.mu.Unlock()
	if s.snapshots != nil {
		if err := s.snapshots.Clear(context.Background()); err != nil {
			s.logger.Warn("clear session snapshot", slog.Any("error", err))
		}
	}
}

// Login authenticates through the auth service. On success the token is
// stored and the profile fetched in a follow-up call. On failure the session
// is left untouched and the error recorded as lastError. isLoading is
// observable as true for the duration, including the follow-up fetch.
func (s *Store) Login(ctx context.Context, method Method, creds Credentials) error {
	s.beginOperation()
	defer s.endOperation()

	var result LoginResult
	var err error
	switch method {
	case MethodPhone:
		result, err = s.auth.PhoneLogin(ctx, creds.Phone, creds.Code)
	default:
		result, err = s.auth.EmailLogin(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		return s.fail(err)
	}

	if result.Token == "" {
		return s.fail(NewAuthError(KindAuthentication, "login response carried no token"))
	}
	s.SetToken(result.Token)

	profile, err := s.auth.UserInfo(ctx, result.Token)
	if err != nil {
		return s.fail(err)
	}
	s.SetUser(&profile)
	s.record(ctx, "auth.login", profile.Username, string(method))
	return nil
}

// Register delegates sign-up to the auth service. The session is not
// mutated; registration is independent of login.
func (s *Store) Register(ctx context.Context, reg Registration) error {
	s.beginOperation()
	defer s.endOperation()
	if err := s.auth.Register(ctx, reg); err != nil {
		return s.fail(err)
	}
	return nil
}

// Logout calls the auth service best-effort and clears the session
// unconditionally, whatever the remote call returned.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	actor := ""
	if s.user != nil {
		actor = s.user.Username
	}
	s.mu.Unlock()

	if token != "" {
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Warn("remote logout", slog.Any("error", err))
		}
	}
	s.Clear()
	s.record(ctx, "auth.logout", actor, "")
}

// RefreshUser re-fetches the profile for the current token. An authorization
// failure clears the session before the error is returned.
func (s *Store) RefreshUser(ctx context.Context) (*Profile, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	profile, err := s.auth.UserInfo(ctx, token)
	if err != nil {
		ae := asAuthError(err)
		if ae.Kind == KindAuthorization {
			s.Clear()
		}
		return nil, ae
	}
	s.SetUser(&profile)
	return &profile, nil
}

// CheckLoginStatus reports whether the session is authenticated. When a
// token is present but no profile is cached, a refresh is spawned without
// blocking; the return value reflects the state before that refresh, so
// callers must not assume the profile is populated on return.
func (s *Store) CheckLoginStatus(ctx context.Context) bool {
	s.mu.Lock()
	authenticated := s.token != ""
	needsRefresh := s.token != "" && s.user == nil
	s.mu.Unlock()

	if needsRefresh {
		// No cancellation: the refresh runs to completion even if the
		// triggering caller goes away. singleflight collapses concurrent
		// triggers into one fetch.
		bg := context.WithoutCancel(ctx)
		go func() {
			_, err, _ := s.refresh.Do("refresh-user", func() (any, error) {
				return s.RefreshUser(bg)
			})
			if err != nil {
				s.logger.Warn("background profile refresh", slog.Any("error", err))
			}
		}()
	}
	return authenticated
}

// UserID returns the profile id, zero when no profile is cached.
func (s *Store) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Role returns the current role, empty when no profile is cached.
func (s *Store) Role() permission.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Permissions returns a copy of the current permission set.
func (s *Store) Permissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	out := make([]string, len(s.user.Permissions))
	copy(out, s.user.Permissions)
	return out
}

// User returns a copy of the cached profile, nil when logged out.
func (s *Store) User() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	p := *s.user
	p.Permissions = append([]string(nil), s.user.Permissions...)
	return &p
}

// IsAdmin reports whether the current role is admin.
func (s *Store) IsAdmin() bool {
	return s.Role() == permission.RoleAdmin
}

// HasPermission reports whether the session grants the permission. Admin
// always passes.
func (s *Store) HasPermission(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holds(id)
}

// HasAnyPermission reports whether the session grants at least one of the
// permissions. Admin always passes.
func (s *Store) HasAnyPermission(ids ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if s.holds(id) {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the current credential token.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsLoading reports whether a login or register call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the failure recorded by the most recent operation, nil
// after a success or Clear.
func (s *Store) LastError() *AuthError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// holds must be called with the mutex held.
func (s *Store) holds(id string) bool {
	if s.user == nil {
		return false
	}
	if s.user.Role == permission.RoleAdmin {
		return true
	}
	for _, p := range s.user.Permissions {
		if p == id {
			return true
		}
	}
	return false
}

func (s *Store) beginOperation() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store) endOperation() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(err error) *AuthError {
	ae := asAuthError(err)
	s.mu.Lock()
	s.lastErr = ae
	s.mu.Unlock()
	return ae
}

func (s *Store) persist() {
	if s.snapshots == nil {
		return
	}
	s.mu.Lock()
	snap := Snapshot{Token: s.token, User: s.user}
	s.mu.Unlock()
	if err := s.snapshots.Save(context.Background(), snap); err != nil {
		s.logger.Warn("persist session snapshot", slog.Any("error", err))
	}
}

func (s *Store) record(ctx context.Context, event, actor, detail string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, event, actor, detail)
}
