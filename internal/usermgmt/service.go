package usermgmt

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/shared"
)

// RepositoryPort defines data access for managed users.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]User, int, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Username string
	Email    string
	Password string
	Role     permission.Role
	IsActive bool
}

// UpdateInput carries the mutable account fields.
type UpdateInput struct {
	Username string
	Email    string
	Role     permission.Role
	IsActive bool
}

// List returns one page of users. Keywords are normalised before matching so
// fullwidth and mixed-case input still finds accounts.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, shared.Pagination, error) {
	filter.Keyword = normalizeKeyword(filter.Keyword)
	paging := shared.NewPagination(filter.Page, filter.PageSize, 0)
	users, total, err := s.repo.List(ctx, filter, paging.PageSize, paging.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, shared.NewPagination(paging.Page, paging.PageSize, total), nil
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new managed account with a hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if !permission.KnownRole(in.Role) {
		return User{}, ErrUnknownRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Role:     in.Role,
		IsActive: in.IsActive,
	}, string(hash))
}

// Update rewrites an account's profile fields.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (User, error) {
	if !permission.KnownRole(in.Role) {
		return User{}, ErrUnknownRole
	}
	return s.repo.Update(ctx, User{
		ID:       id,
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Role:     in.Role,
		IsActive: in.IsActive,
	})
}

// Delete removes a single account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BatchDelete removes a set of accounts, returning the removed count.
func (s *Service) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteMany(ctx, ids)
}

// SetStatus activates or deactivates an account.
func (s *Service) SetStatus(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// ResetPassword replaces an account's password.
func (s *Service) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.SetPassword(ctx, id, string(hash))
}

var keywordFolder = cases.Fold()

func normalizeKeyword(kw string) string {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return ""
	}
	return keywordFolder.String(norm.NFKC.String(kw))
}
