package syslog

import (
	"context"
	"errors"
	"time"

	"github.com/novelpress/novelpress/internal/shared"
)

// RepositoryPort abstracts log persistence so the service can be tested
// without a database.
type RepositoryPort interface {
	Insert(ctx context.Context, e Entry) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Entry, int, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Service applies log policy on top of the repository.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Record appends one entry to the log.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if e.Event == "" {
		return errors.New("syslog: event is required")
	}
	return s.repo.Insert(ctx, e)
}

// List returns one page of the log, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, shared.Pagination, error) {
	paging := shared.NewPagination(filter.Page, filter.PageSize, 0)
	entries, total, err := s.repo.List(ctx, filter, paging.PageSize, paging.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return entries, shared.NewPagination(paging.Page, paging.PageSize, total), nil
}

// Purge removes entries older than the retention window.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, errors.New("syslog: retention must be positive")
	}
	return s.repo.Purge(ctx, time.Now().UTC().Add(-retention))
}
