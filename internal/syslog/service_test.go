package syslog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	entries    []Entry
	lastFilter ListFilter
	lastLimit  int
	lastOffset int
	lastCutoff time.Time
}

func (s *stubRepo) Insert(ctx context.Context, e Entry) error {
	e.ID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, e)
	return nil
}

func (s *stubRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Entry, int, error) {
	s.lastFilter = filter
	s.lastLimit = limit
	s.lastOffset = offset
	return s.entries, len(s.entries), nil
}

func (s *stubRepo) Purge(ctx context.Context, before time.Time) (int64, error) {
	s.lastCutoff = before
	var kept []Entry
	var purged int64
	for _, e := range s.entries {
		if e.OccurredAt.Before(before) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return purged, nil
}

func TestRecordRequiresEvent(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	err := svc.Record(context.Background(), Entry{Actor: "admin"})
	require.Error(t, err)
	require.Empty(t, repo.entries)
}

func TestRecordAppends(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	err := svc.Record(context.Background(), Entry{Event: "auth.login", Actor: "admin@example.com"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "auth.login", repo.entries[0].Event)
}

func TestListAppliesPagingDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, paging, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, paging.Page)
	require.Equal(t, 10, paging.PageSize)
	require.Equal(t, 10, repo.lastLimit)
	require.Equal(t, 0, repo.lastOffset)
}

func TestListSecondPageOffset(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListFilter{Page: 3, PageSize: 20, Event: "auth.login"})
	require.NoError(t, err)
	require.Equal(t, 20, repo.lastLimit)
	require.Equal(t, 40, repo.lastOffset)
	require.Equal(t, "auth.login", repo.lastFilter.Event)
}

func TestPurgeDropsOldEntries(t *testing.T) {
	repo := &stubRepo{}
	now := time.Now().UTC()
	repo.entries = []Entry{
		{ID: 1, Event: "auth.login", OccurredAt: now.Add(-200 * 24 * time.Hour)},
		{ID: 2, Event: "auth.logout", OccurredAt: now.Add(-time.Hour)},
	}
	svc := NewService(repo)

	purged, err := svc.Purge(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
	require.Len(t, repo.entries, 1)
	require.Equal(t, int64(2), repo.entries[0].ID)
}

func TestPurgeRejectsNonPositiveRetention(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.Purge(context.Background(), 0)
	require.Error(t, err)
}
