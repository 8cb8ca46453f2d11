package syslog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for system log entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one entry. A zero OccurredAt is stamped at write time
// so callers that only know the event name still get a usable timestamp.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO system_logs (event, actor, detail, occurred_at) VALUES ($1, $2, $3, $4)`,
		e.Event, e.Actor, e.Detail, e.OccurredAt)
	return err
}

// List returns one page of entries, newest first, plus the filtered total.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Entry, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if filter.Event != "" {
		args = append(args, filter.Event)
		where = append(where, fmt.Sprintf("event = $%d", len(args)))
	}
	if filter.Actor != "" {
		args = append(args, "%"+filter.Actor+"%")
		where = append(where, fmt.Sprintf("actor ILIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM system_logs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id, event, actor, detail, occurred_at FROM system_logs WHERE %s ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Event, &e.Actor, &e.Detail, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Purge deletes entries older than the cutoff and reports how many went away.
func (r *Repository) Purge(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM system_logs WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
