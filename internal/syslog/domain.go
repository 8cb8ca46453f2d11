package syslog

import (
	"errors"
	"time"
)

// Entry is one row of the system activity log. Entries come from the
// session layer (logins, logouts) and from the user management handlers.
type Entry struct {
	ID         int64     `json:"id"`
	Event      string    `json:"event"`
	Actor      string    `json:"actor"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ListFilter narrows a log listing. Zero values mean "no constraint".
type ListFilter struct {
	Page     int
	PageSize int
	Event    string
	Actor    string
}

var ErrNotFound = errors.New("syslog: entry not found")
