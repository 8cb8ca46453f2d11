// Package usermgmt implements the /system/users resource family: the
// paginated user listing and the CRUD, status, and password operations
// behind the user management screen.
package usermgmt

import (
	"errors"
	"time"

	"github.com/novelpress/novelpress/internal/permission"
)

// User is a managed account row.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      permission.Role `json:"role"`
	IsActive  bool            `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ListFilter narrows and pages the user listing.
type ListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     permission.Role
}

var (
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("usermgmt: user not found")
	// ErrDuplicate indicates a username or email collision.
	ErrDuplicate = errors.New("usermgmt: username or email already taken")
	// ErrUnknownRole indicates a role without a catalog entry.
	ErrUnknownRole = errors.New("usermgmt: unknown role")
)
