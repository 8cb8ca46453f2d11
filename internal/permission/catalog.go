// Package permission defines the static permission catalog: the namespaced
// permission identifiers, the role to permission-set mapping, and display
// name lookups. Everything here is compile-time data; lookups never fail,
// missing entries degrade to zero values.
package permission

// Role is one of the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// System management permissions.
const (
	SystemAccess         = "system:access"
	SystemUserManage     = "system:user:manage"
	SystemLogView        = "system:log:view"
	SystemSettingsManage = "system:settings:manage"
	SystemRoleManage     = "system:role:manage"
)

// Novel management permissions.
const (
	NovelAccess         = "novel:access"
	NovelListView       = "novel:list:view"
	NovelCommentManage  = "novel:comment:manage"
	NovelStatisticsView = "novel:statistics:view"
)

// SystemScopes lists all permissions in the system management area.
func SystemScopes() []string {
	return []string{
		SystemAccess,
		SystemUserManage,
		SystemLogView,
		SystemSettingsManage,
		SystemRoleManage,
	}
}

// NovelScopes lists all permissions in the novel management area.
func NovelScopes() []string {
	return []string{
		NovelAccess,
		NovelListView,
		NovelCommentManage,
		NovelStatisticsView,
	}
}

// Categories maps human-readable feature areas to their permission sets.
func Categories() map[string][]string {
	return map[string][]string{
		"System Management": SystemScopes(),
		"Novel Management":  NovelScopes(),
	}
}

// All returns the flattened catalog.
func All() []string {
	return append(SystemScopes(), NovelScopes()...)
}

// rolePermissions grants a permission set per role. The admin set must stay
// a superset of every other role's set; there is no structural check, keep
// it consistent by hand when adding entries.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		SystemAccess,
		SystemUserManage,
		SystemLogView,
		SystemSettingsManage,
		SystemRoleManage,
		NovelAccess,
		NovelListView,
		NovelCommentManage,
		NovelStatisticsView,
	},
	RoleEditor: {
		NovelAccess,
		NovelListView,
		NovelCommentManage,
	},
	RoleUser: {
		NovelAccess,
		NovelListView,
	},
}

// ForRole returns the permission set granted by a role. Unknown roles get an
// empty set. The returned slice is a copy; callers may keep it.
func ForRole(role Role) []string {
	grants, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(grants))
	copy(out, grants)
	return out
}

// KnownRole reports whether the role has a catalog entry.
func KnownRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}

var displayNames = map[string]string{
	SystemAccess:         "System management access",
	SystemUserManage:     "User management",
	SystemLogView:        "System log viewing",
	SystemSettingsManage: "System settings",
	SystemRoleManage:     "Role management",
	NovelAccess:          "Novel management access",
	NovelListView:        "Novel list viewing",
	NovelCommentManage:   "Comment management",
	NovelStatisticsView:  "Statistics viewing",
}

// DisplayName resolves a permission identifier to its human-readable name,
// falling back to the identifier itself.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}
