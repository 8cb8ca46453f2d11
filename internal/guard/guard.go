// Package guard decides whether a route transition may proceed, based on
// login state and the target route's permission annotation. Absence of
// permission is a redirect, never an error; the guard itself cannot fail and
// keeps no state across navigations.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/novelpress/novelpress/internal/permission"
)

// SessionReader is the read-only slice of the session store the guard needs.
type SessionReader interface {
	CheckLoginStatus(ctx context.Context) bool
	HasPermission(id string) bool
}

// Action is the outcome of a navigation decision.
type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectLanding
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect-login"
	case RedirectLanding:
		return "redirect-landing"
	default:
		return "allow"
	}
}

// Decision is terminal after one transition; Location is set on redirects.
type Decision struct {
	Action   Action
	Location string
}

// Config parameterises the guard. Zero values select the defaults; the
// permission bypass is threaded here explicitly rather than read from the
// environment, so tests stay deterministic.
type Config struct {
	LoginPath   string
	LandingPath string
	// AllowList names the paths reachable without a login.
	AllowList []string
	// DeniedPath is the redirect target on a permission denial. Defaults to
	// the landing page; denial is a UX redirect, not an error page.
	DeniedPath string
	// StrictPermissions enforces route permission annotations. False
	// reproduces the lenient development behaviour of skipping them.
	StrictPermissions bool
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.LandingPath == "" {
		c.LandingPath = "/admin"
	}
	if c.AllowList == nil {
		c.AllowList = []string{c.LoginPath, "/"}
	}
	if c.DeniedPath == "" {
		c.DeniedPath = c.LandingPath
	}
	return c
}

// Guard gates navigation. It is a pure reader of session state.
type Guard struct {
	logger  *slog.Logger
	session SessionReader
	table   *Table
	cfg     Config
}

// New constructs a Guard over the given route table.
func New(logger *slog.Logger, session SessionReader, table *Table, cfg Config) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger, session: session, table: table, cfg: cfg.withDefaults()}
}

// Decide evaluates a navigation attempt from current to target. The current
// path is part of the contract but does not influence the outcome.
func (g *Guard) Decide(ctx context.Context, target, current string) Decision {
	loggedIn := g.session.CheckLoginStatus(ctx)

	if loggedIn && target == g.cfg.LoginPath {
		return Decision{Action: RedirectLanding, Location: g.cfg.LandingPath}
	}
	if !loggedIn && !g.allowed(target) {
		return Decision{Action: RedirectLogin, Location: g.cfg.LoginPath}
	}

	route, ok := g.table.Lookup(target)
	if !ok || route.RequiredPermission == "" {
		return Decision{Action: Allow}
	}
	if !g.cfg.StrictPermissions {
		return Decision{Action: Allow}
	}
	if !loggedIn {
		// Unreachable through the allow-list branch unless an allow-listed
		// route carries a permission; deny rather than evaluate.
		return Decision{Action: RedirectLogin, Location: g.cfg.LoginPath}
	}
	if !g.session.HasPermission(route.RequiredPermission) {
		g.logger.Info("navigation denied",
			slog.String("path", target),
			slog.String("permission", route.RequiredPermission))
		return Decision{Action: RedirectLanding, Location: g.cfg.DeniedPath}
	}
	return Decision{Action: Allow}
}

func (g *Guard) allowed(path string) bool {
	for _, p := range g.cfg.AllowList {
		if p == path {
			return true
		}
	}
	return false
}

// Middleware applies Decide to every request, redirecting when navigation is
// not allowed. The referer stands in for the current route.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := ""
		if ref, err := url.Parse(r.Referer()); err == nil {
			current = ref.Path
		}
		decision := g.Decide(r.Context(), r.URL.Path, current)
		if decision.Action != Allow {
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates an API subtree on a session permission: 401 when
// logged out, 403 when the permission is missing. In lenient mode only the
// login check applies.
func (g *Guard) RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.session.CheckLoginStatus(r.Context()) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if g.cfg.StrictPermissions && !g.session.HasPermission(perm) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultRoutes mirrors the admin SPA navigation tree.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/login", Title: "Login"},
		{Path: "/", Title: "Home"},
		{
			Path:  "/admin",
			Title: "Admin",
			Children: []Route{
				{Path: "dashboard", Title: "Dashboard"},
				{
					Path:               "system",
					Title:              "System Management",
					RequiredPermission: permission.SystemAccess,
					Children: []Route{
						{Path: "user-management", Title: "User Management", RequiredPermission: permission.SystemUserManage},
						{Path: "system-log", Title: "System Log", RequiredPermission: permission.SystemLogView},
						{Path: "system-settings", Title: "System Settings", RequiredPermission: permission.SystemSettingsManage},
						{Path: "role-management", Title: "Role Management", RequiredPermission: permission.SystemRoleManage},
					},
				},
				{
					Path:               "novel",
					Title:              "Novel Management",
					RequiredPermission: permission.NovelAccess,
					Children: []Route{
						{Path: "novel-list", Title: "Novel List", RequiredPermission: permission.NovelListView},
						{Path: "comment-management", Title: "Comment Management", RequiredPermission: permission.NovelCommentManage},
						{Path: "data-statistics", Title: "Data Statistics", RequiredPermission: permission.NovelStatisticsView},
					},
				},
				{
					Path:  "user",
					Title: "Personal Center",
					Children: []Route{
						{Path: "user-info", Title: "Profile"},
						{Path: "private-messages", Title: "Messages"},
						{Path: "view-history", Title: "History"},
					},
				},
			},
		},
	}
}
