package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/novelpress/novelpress/internal/auth"
	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/platform/httpx"
	"github.com/novelpress/novelpress/internal/syslog"
	"github.com/novelpress/novelpress/internal/usermgmt"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	AuthHandler   *auth.Handler
	UsersHandler  *usermgmt.Handler
	SyslogHandler *syslog.Handler
	Guard         *guard.Guard
	Table         *guard.Table
}

// NewRouter constructs the chi.Router with NovelPress defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(ar chi.Router) {
		ar.Use(LoginRateLimit())
		params.AuthHandler.MountRoutes(ar)
	})
	r.Get("/session", params.AuthHandler.SessionState)
	r.Get("/nav", params.AuthHandler.Navigation)

	r.Route("/system/users", params.UsersHandler.MountRoutes)
	r.Route("/system/logs", params.SyslogHandler.MountRoutes)

	// Page routes mirror the admin UI. The guard redirects instead of
	// failing, so a browser lands where the UI would send it.
	pages := pageHandler(params.Table)
	r.Group(func(pr chi.Router) {
		pr.Use(params.Guard.Middleware)
		pr.Get("/", pages)
		pr.Get("/login", pages)
		pr.Get("/admin", pages)
		pr.Get("/admin/*", pages)
	})

	return r
}

// pageHandler answers page navigations with the route's metadata. The SPA
// renders the page itself; this surface exists so guard decisions are
// observable per path.
func pageHandler(table *guard.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, ok := table.Lookup(r.URL.Path)
		if !ok {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown page")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{
			"path":  r.URL.Path,
			"title": route.Title,
		})
	}
}
