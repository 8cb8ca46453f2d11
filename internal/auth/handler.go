// Package auth exposes the session store over HTTP: login, logout,
// registration, the profile endpoint, and the permission-filtered
// navigation menu.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/novelpress/novelpress/internal/directive"
	"github.com/novelpress/novelpress/internal/guard"
	"github.com/novelpress/novelpress/internal/platform/httpx"
	"github.com/novelpress/novelpress/internal/session"
)

// Handler serves the /auth subtree plus the session and nav endpoints.
type Handler struct {
	logger    *slog.Logger
	store     *session.Store
	table     *guard.Table
	navBase   string
	validator *validator.Validate
}

// NewHandler constructs a handler. navBase names the route whose children
// become the navigation menu, normally the landing path.
func NewHandler(logger *slog.Logger, store *session.Store, table *guard.Table, navBase string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, store: store, table: table, navBase: navBase, validator: validator.New()}
}

// MountRoutes attaches the auth routes under the caller's router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
	r.Get("/user-info", h.userInfo)
}

type loginRequest struct {
	Method   string `json:"method" validate:"omitempty,oneof=email phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Code     string `json:"code"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// sessionView mirrors the persisted snapshot shape plus transient state.
type sessionView struct {
	Authenticated bool             `json:"authenticated"`
	Token         string           `json:"token,omitempty"`
	User          *session.Profile `json:"userInfo,omitempty"`
	Loading       bool             `json:"loading"`
	LastError     *errorView       `json:"lastError,omitempty"`
}

type errorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}

	method := session.Method(req.Method)
	if method == "" {
		method = session.MethodEmail
	}
	creds := session.Credentials{Email: req.Email, Password: req.Password, Phone: req.Phone, Code: req.Code}
	switch method {
	case session.MethodEmail:
		if creds.Email == "" || creds.Password == "" {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "email and password are required")
			return
		}
	case session.MethodPhone:
		if creds.Phone == "" || creds.Code == "" {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "phone and code are required")
			return
		}
	}

	if err := h.store.Login(r.Context(), method, creds); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.view())
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err := h.store.Register(r.Context(), session.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(r.Context())
	httpx.NoContent(w)
}

func (h *Handler) userInfo(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.RefreshUser(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

// SessionState reports the current session, refreshing the profile in the
// background when a token is present.
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	h.store.CheckLoginStatus(r.Context())
	httpx.JSON(w, http.StatusOK, h.view())
}

// Navigation returns the menu tree visible to the current session. Logged
// out callers get 401 rather than an empty tree.
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	if !h.store.IsAuthenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	base, ok := h.table.Lookup(h.navBase)
	if !ok {
		h.logger.Error("navigation base route missing", slog.String("path", h.navBase))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "navigation unavailable")
		return
	}
	menu := directive.Menu(h.navBase, base.Children, h.store)
	if menu == nil {
		menu = []directive.MenuItem{}
	}
	httpx.JSON(w, http.StatusOK, menu)
}

func (h *Handler) view() sessionView {
	v := sessionView{
		Authenticated: h.store.IsAuthenticated(),
		Token:         h.store.Token(),
		User:          h.store.User(),
		Loading:       h.store.IsLoading(),
	}
	if lastErr := h.store.LastError(); lastErr != nil {
		v.LastError = &errorView{Kind: string(lastErr.Kind), Message: lastErr.Message}
	}
	return v
}
