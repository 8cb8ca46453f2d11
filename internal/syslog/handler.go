package syslog

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/novelpress/novelpress/internal/permission"
	"github.com/novelpress/novelpress/internal/platform/httpx"
)

// DefaultRetention is the purge window when the caller does not supply one.
const DefaultRetention = 90 * 24 * time.Hour

// Handler exposes the system log over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authorize func(perm string) func(http.Handler) http.Handler
}

// NewHandler constructs a handler.
func NewHandler(logger *slog.Logger, service *Service, authorize func(perm string) func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authorize: authorize}
}

// MountRoutes attaches the log routes under the caller's router. Every
// route sits behind the log-view permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.authorize != nil {
			r.Use(h.authorize(permission.SystemLogView))
		}
		r.Get("/", h.list)
		r.Delete("/", h.purge)
	})
}

type listResponse struct {
	List       []Entry `json:"list"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	entries, paging, err := h.service.List(r.Context(), ListFilter{
		Page:     page,
		PageSize: pageSize,
		Event:    q.Get("event"),
		Actor:    q.Get("actor"),
	})
	if err != nil {
		h.logger.Error("list system logs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "could not list system logs")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		List:       entries,
		Total:      paging.Total,
		Page:       paging.Page,
		PageSize:   paging.PageSize,
		TotalPages: paging.TotalPages,
	})
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	retention := DefaultRetention
	if raw := r.URL.Query().Get("olderThanDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "olderThanDays must be a positive integer")
			return
		}
		retention = time.Duration(days) * 24 * time.Hour
	}
	purged, err := h.service.Purge(r.Context(), retention)
	if err != nil {
		h.logger.Error("purge system logs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "could not purge system logs")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"purged": purged})
}
