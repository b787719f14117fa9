package departments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/platform/httpx"
	"github.com/smartstock/smartstock/internal/rbac"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireAuth)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.With(h.rbac.RequireRole(rbac.RoleManager, rbac.RoleAdmin)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	departments, total, err := h.service.List(r.Context(), shared.FiltersFromRequest(r))
	if err != nil {
		h.fail(w, "list departments failed", err)
		return
	}
	if departments == nil {
		departments = []Department{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "departments": departments, "total": total})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dept Department
	if err := httpx.DecodeJSON(r, &dept); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), dept)
	if err != nil {
		h.fail(w, "create department failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "department": created})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dept Department
	if err := httpx.DecodeJSON(r, &dept); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), parseID(r), dept)
	if err != nil {
		h.fail(w, "update department failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "department": updated})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), parseID(r)); err != nil {
		h.fail(w, "delete department failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Department deleted successfully"})
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(msg, "error", err)
	}
	httpx.RespondError(w, err)
}

// parseID returns 0 for malformed ids, which the service rejects.
func parseID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
