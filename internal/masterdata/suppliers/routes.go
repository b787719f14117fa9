package suppliers

import (
	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireAuth)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{code}", h.Show)
	r.Put("/{code}", h.Update)
	r.With(h.rbac.RequireRole(rbac.RoleManager, rbac.RoleAdmin)).Delete("/{code}", h.Delete)
}
