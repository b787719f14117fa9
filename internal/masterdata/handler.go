// Package masterdata mounts the reference data endpoints: items, categories,
// suppliers and departments.
package masterdata

import (
	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/masterdata/categories"
	"github.com/smartstock/smartstock/internal/masterdata/departments"
	"github.com/smartstock/smartstock/internal/masterdata/items"
	"github.com/smartstock/smartstock/internal/masterdata/suppliers"
	"github.com/smartstock/smartstock/internal/rbac"
)

// Handler manages master data endpoints.
type Handler struct {
	Items       *items.Handler
	Categories  *categories.Handler
	Suppliers   *suppliers.Handler
	Departments *departments.Handler
	RBAC        rbac.Middleware
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/items", h.Items.MountRoutes)
	r.With(h.RBAC.RequireAuth).Post("/upload-item", h.Items.Create)
	r.Route("/categories", h.Categories.MountRoutes)
	r.Route("/suppliers", h.Suppliers.MountRoutes)
	r.Route("/departments", h.Departments.MountRoutes)
}
