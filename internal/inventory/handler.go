// Package inventory serves issue notes, the documents that move stock out to
// departments.
package inventory

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/rbac"
)

// Handler exposes issue note endpoints.
type Handler struct {
	logger  *slog.Logger
	service *documents.Service
	rbac    rbac.Middleware
}

// NewHandler constructs the inventory HTTP handler.
func NewHandler(logger *slog.Logger, service *documents.Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers issue note routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Mount("/issue-notes", documents.NewResource(h.logger, h.service, documents.KindIssueNote, h.rbac).Routes())
}
