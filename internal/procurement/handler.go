// Package procurement serves purchase orders and goods received notes.
package procurement

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/platform/httpx"
	"github.com/smartstock/smartstock/internal/rbac"
	"github.com/smartstock/smartstock/internal/shared"
)

// Handler manages procurement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *documents.Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *documents.Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Mount("/purchase-orders", documents.NewResource(h.logger, h.service, documents.KindPurchaseOrder, h.rbac).Routes())
	r.Mount("/grns", documents.NewResource(h.logger, h.service, documents.KindGRN, h.rbac).Routes())
	r.With(h.rbac.RequireAuth).Post("/documents/preview", h.preview)
}

type previewRequest struct {
	Kind     documents.Kind            `json:"kind"`
	Header   documents.Header          `json:"header"`
	Items    []documents.LineItemInput `json:"items"`
	Discount shared.Numeric            `json:"discount"`
}

// preview prices a draft of any document kind without storing it.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.service.Preview(req.Kind, documents.Input{Header: req.Header, Items: req.Items, Discount: req.Discount})
	if err != nil {
		if !httpx.IsClientError(err) {
			h.logger.Error("preview document", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}
