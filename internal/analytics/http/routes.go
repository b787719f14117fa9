package analytichttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/smartstock/smartstock/internal/shared"
)

// MountRoutes registers dashboard and report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(gr chi.Router) {
		gr.Use(h.rbac.RequireAuth)
		gr.Get("/dashboard", h.handleDashboard)
		gr.Get("/transactions", h.handleTransactions)
		gr.Get("/report-suppliers", h.handleSuppliers)
		gr.Get("/report-items", h.handleItems)
		gr.Get("/report", h.handleReport)
		gr.Group(func(ex chi.Router) {
			ex.Use(limiter)
			ex.Get("/transactions.csv", h.handleTransactionsCSV)
			ex.Get("/report-suppliers.csv", h.handleSuppliersCSV)
			ex.Get("/report-items.csv", h.handleItemsCSV)
		})
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
