// Package analytichttp serves dashboard figures and stock reports.
package analytichttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/smartstock/smartstock/internal/analytics"
	"github.com/smartstock/smartstock/internal/analytics/export"
	"github.com/smartstock/smartstock/internal/platform/httpx"
	"github.com/smartstock/smartstock/internal/rbac"
)

const requestTimeout = 5 * time.Second

// ReportService is the data contract used by the handler.
type ReportService interface {
	Dashboard(ctx context.Context) (analytics.Dashboard, error)
	Transactions(ctx context.Context) ([]analytics.Transaction, error)
	SupplierReport(ctx context.Context) ([]analytics.SupplierSummary, error)
	ItemReport(ctx context.Context) ([]analytics.ItemSummary, error)
	Report(ctx context.Context) (analytics.ReportSummary, error)
}

// Handler coordinates HTTP requests for dashboards and reports.
type Handler struct {
	logger  *slog.Logger
	service ReportService
	rbac    rbac.Middleware
	csvPool sync.Pool
	now     func() time.Time
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService, guard rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, service: service, rbac: guard, now: time.Now}
	h.csvPool.New = func() any { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	data, err := h.service.Dashboard(ctx)
	if err != nil {
		h.fail(w, "load dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.Transactions(ctx)
	if err != nil {
		h.fail(w, "load transactions", err)
		return
	}
	if rows == nil {
		rows = []analytics.Transaction{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "transactions": rows})
}

func (h *Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.SupplierReport(ctx)
	if err != nil {
		h.fail(w, "load supplier report", err)
		return
	}
	if rows == nil {
		rows = []analytics.SupplierSummary{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "suppliers": rows})
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.ItemReport(ctx)
	if err != nil {
		h.fail(w, "load item report", err)
		return
	}
	if rows == nil {
		rows = []analytics.ItemSummary{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "items": rows})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	report, err := h.service.Report(ctx)
	if err != nil {
		h.fail(w, "load report", err)
		return
	}
	if report.Transactions == nil {
		report.Transactions = []analytics.Transaction{}
	}
	if report.Suppliers == nil {
		report.Suppliers = []analytics.SupplierSummary{}
	}
	if report.Items == nil {
		report.Items = []analytics.ItemSummary{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "report": report})
}

func (h *Handler) handleItemsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.ItemReport(ctx)
	if err != nil {
		h.fail(w, "load item report", err)
		return
	}
	h.writeCSV(w, "items", func(buf io.Writer) error { return export.WriteItemReportCSV(buf, rows) })
}

func (h *Handler) handleSuppliersCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.SupplierReport(ctx)
	if err != nil {
		h.fail(w, "load supplier report", err)
		return
	}
	h.writeCSV(w, "suppliers", func(buf io.Writer) error { return export.WriteSupplierReportCSV(buf, rows) })
}

func (h *Handler) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	rows, err := h.service.Transactions(ctx)
	if err != nil {
		h.fail(w, "load transactions", err)
		return
	}
	h.writeCSV(w, "transactions", func(buf io.Writer) error { return export.WriteTransactionsCSV(buf, rows) })
}

func (h *Handler) writeCSV(w http.ResponseWriter, name string, write func(io.Writer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := write(buf); err != nil {
		h.fail(w, "write "+name+" csv", err)
		return
	}
	filename := fmt.Sprintf("smartstock-%s-%s.csv", name, h.now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
