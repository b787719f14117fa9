package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/smartstock/smartstock/internal/jobs"
)

// TaskLowStockDigest mails the list of items below their reorder threshold.
const TaskLowStockDigest = "report:low-stock"

// LowStockItem is a single row of the digest.
type LowStockItem struct {
	Code         string
	Description  string
	ReorderLevel string
}

// LowStockSource lists items currently flagged as low stock.
type LowStockSource interface {
	LowStockItems(ctx context.Context) ([]LowStockItem, error)
}

// NewLowStockDigestTask builds the digest task.
func NewLowStockDigestTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockDigest, nil, asynq.MaxRetry(1))
}

// LowStockDigestHandler processes TaskLowStockDigest.
type LowStockDigestHandler struct {
	Source    LowStockSource
	Mailer    Mailer
	Recipient string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// ProcessTask implements asynq.Handler.
func (h LowStockDigestHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	tracker := h.Metrics.Track(TaskLowStockDigest)
	if h.Recipient == "" {
		return tracker.End(nil)
	}
	items, err := h.Source.LowStockItems(ctx)
	if err != nil {
		return tracker.End(fmt.Errorf("jobs: load low stock: %w", err))
	}
	h.Metrics.SetLowStock(len(items))
	if len(items) == 0 {
		return tracker.End(nil)
	}
	if err := h.Mailer.Send(ctx, h.Recipient, fmt.Sprintf("SmartStock: %d items low on stock", len(items)), digestBody(items)); err != nil {
		return tracker.End(err)
	}
	if h.Logger != nil {
		h.Logger.Info("low stock digest sent", slog.Int("items", len(items)))
	}
	return tracker.End(nil)
}

func digestBody(items []LowStockItem) string {
	var b strings.Builder
	b.WriteString("The following items are below their reorder threshold:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s\t%s\treorder level %s\n", it.Code, it.Description, it.ReorderLevel)
	}
	return b.String()
}
