// Package export renders analytics reports as downloadable files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/analytics"
)

// WriteItemReportCSV serialises the item stock report.
func WriteItemReportCSV(w io.Writer, rows []analytics.ItemSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Code", "Name", "Category", "Stock", "Min Stock", "Max Stock", "Value", "Status"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Code,
			row.Name,
			row.Category,
			row.Stock.String(),
			strconv.Itoa(row.MinStock),
			strconv.Itoa(row.MaxStock),
			formatAmount(row.Value),
			row.Status,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSupplierReportCSV serialises purchase totals per supplier.
func WriteSupplierReportCSV(w io.Writer, rows []analytics.SupplierSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Code", "Name", "Orders", "Total Purchases", "Status"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Code,
			row.Name,
			strconv.Itoa(row.Orders),
			formatAmount(row.TotalPurchases),
			row.Status,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTransactionsCSV prints the combined document feed.
func WriteTransactionsCSV(w io.Writer, rows []analytics.Transaction) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Type", "Document", "Date", "Party", "Amount", "Status"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Type,
			row.DocNo,
			row.Date.Format(time.DateOnly),
			row.Party,
			formatAmount(row.Amount),
			row.Status,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}
