package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/analytics"
)

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteItemReportCSV(t *testing.T) {
	rows := []analytics.ItemSummary{{
		Code: "A1", Name: "Bolt, M8", Category: "Hardware",
		Stock: decimal.NewFromInt(5), MinStock: 10, MaxStock: 100,
		Value: decimal.RequireFromString("12.5"), Status: analytics.StockLow,
	}}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteItemReportCSV(buf, rows))

	records := readCSV(t, buf)
	require.Len(t, records, 2)
	require.Equal(t, []string{"A1", "Bolt, M8", "Hardware", "5", "10", "100", "12.50", "Low Stock"}, records[1])
}

func TestWriteSupplierReportCSV(t *testing.T) {
	rows := []analytics.SupplierSummary{{Code: "S1", Name: "Acme", Orders: 2, TotalPurchases: decimal.NewFromInt(90), Status: "Active"}}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteSupplierReportCSV(buf, rows))

	records := readCSV(t, buf)
	require.Equal(t, []string{"Code", "Name", "Orders", "Total Purchases", "Status"}, records[0])
	require.Equal(t, []string{"S1", "Acme", "2", "90.00", "Active"}, records[1])
}

func TestWriteTransactionsCSVEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTransactionsCSV(buf, nil))
	require.Len(t, readCSV(t, buf), 1)

	buf.Reset()
	rows := []analytics.Transaction{{Type: analytics.TypeGRN, DocNo: "GRN-001", Date: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), Party: "Acme", Amount: decimal.NewFromInt(35), Status: analytics.StatusReceived}}
	require.NoError(t, WriteTransactionsCSV(buf, rows))
	require.Equal(t, []string{"GRN", "GRN-001", "2025-03-01", "Acme", "35.00", "Received"}, readCSV(t, buf)[1])
}
