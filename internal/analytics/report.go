// Package analytics aggregates stock and document data into dashboard and
// report figures. Every call re-scans the underlying collections.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/shared"
)

// Defaults for ReportOptions.
const (
	DefaultLowStockThreshold = 10
	DefaultMinStock          = 10
	DefaultMaxStock          = 100
)

// Transaction types and statuses.
const (
	TypePurchaseOrder = "Purchase Order"
	TypeGRN           = "GRN"
	TypeIssueNote     = "Issue Note"

	StatusCompleted = "Completed"
	StatusReceived  = "Received"
	StatusIssued    = "Issued"

	StockLow    = "Low Stock"
	StockNormal = "Normal"

	uncategorized = "Uncategorized"
)

// ItemRecord is the subset of an item the reports read. Prices and reorder
// levels are free text.
type ItemRecord struct {
	ID          int64
	Code        string
	Description string
	Category    string
	UnitPrice   string
	ReOrder     string
}

// SupplierRecord identifies a supplier.
type SupplierRecord struct {
	ID   int64
	Code string
	Name string
}

// ReportInput is a snapshot of every collection the reports read.
type ReportInput struct {
	Items          []ItemRecord
	Suppliers      []SupplierRecord
	Departments    int
	PurchaseOrders []documents.Document
	GRNs           []documents.Document
	IssueNotes     []documents.Document
}

// ReportOptions tunes the item report.
type ReportOptions struct {
	LowStockThreshold decimal.Decimal
	MinStock          int
	MaxStock          int
}

// DefaultReportOptions returns the stock bands used when none are configured.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		LowStockThreshold: decimal.NewFromInt(DefaultLowStockThreshold),
		MinStock:          DefaultMinStock,
		MaxStock:          DefaultMaxStock,
	}
}

// Dashboard holds headline counts.
type Dashboard struct {
	TotalItems       int             `json:"totalItems"`
	TotalDepartments int             `json:"totalDepartments"`
	PurchaseOrders   int             `json:"purchaseOrders"`
	GRNs             int             `json:"grns"`
	IssueNotes       int             `json:"issueNotes"`
	TotalStockValue  decimal.Decimal `json:"totalStockValue"`
}

// Transaction is one document in the combined feed.
type Transaction struct {
	ID     int64           `json:"id"`
	Type   string          `json:"type"`
	DocNo  string          `json:"docNo"`
	Date   time.Time       `json:"date"`
	Party  string          `json:"party"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

// SupplierSummary totals the purchase orders placed with a supplier.
type SupplierSummary struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Orders         int             `json:"orders"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	Status         string          `json:"status"`
}

// ItemSummary reports the stock band of one item.
type ItemSummary struct {
	ID       int64           `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Stock    decimal.Decimal `json:"stock"`
	MinStock int             `json:"minStock"`
	MaxStock int             `json:"maxStock"`
	Value    decimal.Decimal `json:"value"`
	Status   string          `json:"status"`
}

// ReportSummary bundles every report.
type ReportSummary struct {
	Dashboard    Dashboard         `json:"dashboard"`
	Transactions []Transaction     `json:"transactions"`
	Suppliers    []SupplierSummary `json:"suppliers"`
	Items        []ItemSummary     `json:"items"`
}

// AggregateReport computes all report figures from in.
func AggregateReport(in ReportInput, opts ReportOptions) ReportSummary {
	return ReportSummary{
		Dashboard:    DashboardOf(in),
		Transactions: Transactions(in),
		Suppliers:    SupplierSummaries(in.Suppliers, in.PurchaseOrders),
		Items:        ItemSummaries(in.Items, opts),
	}
}

// DashboardOf counts documents and sums unit prices. Unparsable prices count as zero.
func DashboardOf(in ReportInput) Dashboard {
	return Dashboard{
		TotalItems:       len(in.Items),
		TotalDepartments: in.Departments,
		PurchaseOrders:   len(in.PurchaseOrders),
		GRNs:             len(in.GRNs),
		IssueNotes:       len(in.IssueNotes),
		TotalStockValue:  TotalStockValue(in.Items),
	}
}

// TotalStockValue sums the unit price of every item.
func TotalStockValue(items []ItemRecord) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(shared.ParseDecimal(it.UnitPrice))
	}
	return total
}

// Transactions merges all documents into one feed, newest first.
func Transactions(in ReportInput) []Transaction {
	out := make([]Transaction, 0, len(in.PurchaseOrders)+len(in.GRNs)+len(in.IssueNotes))
	for _, d := range in.PurchaseOrders {
		out = append(out, Transaction{ID: d.ID, Type: TypePurchaseOrder, DocNo: d.Number, Date: d.Date,
			Party: supplierLabel(d.Supplier), Amount: d.Totals.NetTotal, Status: StatusCompleted})
	}
	for _, d := range in.GRNs {
		out = append(out, Transaction{ID: d.ID, Type: TypeGRN, DocNo: d.Number, Date: d.Date,
			Party: supplierLabel(d.Supplier), Amount: d.Totals.NetTotal, Status: StatusReceived})
	}
	for _, d := range in.IssueNotes {
		party := d.Department
		if party == "" {
			party = "N/A"
		}
		out = append(out, Transaction{ID: d.ID, Type: TypeIssueNote, DocNo: d.Number, Date: d.Date,
			Party: party, Amount: d.Totals.Subtotal, Status: StatusIssued})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func supplierLabel(s documents.Supplier) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Code != "":
		return s.Code
	default:
		return "Unknown Supplier"
	}
}

// SupplierSummaries attributes each purchase order to the supplier whose code
// matches, or failing that whose name matches ignoring case.
func SupplierSummaries(suppliers []SupplierRecord, orders []documents.Document) []SupplierSummary {
	fold := cases.Fold()
	key := func(s string) string { return fold.String(strings.TrimSpace(s)) }

	byCode := make(map[string]int, len(suppliers))
	byName := make(map[string]int, len(suppliers))
	out := make([]SupplierSummary, len(suppliers))
	for i, s := range suppliers {
		out[i] = SupplierSummary{ID: s.ID, Code: s.Code, Name: s.Name, TotalPurchases: decimal.Zero, Status: "Active"}
		if c := strings.TrimSpace(s.Code); c != "" {
			if _, dup := byCode[c]; !dup {
				byCode[c] = i
			}
		}
		if n := key(s.Name); n != "" {
			if _, dup := byName[n]; !dup {
				byName[n] = i
			}
		}
	}

	for _, po := range orders {
		idx, ok := byCode[strings.TrimSpace(po.Supplier.Code)]
		if !ok {
			idx, ok = byName[key(po.Supplier.Name)]
		}
		if !ok {
			continue
		}
		out[idx].Orders++
		out[idx].TotalPurchases = out[idx].TotalPurchases.Add(po.Totals.NetTotal)
	}
	return out
}

// ItemSummaries marks items whose reorder level is below the threshold as low stock.
func ItemSummaries(items []ItemRecord, opts ReportOptions) []ItemSummary {
	out := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		name := it.Description
		if name == "" {
			name = it.Code
		}
		category := it.Category
		if category == "" {
			category = uncategorized
		}
		stock := shared.ParseDecimal(it.ReOrder)
		status := StockNormal
		if stock.LessThan(opts.LowStockThreshold) {
			status = StockLow
		}
		out = append(out, ItemSummary{
			ID:       it.ID,
			Code:     it.Code,
			Name:     name,
			Category: category,
			Stock:    stock,
			MinStock: opts.MinStock,
			MaxStock: opts.MaxStock,
			Value:    shared.ParseDecimal(it.UnitPrice),
			Status:   status,
		})
	}
	return out
}
