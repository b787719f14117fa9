// Package documents assembles, numbers and stores purchase orders, goods
// received notes and issue notes together with their derived totals.
package documents

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/shared"
)

// Kind identifies a document series.
type Kind string

const (
	// KindPurchaseOrder is a purchase order issued to a supplier.
	KindPurchaseOrder Kind = "PURCHASE_ORDER"
	// KindGRN is a goods received note.
	KindGRN Kind = "GRN"
	// KindIssueNote records stock issued to a department.
	KindIssueNote Kind = "ISSUE_NOTE"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindPurchaseOrder, KindGRN, KindIssueNote}

// Series returns the number prefix of the kind.
func (k Kind) Series() string {
	switch k {
	case KindPurchaseOrder:
		return "PO"
	case KindGRN:
		return "GRN"
	case KindIssueNote:
		return "IN"
	}
	return ""
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.Series() != ""
}

// Purchase types accepted on GRNs.
const (
	PurchaseLocal  = "local"
	PurchaseImport = "import"
)

// LineItemInput is a line as submitted by a client. Amounts are never read
// from input; they are always derived.
type LineItemInput struct {
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Quantity    shared.Numeric `json:"quantity"`
	Unit        string         `json:"unit"`
	UnitPrice   shared.Numeric `json:"unitPrice"`
}

// LineItem is a priced line with its derived amount.
type LineItem struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineTotals is the result of aggregating a list of lines.
type LineTotals struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Totals are the financial figures derived from subtotal and discount.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Balance  decimal.Decimal `json:"balance"`
	VATRate  decimal.Decimal `json:"vatRate"`
	NBTRate  decimal.Decimal `json:"nbtRate"`
	VAT      decimal.Decimal `json:"vat"`
	NBT      decimal.Decimal `json:"nbt"`
	NetTotal decimal.Decimal `json:"netTotal"`
}

// Supplier references the party goods are bought from.
type Supplier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Details are the descriptive header fields stored with a document.
type Details struct {
	Supplier     Supplier `json:"supplier"`
	Remarks      string   `json:"remarks,omitempty"`
	ReceivedBy   string   `json:"receivedBy,omitempty"`
	InvoiceNo    string   `json:"invoiceNo,omitempty"`
	ShipmentNo   string   `json:"shipmentNo,omitempty"`
	ContainerNo  string   `json:"containerNo,omitempty"`
	PurchaseType string   `json:"purchaseType,omitempty"`
	Department   string   `json:"department,omitempty"`
	PersonName   string   `json:"personName,omitempty"`
	Event        string   `json:"event,omitempty"`
}

// Header is the caller supplied header of a document.
type Header struct {
	Number string     `json:"number"`
	Date   *time.Time `json:"date"`
	Details

	// Single-item issue notes carry their line in the header.
	Code string         `json:"code"`
	Item string         `json:"item"`
	Qty  shared.Numeric `json:"qty"`
}

// Input bundles everything needed to create or update a document.
type Input struct {
	Header   Header          `json:"header"`
	Items    []LineItemInput `json:"items"`
	Discount shared.Numeric  `json:"discount"`
	ActorID  int64           `json:"-"`
}

// Document is an assembled document.
type Document struct {
	ID     int64     `json:"id"`
	Kind   Kind      `json:"kind"`
	Number string    `json:"number"`
	Date   time.Time `json:"date"`
	Details
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ListFilter narrows document listings. A zero Limit returns every match.
type ListFilter struct {
	Supplier string
	Search   string
	Limit    int
	Offset   int
}
