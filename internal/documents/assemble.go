package documents

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/shared"
)

// Assembler turns validated input into a Document ready for persistence.
// With Strict set, malformed or negative numbers are rejected instead of
// being treated as zero.
type Assembler struct {
	Strict bool
	Now    func() time.Time
}

// AssembleDocument validates the header and lines of kind, computes line
// amounts and totals and assigns a number from prior when header.Number is
// empty. The result has no ID or timestamps.
func (a Assembler) AssembleDocument(kind Kind, header Header, items []LineItemInput, discount shared.Numeric, prior *Document) (Document, error) {
	doc, err := a.Prepare(kind, header, items, discount)
	if err != nil {
		return Document{}, err
	}
	if doc.Number == "" {
		next, err := NextSequenceNumber(kind.Series(), prior)
		if err != nil {
			return Document{}, err
		}
		doc.Number = next
	}
	return doc, nil
}

// Prepare validates and prices a document but leaves an absent number empty.
func (a Assembler) Prepare(kind Kind, header Header, items []LineItemInput, discount shared.Numeric) (Document, error) {
	if !kind.Valid() {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	header = normaliseHeader(kind, header)
	items = effectiveLines(kind, header, items)

	verr := &ValidationError{}
	validateHeader(verr, kind, header)
	if suffix, ok := seriesSuffix(kind.Series(), header.Number); ok && len(suffix) > MaxSuffixDigits {
		verr.add("number", fmt.Sprintf("numeric suffix must not exceed %d digits", MaxSuffixDigits))
	}
	if len(items) == 0 {
		verr.add("items", "at least one line is required")
	}
	for i, it := range items {
		if strings.TrimSpace(it.Code) == "" && strings.TrimSpace(it.Description) == "" {
			verr.add(fmt.Sprintf("items[%d]", i), "code or description is required")
		}
	}

	var (
		lines LineTotals
		disc  decimal.Decimal
	)
	if a.Strict {
		var err error
		lines, err = ComputeLineTotalsStrict(items)
		var ve *ValidationError
		if errors.As(err, &ve) {
			for k, v := range ve.Fields() {
				verr.add(k, v)
			}
		}
		disc = strictNonNegative(verr, "discount", discount.Strict)
	} else {
		lines = ComputeLineTotals(items)
		disc = discount.Decimal()
	}
	if err := verr.orNil(); err != nil {
		return Document{}, err
	}

	date := a.now()
	if header.Date != nil && !header.Date.IsZero() {
		date = *header.Date
	}

	return Document{
		Kind:    kind,
		Number:  header.Number,
		Date:    date,
		Details: header.Details,
		Items:   lines.Items,
		Totals:  ComputeTaxTotals(lines.Subtotal, disc),
	}, nil
}

func (a Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func normaliseHeader(kind Kind, h Header) Header {
	h.Number = strings.TrimSpace(h.Number)
	h.Supplier.Code = strings.TrimSpace(h.Supplier.Code)
	h.Supplier.Name = strings.TrimSpace(h.Supplier.Name)
	if kind == KindGRN {
		h.PurchaseType = strings.ToLower(strings.TrimSpace(h.PurchaseType))
		if h.PurchaseType == "" {
			h.PurchaseType = PurchaseLocal
		}
	}
	return h
}

// effectiveLines folds the single-item header fields of an issue note into a line.
func effectiveLines(kind Kind, h Header, items []LineItemInput) []LineItemInput {
	if kind != KindIssueNote || len(items) > 0 {
		return items
	}
	if strings.TrimSpace(h.Code) == "" && strings.TrimSpace(h.Item) == "" {
		return items
	}
	qty := h.Qty
	if strings.TrimSpace(string(qty)) == "" {
		qty = "1"
	}
	return []LineItemInput{{Code: h.Code, Description: h.Item, Quantity: qty}}
}

func validateHeader(verr *ValidationError, kind Kind, h Header) {
	switch kind {
	case KindPurchaseOrder:
		if h.Supplier.Code == "" && h.Supplier.Name == "" {
			verr.add("supplier", "supplier code or name is required")
		}
	case KindGRN:
		if h.Supplier.Name == "" {
			verr.add("supplier.name", "is required")
		}
		if strings.TrimSpace(h.ReceivedBy) == "" {
			verr.add("receivedBy", "is required")
		}
		if h.PurchaseType != PurchaseLocal && h.PurchaseType != PurchaseImport {
			verr.add("purchaseType", "must be local or import")
		}
	case KindIssueNote:
		if strings.TrimSpace(h.Department) == "" {
			verr.add("department", "is required")
		}
		if strings.TrimSpace(h.PersonName) == "" {
			verr.add("personName", "is required")
		}
	}
}
