package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func testAssembler() Assembler {
	return Assembler{Now: func() time.Time { return fixedNow }}
}

func grnHeader() Header {
	return Header{Details: Details{Supplier: Supplier{Name: "Acme"}, ReceivedBy: "Nimal"}}
}

func TestAssembleGRNAssignsNumberAndTotals(t *testing.T) {
	doc, err := testAssembler().AssembleDocument(KindGRN, grnHeader(), []LineItemInput{
		{Code: "A", Quantity: "2", UnitPrice: "500"},
	}, "100", &Document{Number: "GRN-007"})
	require.NoError(t, err)
	assert.Equal(t, "GRN-008", doc.Number)
	assert.Equal(t, KindGRN, doc.Kind)
	assert.Equal(t, fixedNow, doc.Date)
	assert.Equal(t, PurchaseLocal, doc.PurchaseType)
	assertDecimal(t, "1000", doc.Totals.Subtotal)
	assertDecimal(t, "1053", doc.Totals.NetTotal)
}

func TestAssembleKeepsCallerNumberAndDate(t *testing.T) {
	h := grnHeader()
	h.Number = " GRN-500 "
	date := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	h.Date = &date
	doc, err := testAssembler().AssembleDocument(KindGRN, h, []LineItemInput{{Description: "bolts"}}, "", &Document{Number: "garbage"})
	require.NoError(t, err)
	assert.Equal(t, "GRN-500", doc.Number)
	assert.Equal(t, date, doc.Date)
}

func TestAssembleRejectsOversizedSeriesNumber(t *testing.T) {
	h := grnHeader()
	h.Number = "GRN-1000000000000000000"
	_, err := testAssembler().AssembleDocument(KindGRN, h, []LineItemInput{{Description: "bolts"}}, "", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "number")

	h.Number = "GRN-INV-1000000000000000000"
	_, err = testAssembler().AssembleDocument(KindGRN, h, []LineItemInput{{Description: "bolts"}}, "", nil)
	require.NoError(t, err)
}

func TestAssembleRejectsEmptyLines(t *testing.T) {
	for _, kind := range []Kind{KindPurchaseOrder, KindGRN} {
		h := grnHeader()
		h.Supplier.Code = "S1"
		_, err := testAssembler().AssembleDocument(kind, h, nil, "", nil)
		require.ErrorIs(t, err, ErrValidation, kind)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields(), "items")
	}
}

func TestAssembleRejectsMissingHeader(t *testing.T) {
	lines := []LineItemInput{{Code: "A", Quantity: "1", UnitPrice: "1"}}

	_, err := testAssembler().AssembleDocument(KindGRN, Header{}, lines, "", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "supplier.name")
	assert.Contains(t, verr.Fields(), "receivedBy")

	_, err = testAssembler().AssembleDocument(KindPurchaseOrder, Header{}, lines, "", nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = testAssembler().AssembleDocument(KindIssueNote, Header{}, lines, "", nil)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "department")
	assert.Contains(t, verr.Fields(), "personName")
}

func TestAssembleRejectsLineWithoutCodeOrDescription(t *testing.T) {
	_, err := testAssembler().AssembleDocument(KindGRN, grnHeader(), []LineItemInput{
		{Code: "A"},
		{Quantity: "1", UnitPrice: "2"},
	}, "", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "items[1]")
	assert.NotContains(t, verr.Fields(), "items[0]")
}

func TestAssembleRejectsUnknownPurchaseType(t *testing.T) {
	h := grnHeader()
	h.PurchaseType = "barter"
	_, err := testAssembler().AssembleDocument(KindGRN, h, []LineItemInput{{Code: "A"}}, "", nil)
	require.ErrorIs(t, err, ErrValidation)

	h.PurchaseType = "IMPORT"
	doc, err := testAssembler().AssembleDocument(KindGRN, h, []LineItemInput{{Code: "A"}}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, PurchaseImport, doc.PurchaseType)
}

func TestAssembleIssueNoteImplicitLine(t *testing.T) {
	h := Header{
		Details: Details{Department: "Stores", PersonName: "Kamal", Event: "maintenance"},
		Code:    "IT-9",
		Item:    "Cable",
		Qty:     "3",
	}
	doc, err := testAssembler().AssembleDocument(KindIssueNote, h, nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "IN-001", doc.Number)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "IT-9", doc.Items[0].Code)
	assert.Equal(t, "Cable", doc.Items[0].Description)
	assertDecimal(t, "3", doc.Items[0].Quantity)

	h.Code, h.Item = "", ""
	_, err = testAssembler().AssembleDocument(KindIssueNote, h, nil, "", nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssembleStrictMode(t *testing.T) {
	a := testAssembler()
	a.Strict = true
	_, err := a.AssembleDocument(KindGRN, grnHeader(), []LineItemInput{{Code: "A", Quantity: "two", UnitPrice: "1"}}, "-5", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "items[0].quantity")
	assert.Contains(t, verr.Fields(), "discount")

	lenient := testAssembler()
	doc, err := lenient.AssembleDocument(KindGRN, grnHeader(), []LineItemInput{{Code: "A", Quantity: "two", UnitPrice: "1"}}, "-5", nil)
	require.NoError(t, err)
	assertDecimal(t, "0", doc.Totals.Subtotal)
	assertDecimal(t, "5", doc.Totals.Balance)
}

func TestAssembleCorruptSeriesIsFatal(t *testing.T) {
	_, err := testAssembler().AssembleDocument(KindGRN, grnHeader(), []LineItemInput{{Code: "A"}}, "", &Document{Number: "GRN-x1"})
	require.ErrorIs(t, err, ErrSequenceCorrupt)
}

func TestAssembleUnknownKind(t *testing.T) {
	_, err := testAssembler().AssembleDocument(Kind("INVOICE"), grnHeader(), []LineItemInput{{Code: "A"}}, "", nil)
	require.ErrorIs(t, err, ErrUnknownKind)
}
