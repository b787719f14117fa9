package documents

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tax rates applied to the discounted balance.
var (
	VATRate = decimal.RequireFromString("0.15")
	NBTRate = decimal.RequireFromString("0.02")
)

// ComputeLineTotals prices every line as quantity times unit price and sums
// the amounts. Missing or malformed numbers count as zero.
func ComputeLineTotals(items []LineItemInput) LineTotals {
	out := LineTotals{Items: make([]LineItem, 0, len(items)), Subtotal: decimal.Zero}
	for _, in := range items {
		line := priceLine(in, in.Quantity.Decimal(), in.UnitPrice.Decimal())
		out.Items = append(out.Items, line)
		out.Subtotal = out.Subtotal.Add(line.Amount)
	}
	return out
}

// ComputeLineTotalsStrict behaves like ComputeLineTotals but rejects malformed
// or negative quantities and prices.
func ComputeLineTotalsStrict(items []LineItemInput) (LineTotals, error) {
	verr := &ValidationError{}
	out := LineTotals{Items: make([]LineItem, 0, len(items)), Subtotal: decimal.Zero}
	for i, in := range items {
		qty := strictNonNegative(verr, fmt.Sprintf("items[%d].quantity", i), in.Quantity.Strict)
		price := strictNonNegative(verr, fmt.Sprintf("items[%d].unitPrice", i), in.UnitPrice.Strict)
		line := priceLine(in, qty, price)
		out.Items = append(out.Items, line)
		out.Subtotal = out.Subtotal.Add(line.Amount)
	}
	if err := verr.orNil(); err != nil {
		return LineTotals{}, err
	}
	return out, nil
}

// ComputeTaxTotals derives balance, VAT, NBT and net total. No rounding is
// applied and a discount above the subtotal yields negative figures.
func ComputeTaxTotals(subtotal, discount decimal.Decimal) Totals {
	balance := subtotal.Sub(discount)
	vat := balance.Mul(VATRate)
	nbt := balance.Mul(NBTRate)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Balance:  balance,
		VATRate:  VATRate,
		NBTRate:  NBTRate,
		VAT:      vat,
		NBT:      nbt,
		NetTotal: balance.Add(vat).Add(nbt),
	}
}

func priceLine(in LineItemInput, qty, price decimal.Decimal) LineItem {
	return LineItem{
		Code:        in.Code,
		Description: in.Description,
		Quantity:    qty,
		Unit:        in.Unit,
		UnitPrice:   price,
		Amount:      qty.Mul(price),
	}
}

func strictNonNegative(verr *ValidationError, field string, parse func() (decimal.Decimal, error)) decimal.Decimal {
	v, err := parse()
	if err != nil {
		verr.add(field, "must be a number")
		return decimal.Zero
	}
	if v.IsNegative() {
		verr.add(field, "must not be negative")
		return decimal.Zero
	}
	return v
}
