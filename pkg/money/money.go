// Package money holds the pure arithmetic behind document totals.
//
// All values are shopspring decimals. Totals never round: inputs are brought
// to the stored scale once with ToStored and display rounding happens in Format.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is anything priced as amount × quantity.
type Line interface {
	LineQuantity() int
	LineAmount() decimal.Decimal
}

// Totals is the derived money summary of a document.
type Totals struct {
	SubTotal   decimal.Decimal `json:"sub_total"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// LineTotal returns amount × quantity for a single line.
func LineTotal(l Line) decimal.Decimal {
	return l.LineAmount().Mul(decimal.NewFromInt(int64(l.LineQuantity())))
}

// SubTotal sums the line totals. An empty list sums to zero.
func SubTotal[T Line](items []T) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// TaxAmount returns subtotal × pct / 100.
func TaxAmount(subTotal, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return decimal.Zero
	}
	return subTotal.Mul(pct).Div(hundred)
}

// GrandTotal returns subtotal + tax.
func GrandTotal(subTotal, tax decimal.Decimal) decimal.Decimal {
	return subTotal.Add(tax)
}

// Compute derives all three totals for a set of lines and a tax percentage.
func Compute[T Line](items []T, pct decimal.Decimal) Totals {
	sub := SubTotal(items)
	tax := TaxAmount(sub, pct)
	return Totals{
		SubTotal:   sub,
		TaxAmount:  tax,
		GrandTotal: GrandTotal(sub, tax),
	}
}

// StoredScale is the number of fraction digits kept for stored amounts and
// percentages.
const StoredScale = 2

// ToStored rounds d half away from zero to StoredScale digits, the precision
// the database keeps.
func ToStored(d decimal.Decimal) decimal.Decimal {
	return d.Round(StoredScale)
}

// Format renders a value with two fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Sum adds a list of values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
