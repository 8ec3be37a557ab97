package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type line struct {
	qty    int
	amount decimal.Decimal
}

func (l line) LineQuantity() int           { return l.qty }
func (l line) LineAmount() decimal.Decimal { return l.amount }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_TwoLinesWithTax(t *testing.T) {
	items := []line{
		{qty: 2, amount: d("10.00")},
		{qty: 1, amount: d("25.00")},
	}

	totals := Compute(items, d("10"))

	assert.True(t, d("45.00").Equal(totals.SubTotal), "subtotal %s", totals.SubTotal)
	assert.True(t, d("4.50").Equal(totals.TaxAmount), "tax %s", totals.TaxAmount)
	assert.True(t, d("49.50").Equal(totals.GrandTotal), "grand %s", totals.GrandTotal)
	assert.Equal(t, "49.50", Format(totals.GrandTotal))
}

func TestCompute_EmptyItems(t *testing.T) {
	totals := Compute([]line(nil), d("18"))

	assert.True(t, totals.SubTotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestLineTotal_ZeroValuesContributeNothing(t *testing.T) {
	assert.True(t, LineTotal(line{qty: 5}).IsZero())
	assert.True(t, LineTotal(line{amount: d("99.99")}).IsZero())
}

func TestTaxAmount_NoRoundingBeforeDisplay(t *testing.T) {
	tax := TaxAmount(d("10.01"), d("12.5"))

	assert.True(t, d("1.25125").Equal(tax), "tax %s", tax)
	assert.Equal(t, "1.25", Format(tax))
}

func TestGrandTotalIdentity(t *testing.T) {
	cases := []struct {
		items []line
		pct   string
	}{
		{[]line{{qty: 3, amount: d("19.99")}}, "0"},
		{[]line{{qty: 1, amount: d("0.01")}, {qty: 7, amount: d("3.33")}}, "18"},
		{[]line{{qty: 1000, amount: d("1234.56")}}, "28"},
	}
	for _, tc := range cases {
		totals := Compute(tc.items, d(tc.pct))
		assert.True(t, totals.GrandTotal.Equal(totals.SubTotal.Add(totals.TaxAmount)))
		assert.True(t, totals.TaxAmount.Equal(totals.SubTotal.Mul(d(tc.pct)).Div(d("100"))))
	}
}

func TestSum(t *testing.T) {
	assert.True(t, d("6.60").Equal(Sum(d("1.10"), d("2.20"), d("3.30"))))
	assert.True(t, Sum().IsZero())
}

func TestToStored(t *testing.T) {
	tests := []struct{ in, want string }{
		{"12.345", "12.35"},
		{"1.005", "1.01"},
		{"-1.005", "-1.01"},
		{"7.5", "7.5"},
		{"0.004", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.True(t, d(tc.want).Equal(ToStored(d(tc.in))), "got %s", ToStored(d(tc.in)))
		})
	}
}
