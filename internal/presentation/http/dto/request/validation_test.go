package request

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Configure(v))
	return v
}

func TestDecimalNonNegative(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		amount string
		valid  bool
	}{
		{"zero", "0", true},
		{"positive", "12.50", true},
		{"negative", "-0.01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(ItemRequest{Name: "x", Amount: decimal.RequireFromString(tt.amount)})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := err.(validator.ValidationErrors)
			require.Len(t, fields, 1)
			assert.Equal(t, "amount", fields[0].Field())
			assert.Equal(t, "dgte0", fields[0].Tag())
		})
	}
}

func TestInvoiceRequest_Validation(t *testing.T) {
	v := newValidator(t)

	req := InvoiceRequest{
		Number:        "AB12",
		Date:          "2024-13-01",
		TaxPercentage: decimal.NewFromInt(-5),
		Items:         []ItemRequest{{Name: "Widget", Quantity: -1}},
	}
	err := v.Struct(req)
	require.Error(t, err)

	var names []string
	for _, fe := range err.(validator.ValidationErrors) {
		names = append(names, fe.Field())
	}
	assert.ElementsMatch(t, []string{"date", "tax_percentage", "quantity"}, names)
}

func TestInvoiceRequest_ToEntity(t *testing.T) {
	req := InvoiceRequest{
		Number:        "AB12",
		Date:          "2024-01-15",
		PaymentDate:   "2024-01-20",
		BillTo:        PartyRequest{Name: "  Jane "},
		TaxPercentage: decimal.NewFromInt(10),
		Items: []ItemRequest{
			{Name: "Widget", Quantity: 2, Amount: decimal.NewFromInt(10)},
		},
	}

	inv := req.ToEntity()
	assert.Equal(t, "2024-01-15", inv.Date.Format("2006-01-02"))
	require.NotNil(t, inv.PaymentDate)
	assert.Equal(t, "2024-01-20", inv.PaymentDate.Format("2006-01-02"))
	assert.Equal(t, "Jane", inv.BillTo.Name)
	assert.False(t, inv.Status.IsSet())
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "20", inv.Items[0].Total().String())

	req.Date = ""
	req.PaymentDate = ""
	inv = req.ToEntity()
	assert.True(t, inv.Date.IsZero())
	assert.Nil(t, inv.PaymentDate)
}

func TestItemRequest_BlankLinesAreNotChecked(t *testing.T) {
	v := newValidator(t)

	req := InvoiceRequest{
		Number: "AB12",
		Items: []ItemRequest{
			{Name: "Widget", Quantity: 1, Amount: decimal.NewFromInt(3)},
			{Name: "   ", Quantity: -2, Amount: decimal.NewFromInt(-4)},
		},
	}
	assert.NoError(t, v.Struct(req))

	req.Items[1].Name = "Gadget"
	err := v.Struct(req)
	require.Error(t, err)
	var tags []string
	for _, fe := range err.(validator.ValidationErrors) {
		tags = append(tags, fe.Field()+":"+fe.Tag())
	}
	assert.ElementsMatch(t, []string{"quantity:min", "amount:dgte0"}, tags)
}
