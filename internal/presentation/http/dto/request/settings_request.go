package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest replaces the user's billing defaults. Blank branding
// and display fields keep their current values.
type UpdateSettingsRequest struct {
	Company              CompanyRequest  `json:"company"`
	DefaultTaxPercentage decimal.Decimal `json:"default_tax_percentage" binding:"dgte0"`
	DefaultTemplate      int             `json:"default_template" binding:"min=0"`
	DefaultNotes         string          `json:"default_notes"`
	ReceiptFooter        string          `json:"receipt_footer"`
	LogoURL              string          `json:"logo_url" binding:"max=500"`
	PrimaryColor         string          `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor       string          `json:"secondary_color" binding:"omitempty,hexcolor"`
	CurrencySymbol       string          `json:"currency_symbol" binding:"max=10"`
	DateFormat           string          `json:"date_format" binding:"max=20"`
}
