package request

import (
	"strings"
	"time"

	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CompanyRequest is the issuing business printed on a document
type CompanyRequest struct {
	Name    string `json:"name" binding:"max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" binding:"max=50"`
	TaxID   string `json:"tax_id" binding:"max=50"`
}

func (r CompanyRequest) ToEntity() entity.Company {
	return entity.Company{
		Name:    strings.TrimSpace(r.Name),
		Address: strings.TrimSpace(r.Address),
		Phone:   strings.TrimSpace(r.Phone),
		TaxID:   strings.TrimSpace(r.TaxID),
	}
}

// PartyRequest is a bill-to or ship-to contact
type PartyRequest struct {
	Name    string `json:"name" binding:"max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" binding:"max=50"`
}

func (r PartyRequest) toEntity() entity.Party {
	return entity.Party{
		Name:    strings.TrimSpace(r.Name),
		Address: strings.TrimSpace(r.Address),
		Phone:   strings.TrimSpace(r.Phone),
	}
}

// ItemRequest is one line of an invoice or receipt. Lines without a name are
// dropped by the service, so quantity and amount are only checked on named
// lines (see validateItem).
type ItemRequest struct {
	Name        string          `json:"name" binding:"max=255"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceRequest is the body of POST /invoices and PUT /invoices/:id
type InvoiceRequest struct {
	Number         string          `json:"number" binding:"required,max=50"`
	Date           string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PaymentDate    string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Company        CompanyRequest  `json:"company"`
	BillTo         PartyRequest    `json:"bill_to"`
	ShipTo         PartyRequest    `json:"ship_to"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage" binding:"dgte0"`
	Notes          string          `json:"notes"`
	TemplateNumber int             `json:"template_number" binding:"min=0"`
	LogoURL        string          `json:"logo_url" binding:"max=500"`
	PrimaryColor   string          `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor string          `json:"secondary_color" binding:"omitempty,hexcolor"`
	Items          []ItemRequest   `json:"items" binding:"dive"`
}

// ToEntity converts the request. Dates were checked by binding, so a parse
// failure leaves the zero value.
func (r *InvoiceRequest) ToEntity() *entity.Invoice {
	inv := &entity.Invoice{
		Number:         r.Number,
		Date:           parseDate(r.Date),
		Company:        r.Company.ToEntity(),
		BillTo:         r.BillTo.toEntity(),
		ShipTo:         r.ShipTo.toEntity(),
		TaxPercentage:  r.TaxPercentage,
		Notes:          r.Notes,
		TemplateNumber: r.TemplateNumber,
		Status:         enum.InvoiceStatusUnset,
		LogoURL:        r.LogoURL,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
	}
	if r.PaymentDate != "" {
		paid := parseDate(r.PaymentDate)
		inv.PaymentDate = &paid
	}

	inv.Items = make([]entity.InvoiceItem, len(r.Items))
	for i, item := range r.Items {
		inv.Items[i] = entity.InvoiceItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		}
	}
	return inv
}

// ReceiptRequest is the body of POST /receipts and PUT /receipts/:id
type ReceiptRequest struct {
	Number         string          `json:"number" binding:"required,max=50"`
	Date           string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Company        CompanyRequest  `json:"company"`
	BillTo         string          `json:"bill_to" binding:"max=255"`
	Cashier        string          `json:"cashier" binding:"max=255"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage" binding:"dgte0"`
	Notes          string          `json:"notes"`
	Footer         string          `json:"footer"`
	TemplateNumber int             `json:"template_number" binding:"min=0"`
	Items          []ItemRequest   `json:"items" binding:"dive"`
}

func (r *ReceiptRequest) ToEntity() *entity.Receipt {
	rc := &entity.Receipt{
		Number:         r.Number,
		Date:           parseDate(r.Date),
		Company:        r.Company.ToEntity(),
		BillTo:         strings.TrimSpace(r.BillTo),
		Cashier:        strings.TrimSpace(r.Cashier),
		TaxPercentage:  r.TaxPercentage,
		Notes:          r.Notes,
		Footer:         r.Footer,
		TemplateNumber: r.TemplateNumber,
	}

	rc.Items = make([]entity.ReceiptItem, len(r.Items))
	for i, item := range r.Items {
		rc.Items[i] = entity.ReceiptItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		}
	}
	return rc
}

// UpdateStatusRequest is the body of PUT /invoices/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SendEmailRequest is the body of POST /invoices/:id/send-email
type SendEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InvoiceFilterRequest holds the invoice list query. Values that do not parse
// are ignored rather than rejected.
type InvoiceFilterRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	ClientName string `form:"client_name"`
	Status     string `form:"status"`
}

// ReceiptFilterRequest holds the receipt list query
type ReceiptFilterRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Customer  string `form:"customer"`
}

func parseDate(raw string) time.Time {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
