package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Invoice represents a bill issued to a customer. Totals are derived from
// the items and are never persisted.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_user_number,priority:1;index" json:"-"`
	Number         string             `gorm:"size:50;not null;uniqueIndex:idx_invoices_user_number,priority:2" json:"number"`
	Date           time.Time          `gorm:"type:date;not null;index" json:"date"`
	PaymentDate    *time.Time         `gorm:"type:date" json:"payment_date,omitempty"`
	Company        Company            `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	BillTo         Party              `gorm:"embedded;embeddedPrefix:bill_to_" json:"bill_to"`
	ShipTo         Party              `gorm:"embedded;embeddedPrefix:ship_to_" json:"ship_to"`
	TaxPercentage  decimal.Decimal    `gorm:"type:numeric(5,2);not null;default:0" json:"tax_percentage"`
	Notes          string             `gorm:"type:text" json:"notes"`
	TemplateNumber int                `gorm:"not null;default:1" json:"template_number"`
	Status         enum.InvoiceStatus `gorm:"size:20;index" json:"status"`
	LogoURL        string             `gorm:"size:500" json:"logo_url"`
	PrimaryColor   string             `gorm:"size:20" json:"primary_color"`
	SecondaryColor string             `gorm:"size:20" json:"secondary_color"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsNew reports whether the invoice has never been persisted
func (i *Invoice) IsNew() bool {
	return i.ID == uuid.Nil
}

// Totals returns subtotal, tax and grand total for the current items
func (i *Invoice) Totals() money.Totals {
	return money.Compute(i.Items, i.TaxPercentage)
}

func (i *Invoice) SubTotal() decimal.Decimal   { return i.Totals().SubTotal }
func (i *Invoice) TaxAmount() decimal.Decimal  { return i.Totals().TaxAmount }
func (i *Invoice) GrandTotal() decimal.Decimal { return i.Totals().GrandTotal }

// AttachItems re-parents items onto this invoice and numbers them in order
func (i *Invoice) AttachItems(items []InvoiceItem) {
	i.Items = make([]InvoiceItem, len(items))
	for idx, item := range items {
		item.ID = uuid.Nil
		item.InvoiceID = i.ID
		item.Position = idx
		i.Items[idx] = item
	}
}

// MarshalJSON adds the derived totals and status display to the payload
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	totals := i.Totals()

	var paymentDate *string
	if i.PaymentDate != nil {
		s := i.PaymentDate.Format(DateLayout)
		paymentDate = &s
	}

	return json.Marshal(&struct {
		Alias
		Date        string  `json:"date"`
		PaymentDate *string `json:"payment_date,omitempty"`
		StatusLabel string  `json:"status_label"`
		StatusColor string  `json:"status_color"`
		SubTotal    string  `json:"sub_total"`
		TaxAmount   string  `json:"tax_amount"`
		GrandTotal  string  `json:"grand_total"`
	}{
		Alias:       Alias(i),
		Date:        i.Date.Format(DateLayout),
		PaymentDate: paymentDate,
		StatusLabel: i.Status.Label(),
		StatusColor: i.Status.Color(),
		SubTotal:    money.Format(totals.SubTotal),
		TaxAmount:   money.Format(totals.TaxAmount),
		GrandTotal:  money.Format(totals.GrandTotal),
	})
}

// InvoiceItem represents a line item on an invoice
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position    int             `gorm:"not null;default:0" json:"-"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

func (it InvoiceItem) LineQuantity() int           { return it.Quantity }
func (it InvoiceItem) LineAmount() decimal.Decimal { return it.Amount }

// Total returns amount × quantity
func (it InvoiceItem) Total() decimal.Decimal {
	return money.LineTotal(it)
}

func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		Total string `json:"total"`
	}{
		Alias: Alias(it),
		Total: money.Format(it.Total()),
	})
}
