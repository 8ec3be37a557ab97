package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is a proof of payment handed over at the counter. Unlike an
// invoice it has no payment lifecycle.
type Receipt struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_user_number,priority:1;index" json:"-"`
	Number         string          `gorm:"size:50;not null;uniqueIndex:idx_receipts_user_number,priority:2" json:"number"`
	Date           time.Time       `gorm:"type:date;not null;index" json:"date"`
	Company        Company         `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	BillTo         string          `gorm:"size:255" json:"bill_to"`
	Cashier        string          `gorm:"size:255" json:"cashier"`
	TaxPercentage  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tax_percentage"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Footer         string          `gorm:"type:text" json:"footer"`
	TemplateNumber int             `gorm:"not null;default:1" json:"template_number"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

func (r *Receipt) IsNew() bool {
	return r.ID == uuid.Nil
}

func (r *Receipt) Totals() money.Totals {
	return money.Compute(r.Items, r.TaxPercentage)
}

func (r *Receipt) SubTotal() decimal.Decimal   { return r.Totals().SubTotal }
func (r *Receipt) TaxAmount() decimal.Decimal  { return r.Totals().TaxAmount }
func (r *Receipt) GrandTotal() decimal.Decimal { return r.Totals().GrandTotal }

// AttachItems re-parents items onto this receipt and numbers them in order
func (r *Receipt) AttachItems(items []ReceiptItem) {
	r.Items = make([]ReceiptItem, len(items))
	for idx, item := range items {
		item.ID = uuid.Nil
		item.ReceiptID = r.ID
		item.Position = idx
		r.Items[idx] = item
	}
}

func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	totals := r.Totals()
	return json.Marshal(&struct {
		Alias
		Date       string `json:"date"`
		SubTotal   string `json:"sub_total"`
		TaxAmount  string `json:"tax_amount"`
		GrandTotal string `json:"grand_total"`
	}{
		Alias:      Alias(r),
		Date:       r.Date.Format(DateLayout),
		SubTotal:   money.Format(totals.SubTotal),
		TaxAmount:  money.Format(totals.TaxAmount),
		GrandTotal: money.Format(totals.GrandTotal),
	})
}

// ReceiptItem represents a single line item on a receipt
type ReceiptItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position    int             `gorm:"not null;default:0" json:"-"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (it *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

func (it ReceiptItem) LineQuantity() int           { return it.Quantity }
func (it ReceiptItem) LineAmount() decimal.Decimal { return it.Amount }

func (it ReceiptItem) Total() decimal.Decimal {
	return money.LineTotal(it)
}

func (it ReceiptItem) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItem
	return json.Marshal(&struct {
		Alias
		Total string `json:"total"`
	}{
		Alias: Alias(it),
		Total: money.Format(it.Total()),
	})
}
