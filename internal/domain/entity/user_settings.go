package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserSettings holds the per-user defaults applied to every new draft
type UserSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Issuer details
	Company Company `gorm:"embedded;embeddedPrefix:company_" json:"company"`

	// Document defaults
	DefaultTaxPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"default_tax_percentage"`
	DefaultTemplate      int             `gorm:"not null;default:1" json:"default_template"`
	DefaultNotes         string          `gorm:"type:text" json:"default_notes"`
	ReceiptFooter        string          `gorm:"type:text" json:"receipt_footer"`

	// Branding
	LogoURL        string `gorm:"size:500" json:"logo_url"`
	PrimaryColor   string `gorm:"size:20;default:'#6366f1'" json:"primary_color"`
	SecondaryColor string `gorm:"size:20;default:'#1e293b'" json:"secondary_color"`

	// Display
	CurrencySymbol string `gorm:"size:10;default:'₹'" json:"currency_symbol"`
	DateFormat     string `gorm:"size:20;default:'DD/MM/YYYY'" json:"date_format"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings returns the settings used before a user saves their own
func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:          userID,
		DefaultTemplate: 1,
		PrimaryColor:    "#6366f1",
		SecondaryColor:  "#1e293b",
		CurrencySymbol:  "₹",
		DateFormat:      "DD/MM/YYYY",
		ReceiptFooter:   "Thank you for your business!",
	}
}
