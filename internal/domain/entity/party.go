package entity

import "strings"

// Company is the issuing business printed at the top of a document.
// It is embedded by value, so editing one document never touches another.
type Company struct {
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	TaxID   string `gorm:"size:50" json:"tax_id"`
}

// Party is a bill-to or ship-to contact.
type Party struct {
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
}

// IsEmpty reports whether the party carries no name.
func (p Party) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == ""
}
