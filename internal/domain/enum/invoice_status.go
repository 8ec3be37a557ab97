package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus represents the payment state of an invoice.
// The zero value means the status has not been decided yet.
type InvoiceStatus string

const (
	InvoiceStatusUnset   InvoiceStatus = ""
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

var invoiceStatusDisplay = map[InvoiceStatus]struct {
	label string
	color string
}{
	InvoiceStatusPending: {"Pending", "#f59e0b"},
	InvoiceStatusPaid:    {"Paid", "#10b981"},
	InvoiceStatusOverdue: {"Overdue", "#ef4444"},
}

// InvoiceStatuses lists every valid status in display order
func InvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue}
}

// ParseInvoiceStatus resolves a status name case-insensitively
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	status := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return InvoiceStatusUnset, false
	}
	return status, true
}

func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceStatusDisplay[s]
	return ok
}

func (s InvoiceStatus) IsSet() bool {
	return s != InvoiceStatusUnset
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// Label is the human readable name shown in documents and exports
func (s InvoiceStatus) Label() string {
	if d, ok := invoiceStatusDisplay[s]; ok {
		return d.label
	}
	return ""
}

// Color is the badge colour used by the frontend
func (s InvoiceStatus) Color() string {
	if d, ok := invoiceStatusDisplay[s]; ok {
		return d.color
	}
	return ""
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if strings.TrimSpace(str) == "" {
		*s = InvoiceStatusUnset
		return nil
	}
	status, ok := ParseInvoiceStatus(str)
	if !ok {
		return fmt.Errorf("unknown invoice status %q", str)
	}
	*s = status
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	if s == InvoiceStatusUnset {
		return nil, nil
	}
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = InvoiceStatusUnset
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}
