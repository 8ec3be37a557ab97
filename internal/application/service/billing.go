package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
	"github.com/sangkips/billgen-api/internal/domain/repository"
	"github.com/sangkips/billgen-api/pkg/apperror"
	"github.com/sangkips/billgen-api/pkg/numbering"
	"github.com/shopspring/decimal"
)

// DefaultOverdueAfterDays is how old an unpaid invoice may get before it is overdue
const DefaultOverdueAfterDays = 30

// BillingOption tunes InvoiceService and ReceiptService
type BillingOption func(*billingOptions)

type billingOptions struct {
	clock            func() time.Time
	overdueAfterDays int
}

// WithClock replaces time.Now, mainly for tests
func WithClock(clock func() time.Time) BillingOption {
	return func(o *billingOptions) { o.clock = clock }
}

// WithOverdueAfterDays sets the overdue threshold in days
func WithOverdueAfterDays(days int) BillingOption {
	return func(o *billingOptions) {
		if days > 0 {
			o.overdueAfterDays = days
		}
	}
}

func newBillingOptions(opts []BillingOption) billingOptions {
	o := billingOptions{clock: time.Now, overdueAfterDays: DefaultOverdueAfterDays}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o billingOptions) today() time.Time {
	return dateOnly(o.clock())
}

// dateOnly drops the clock part, keeping the calendar date as written
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveInvoiceStatus applies the lifecycle rules in order: a payment date
// means paid, a date older than the overdue window means overdue, an unset
// status becomes pending, anything else is kept.
func DeriveInvoiceStatus(inv *entity.Invoice, today time.Time, overdueAfterDays int) enum.InvoiceStatus {
	if inv.PaymentDate != nil {
		return enum.InvoiceStatusPaid
	}
	threshold := dateOnly(today).AddDate(0, 0, -overdueAfterDays)
	if !inv.Date.IsZero() && dateOnly(inv.Date).Before(threshold) {
		return enum.InvoiceStatusOverdue
	}
	if !inv.Status.IsSet() {
		return enum.InvoiceStatusPending
	}
	return inv.Status
}

// ParseDate reads a YYYY-MM-DD value, returning nil for blank or malformed input
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(entity.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ParseInvoiceFilter turns raw query values into filter params. Unreadable
// dates or unknown statuses are dropped rather than rejected, one dimension
// at a time.
func ParseInvoiceFilter(startDate, endDate, clientName, status string) repository.InvoiceFilterParams {
	params := repository.InvoiceFilterParams{
		StartDate:  ParseDate(startDate),
		EndDate:    ParseDate(endDate),
		ClientName: strings.TrimSpace(clientName),
	}
	if s, ok := enum.ParseInvoiceStatus(status); ok {
		params.Status = &s
	}
	return params
}

// ParseReceiptFilter is the receipt counterpart of ParseInvoiceFilter
func ParseReceiptFilter(startDate, endDate, customer string) repository.ReceiptFilterParams {
	return repository.ReceiptFilterParams{
		StartDate: ParseDate(startDate),
		EndDate:   ParseDate(endDate),
		Customer:  strings.TrimSpace(customer),
	}
}

type lineInput struct {
	Name     string
	Quantity int
	Amount   decimal.Decimal
}

// validateDocument checks the fields shared by invoices and receipts
func validateDocument(number string, taxPercentage decimal.Decimal, lines []lineInput) []apperror.FieldError {
	var errs []apperror.FieldError
	if strings.TrimSpace(number) == "" {
		errs = append(errs, apperror.FieldError{Field: "number", Message: "Number is required"})
	}
	if taxPercentage.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "tax_percentage", Message: "Tax percentage must not be negative"})
	}
	for i, l := range lines {
		if l.Quantity < 0 {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "Quantity must not be negative",
			})
		}
		if l.Amount.IsNegative() {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].amount", i),
				Message: "Amount must not be negative",
			})
		}
	}
	return errs
}

func normalizeTemplate(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// uniqueNumber draws a number that the exists check reports as free
func uniqueNumber(ctx context.Context, gen *numbering.Generator, exists func(ctx context.Context, number string) (bool, error)) (string, error) {
	number, err := gen.Unique(ctx, exists)
	if errors.Is(err, numbering.ErrExhausted) {
		return "", apperror.ErrNumberGeneration
	}
	return number, err
}

// translateWriteError maps storage errors onto application errors
func translateWriteError(err error, resource string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperror.NewConflictError(resource + " number already exists")
	}
	return err
}

var errNoUser = apperror.NewAppError(401, "User not authenticated")

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errNoUser
	}
	return nil
}
