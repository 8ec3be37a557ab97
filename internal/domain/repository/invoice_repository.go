package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
	"github.com/sangkips/billgen-api/internal/domain/enum"
)

// InvoiceFilterParams narrows a user's invoice list. Nil or empty fields are
// not applied; supplied ones are combined with AND.
type InvoiceFilterParams struct {
	StartDate  *time.Time
	EndDate    *time.Time
	ClientName string
	Status     *enum.InvoiceStatus
}

// IsEmpty reports whether no predicate is set
func (p InvoiceFilterParams) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.ClientName == "" && p.Status == nil
}

// InvoiceRepository defines the interface for invoice data access.
// Every lookup is scoped to the owning user; a document owned by someone else
// is reported exactly like a missing one (nil, nil).
type InvoiceRepository interface {
	// Create inserts the invoice together with its items
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update saves the invoice columns and replaces its stored items with invoice.Items
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete removes the invoice and its items
	Delete(ctx context.Context, id, userID uuid.UUID) error
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error)
	Filter(ctx context.Context, userID uuid.UUID, params InvoiceFilterParams) ([]entity.Invoice, error)
	SearchByNumber(ctx context.Context, userID uuid.UUID, query string) ([]entity.Invoice, error)
	// ExistsByNumber reports whether another invoice of the user already uses number
	ExistsByNumber(ctx context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status enum.InvoiceStatus) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uuid.UUID, status enum.InvoiceStatus) (int64, error)
}
