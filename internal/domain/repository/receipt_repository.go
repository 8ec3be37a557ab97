package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
)

// ReceiptFilterParams narrows a user's receipt list
type ReceiptFilterParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	Customer  string
}

func (p ReceiptFilterParams) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Customer == ""
}

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	Update(ctx context.Context, receipt *entity.Receipt) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Receipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Receipt, error)
	Filter(ctx context.Context, userID uuid.UUID, params ReceiptFilterParams) ([]entity.Receipt, error)
	SearchByNumber(ctx context.Context, userID uuid.UUID, query string) ([]entity.Receipt, error)
	ExistsByNumber(ctx context.Context, userID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
