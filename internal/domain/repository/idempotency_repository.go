package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billgen-api/internal/domain/entity"
)

// IdempotencyRepository stores the first response of a keyed create request
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys past their expiry and returns how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
