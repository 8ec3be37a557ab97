package repository

import (
	"context"

	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"gorm.io/gorm"
)

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor backed by GORM
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls join the outer transaction.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
