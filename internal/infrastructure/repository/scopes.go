package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/billgen-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key carrying the active *gorm.DB transaction
const txKey ctxKey = "gorm_tx"

// OwnerScope restricts a query to rows owned by userID.
// A nil user id matches nothing, never everything.
func OwnerScope(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", userID)
	}
}

// DateRangeScope applies an inclusive date window on the "date" column.
// Either bound may be nil.
func DateRangeScope(start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("date >= ?", start.Format("2006-01-02"))
		}
		if end != nil {
			db = db.Where("date <= ?", end.Format("2006-01-02"))
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern that matches s literally anywhere in
// the column. Queries using it must declare ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// newestFirst is the canonical ordering for document lists
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC").Order("created_at DESC")
}

// WithTx stores a transaction in the context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// conn returns the transaction stored in ctx, or db when none is active
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translate maps driver errors onto repository sentinels. It relies on
// gorm.Config.TranslateError being enabled.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicate
	}
	return err
}
