package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey remembers the first response to a create request so a
// retried submission does not produce a second document
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_user_key,priority:2"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key,priority:1"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /api/v1/invoices"
	RequestHash  string    `gorm:"size:64"`           // sha256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpiredAt reports whether the key is no longer valid at now
func (i *IdempotencyKey) IsExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Matches reports whether a replayed request carries the same body as the original
func (i *IdempotencyKey) Matches(endpoint, requestHash string) bool {
	if i.Endpoint != endpoint {
		return false
	}
	return i.RequestHash == "" || i.RequestHash == requestHash
}
