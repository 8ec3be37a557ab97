package repository

import (
	"context"
	"errors"
)

// Transactor runs fn as a single unit of work. Repositories called with the
// context passed to fn take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrDuplicate is returned by writes that hit a unique constraint
var ErrDuplicate = errors.New("repository: duplicate record")
