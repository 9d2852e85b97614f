package repository

import "context"

// Transactor runs fn inside a database transaction. Repository calls made with the
// context passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
