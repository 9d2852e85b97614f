package repository

import (
	"context"
	"errors"

	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key for the transaction opened by Transactor
const txKey ctxKey = "gorm_tx"

// conn returns the transaction stored in ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// OutletScope restricts a query to one outlet's partition.
// Every product and bill query goes through it.
func OutletScope(outlet enum.Outlet) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !outlet.IsValid() {
			// Fail-safe: an unknown outlet sees nothing
			return db.Where("1 = 0")
		}
		return db.Where("outlet = ?", outlet)
	}
}

// ActiveScope hides soft-deleted products.
func ActiveScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// translateError maps gorm errors onto the domain sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(domainRepo.ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainRepo.ErrNotFound
	}
	return err
}
