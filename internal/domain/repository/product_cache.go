package repository

import (
	"context"

	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
)

// ProductCache holds each outlet's unfiltered active product list.
// Implementations treat backend failures as misses; stale data is bounded by the TTL.
type ProductCache interface {
	GetProducts(ctx context.Context, outlet enum.Outlet) ([]entity.Product, bool)
	SetProducts(ctx context.Context, outlet enum.Outlet, products []entity.Product)
	Invalidate(ctx context.Context, outlet enum.Outlet)
}
