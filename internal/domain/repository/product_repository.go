package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
)

// ProductRepository is the inventory ledger. Every query is scoped to one outlet's catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// CreateBatch inserts all products or none.
	CreateBatch(ctx context.Context, products []entity.Product) error
	// GetByID returns nil, nil when the product is missing or inactive.
	GetByID(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Product, error)
	// GetByIDs returns the active products among ids in a single query.
	GetByIDs(ctx context.Context, outlet enum.Outlet, ids []uuid.UUID) ([]entity.Product, error)
	// GetBySKU checks every row, active or not, since skus stay reserved after a soft delete.
	GetBySKU(ctx context.Context, outlet enum.Outlet, sku string) (*entity.Product, error)
	// Update writes only the given columns of an active product and returns the stored row.
	// quantity is rejected; stock only moves through the quantity methods below.
	Update(ctx context.Context, outlet enum.Outlet, id uuid.UUID, changes map[string]interface{}) (*entity.Product, error)
	// List returns active products, newest first.
	List(ctx context.Context, outlet enum.Outlet, params *ProductFilterParams) ([]entity.Product, error)
	CountActive(ctx context.Context, outlet enum.Outlet) (int64, error)
	// DecrementQuantity subtracts amount only if enough stock remains, in a single conditional update.
	// Returns ErrInsufficientStock when the condition fails and ErrNotFound for a missing or inactive product.
	DecrementQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, amount int) (*entity.Product, error)
	IncrementQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, amount int) (*entity.Product, error)
	SetQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, quantity int) (*entity.Product, error)
	SoftDelete(ctx context.Context, outlet enum.Outlet, id uuid.UUID) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Search   string
	Category *enum.Category
	LowStock bool
}

// IsZero reports whether no filter is set, which makes the result cacheable.
func (p *ProductFilterParams) IsZero() bool {
	return p == nil || (p.Search == "" && p.Category == nil && !p.LowStock)
}
