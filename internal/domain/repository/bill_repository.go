package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/pkg/pagination"
)

// BillRepository stores bills. There is no update or delete.
type BillRepository interface {
	// Create inserts the bill and its items. A bill number collision returns ErrDuplicateKey.
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Bill, error)
	// LatestNumberWithPrefix returns the highest bill number starting with prefix, or "" when none exists.
	LatestNumberWithPrefix(ctx context.Context, outlet enum.Outlet, prefix string) (string, error)
	List(ctx context.Context, outlet enum.Outlet, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListWithCursor(ctx context.Context, outlet enum.Outlet, params *BillCursorFilterParams) ([]entity.Bill, error)
	// ListInRange loads every bill with items created in [from, to). Nil bounds are open.
	ListInRange(ctx context.Context, outlet enum.Outlet, from, to *time.Time) ([]entity.Bill, error)
	Count(ctx context.Context, outlet enum.Outlet) (int64, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	From       *time.Time
	To         *time.Time
}

// BillCursorFilterParams contains cursor-based filtering for bill queries
type BillCursorFilterParams struct {
	Cursor *pagination.CursorParams
	Search string
	From   *time.Time
	To     *time.Time
}
