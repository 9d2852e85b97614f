package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("line ASC")
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return translateError(conn(ctx, r.db).Create(bill).Error)
}

func (r *billRepository) GetByID(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := conn(ctx, r.db).
		Scopes(OutletScope(outlet)).
		Preload("Items", preloadItems).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// LatestNumberWithPrefix orders by length first so that a four digit sequence
// sorts after every three digit one.
func (r *billRepository) LatestNumberWithPrefix(ctx context.Context, outlet enum.Outlet, prefix string) (string, error) {
	var numbers []string
	err := conn(ctx, r.db).Model(&entity.Bill{}).
		Scopes(OutletScope(outlet)).
		Where("bill_number LIKE ?", prefix+"%").
		Order("LENGTH(bill_number) DESC, bill_number DESC").
		Limit(1).
		Pluck("bill_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *billRepository) filtered(ctx context.Context, outlet enum.Outlet, search string, from, to *time.Time) *gorm.DB {
	query := conn(ctx, r.db).Model(&entity.Bill{}).Scopes(OutletScope(outlet))

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(bill_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", like, like, like)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}
	return query
}

func (r *billRepository) List(ctx context.Context, outlet enum.Outlet, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.filtered(ctx, outlet, params.Search, params.From, params.To)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", preloadItems).
		Order("created_at DESC, id DESC").
		Find(&bills).Error

	return bills, total, err
}

// ListWithCursor returns bills newest first using keyset pagination
func (r *billRepository) ListWithCursor(ctx context.Context, outlet enum.Outlet, params *domainRepo.BillCursorFilterParams) ([]entity.Bill, error) {
	var bills []entity.Bill

	params.Cursor.Validate()
	query := r.filtered(ctx, outlet, params.Search, params.From, params.To)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Items", preloadItems).
		Order("created_at DESC, id DESC").
		Find(&bills).Error

	return bills, err
}

func (r *billRepository) ListInRange(ctx context.Context, outlet enum.Outlet, from, to *time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.filtered(ctx, outlet, "", from, to).
		Preload("Items", preloadItems).
		Order("created_at ASC, id ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) Count(ctx context.Context, outlet enum.Outlet) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Bill{}).Scopes(OutletScope(outlet)).Count(&total).Error
	return total, err
}
