package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"gorm.io/gorm"
)

var errQuantityColumn = errors.New("quantity must be changed through SetQuantity, IncrementQuantity or DecrementQuantity")

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return translateError(conn(ctx, r.db).Create(product).Error)
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return translateError(conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, 100).Error
	}))
}

func (r *productRepository) GetByID(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Scopes(OutletScope(outlet), ActiveScope).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, outlet enum.Outlet, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySKU(ctx context.Context, outlet enum.Outlet, sku string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Scopes(OutletScope(outlet)).
		First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, outlet enum.Outlet, id uuid.UUID, changes map[string]interface{}) (*entity.Product, error) {
	if _, ok := changes["quantity"]; ok {
		return nil, errQuantityColumn
	}
	if len(changes) == 0 {
		return r.mustGet(ctx, outlet, id)
	}

	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainRepo.ErrNotFound
	}
	return r.mustGet(ctx, outlet, id)
}

func (r *productRepository) List(ctx context.Context, outlet enum.Outlet, params *domainRepo.ProductFilterParams) ([]entity.Product, error) {
	var products []entity.Product

	query := conn(ctx, r.db).Model(&entity.Product{}).Scopes(OutletScope(outlet), ActiveScope)

	if params != nil {
		if params.Search != "" {
			like := "%" + strings.ToLower(params.Search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(sku) LIKE ?", like, like, like)
		}
		if params.Category != nil {
			query = query.Where("category = ?", *params.Category)
		}
		if params.LowStock {
			query = query.Where("quantity <= min_stock_level")
		}
	}

	err := query.Order("created_at DESC, id DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) CountActive(ctx context.Context, outlet enum.Outlet) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Count(&total).Error
	return total, err
}

// DecrementQuantity atomically decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET quantity = quantity - amount WHERE id = ? AND quantity >= amount
func (r *productRepository) DecrementQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, amount int) (*entity.Product, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		product, err := r.GetByID(ctx, outlet, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domainRepo.ErrNotFound
		}
		return product, domainRepo.ErrInsufficientStock
	}

	return r.mustGet(ctx, outlet, id)
}

func (r *productRepository) IncrementQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, amount int) (*entity.Product, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainRepo.ErrNotFound
	}
	return r.mustGet(ctx, outlet, id)
}

func (r *productRepository) SetQuantity(ctx context.Context, outlet enum.Outlet, id uuid.UUID, quantity int) (*entity.Product, error) {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainRepo.ErrNotFound
	}
	return r.mustGet(ctx, outlet, id)
}

func (r *productRepository) SoftDelete(ctx context.Context, outlet enum.Outlet, id uuid.UUID) error {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(OutletScope(outlet), ActiveScope).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

func (r *productRepository) mustGet(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Product, error) {
	product, err := r.GetByID(ctx, outlet, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domainRepo.ErrNotFound
	}
	return product, nil
}
