package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/sangkips/outlet-pos/pkg/logger"
	"github.com/sangkips/outlet-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	transactor  repository.Transactor
	cache       repository.ProductCache
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	transactor repository.Transactor,
	cache repository.ProductCache,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		transactor:  transactor,
		cache:       cache,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Outlet        enum.Outlet
	Name          string
	Brand         string
	Category      enum.Category
	SKU           string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Quantity      int
	MinStockLevel *int
	Description   string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	product, fieldErrors := newProduct(input)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.productRepo.GetBySKU(ctx, product.Outlet, product.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewDuplicateKeyError("SKU already exists")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewDuplicateKeyError("SKU already exists")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, product.Outlet)
	return product, nil
}

// newProduct normalises input into an active product. Blank skus are generated.
func newProduct(input *CreateProductInput) (*entity.Product, []apperror.FieldError) {
	var fieldErrors []apperror.FieldError

	if !input.Outlet.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "outlet", Message: "invalid outlet"})
	}
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(input.Brand) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "brand", Message: "is required"})
	}
	if !input.Category.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: "must be one of Bicycle, Accessories, Parts, Clothing, Tools"})
	}
	fieldErrors = append(fieldErrors, validatePrices(input.PurchasePrice, input.SellingPrice)...)
	if input.Quantity < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must not be negative"})
	}

	minStock := entity.DefaultMinStockLevel
	if input.MinStockLevel != nil {
		minStock = *input.MinStockLevel
		if minStock < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "minStockLevel", Message: "must not be negative"})
		}
	}

	sku := normalizeSKU(input.SKU)
	if sku == "" && input.Outlet.IsValid() {
		sku = utils.GenerateSKU(OutletPrefix(input.Outlet))
	}

	return &entity.Product{
		Outlet:        input.Outlet,
		Name:          strings.TrimSpace(input.Name),
		Brand:         strings.TrimSpace(input.Brand),
		Category:      input.Category,
		SKU:           sku,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Quantity:      input.Quantity,
		MinStockLevel: minStock,
		Description:   strings.TrimSpace(input.Description),
		IsActive:      true,
	}, fieldErrors
}

func validatePrices(purchase, selling decimal.Decimal) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if purchase.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "purchasePrice", Message: "must not be negative"})
	}
	if selling.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sellingPrice", Message: "must not be negative"})
	}
	return fieldErrors
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// GetProduct returns an active product.
func (s *ProductService) GetProduct(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, outlet, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// LookupBySKU finds an active product by its barcode.
func (s *ProductService) LookupBySKU(ctx context.Context, outlet enum.Outlet, sku string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, outlet, normalizeSKU(sku))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts returns the outlet's active products. The unfiltered list is served from the cache.
func (s *ProductService) ListProducts(ctx context.Context, outlet enum.Outlet, params *repository.ProductFilterParams) ([]entity.Product, error) {
	cacheable := params.IsZero()
	if cacheable {
		if products, ok := s.cache.GetProducts(ctx, outlet); ok {
			return products, nil
		}
	}

	products, err := s.productRepo.List(ctx, outlet, params)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	if cacheable {
		s.cache.SetProducts(ctx, outlet, products)
	}
	return products, nil
}

// UpdateProductInput represents the update product input. Nil fields are left unchanged.
type UpdateProductInput struct {
	Outlet        enum.Outlet
	ID            uuid.UUID
	Name          *string
	Brand         *string
	Category      *enum.Category
	SKU           *string
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Quantity      *int
	MinStockLevel *int
	Description   *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.Outlet, input.ID)
	if err != nil {
		return nil, err
	}

	// only the columns the caller sent are written; a stale copy of quantity
	// must never overwrite a sale that committed after the read above
	changes := make(map[string]interface{})
	var fieldErrors []apperror.FieldError

	if input.SKU != nil {
		sku := normalizeSKU(*input.SKU)
		if sku == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sku", Message: "must not be empty"})
		} else if sku != product.SKU {
			existing, err := s.productRepo.GetBySKU(ctx, input.Outlet, sku)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, apperror.NewDuplicateKeyError("SKU already exists")
			}
			changes["sku"] = sku
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "must not be empty"})
		}
		changes["name"] = name
	}
	if input.Brand != nil {
		brand := strings.TrimSpace(*input.Brand)
		if brand == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "brand", Message: "must not be empty"})
		}
		changes["brand"] = brand
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: "must be one of Bicycle, Accessories, Parts, Clothing, Tools"})
		}
		changes["category"] = *input.Category
	}

	purchase, selling := product.PurchasePrice, product.SellingPrice
	if input.PurchasePrice != nil {
		purchase = *input.PurchasePrice
		changes["purchase_price"] = purchase
	}
	if input.SellingPrice != nil {
		selling = *input.SellingPrice
		changes["selling_price"] = selling
	}
	fieldErrors = append(fieldErrors, validatePrices(purchase, selling)...)

	if input.Quantity != nil && *input.Quantity < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if input.MinStockLevel != nil {
		if *input.MinStockLevel < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "minStockLevel", Message: "must not be negative"})
		}
		changes["min_stock_level"] = *input.MinStockLevel
	}
	if input.Description != nil {
		changes["description"] = strings.TrimSpace(*input.Description)
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	save := func(ctx context.Context) error {
		updated, err := s.productRepo.Update(ctx, input.Outlet, input.ID, changes)
		if err != nil {
			return err
		}
		if input.Quantity != nil {
			if updated, err = s.productRepo.SetQuantity(ctx, input.Outlet, input.ID, *input.Quantity); err != nil {
				return err
			}
		}
		product = updated
		return nil
	}

	if len(changes) > 0 && input.Quantity != nil {
		err = s.transactor.WithinTransaction(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperror.NewDuplicateKeyError("SKU already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NewNotFoundError("Product")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, input.Outlet)
	return product, nil
}

// UpdateQuantityInput is a manual stock correction.
type UpdateQuantityInput struct {
	Outlet   enum.Outlet
	ID       uuid.UUID
	Quantity int
	Mode     enum.StockAdjustMode
}

// UpdateQuantity sets the on-hand quantity, or with StockAdjustDelta moves it by a signed amount.
// A negative delta goes through the conditional decrement and never leaves stock below zero.
func (s *ProductService) UpdateQuantity(ctx context.Context, input *UpdateQuantityInput) (*entity.Product, error) {
	if input.Mode == "" {
		input.Mode = enum.StockAdjustSet
	}
	if !input.Mode.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "mode", Message: "must be set or adjust"},
		})
	}

	var (
		product *entity.Product
		err     error
	)
	switch {
	case input.Mode == enum.StockAdjustSet:
		if input.Quantity < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity", Message: "must not be negative"},
			})
		}
		product, err = s.productRepo.SetQuantity(ctx, input.Outlet, input.ID, input.Quantity)
	case input.Quantity < 0:
		product, err = s.productRepo.DecrementQuantity(ctx, input.Outlet, input.ID, -input.Quantity)
	default:
		product, err = s.productRepo.IncrementQuantity(ctx, input.Outlet, input.ID, input.Quantity)
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.NewNotFoundError("Product")
	case errors.Is(err, repository.ErrInsufficientStock):
		available := 0
		name := input.ID.String()
		if product != nil {
			available = product.Quantity
			name = product.Name
		}
		return nil, apperror.NewInsufficientStockError(input.ID.String(), name, -input.Quantity, available)
	case err != nil:
		return nil, err
	}

	s.cache.Invalidate(ctx, input.Outlet)
	logger.WithContext(ctx).Info("stock updated",
		"outlet", input.Outlet,
		"product_id", product.ID,
		"mode", input.Mode,
		"amount", input.Quantity,
		"quantity", product.Quantity,
	)
	return product, nil
}

// DeleteProduct deactivates a product. Past bills keep their snapshot.
func (s *ProductService) DeleteProduct(ctx context.Context, outlet enum.Outlet, id uuid.UUID) error {
	if err := s.productRepo.SoftDelete(ctx, outlet, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NewNotFoundError("Product")
		}
		return err
	}
	s.cache.Invalidate(ctx, outlet)
	return nil
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int `json:"totalRows"`
	Successful int `json:"successful"`
}

// ImportProducts validates every row and then creates them all in one transaction.
// A single bad or duplicate row rejects the whole import.
func (s *ProductService) ImportProducts(ctx context.Context, outlet enum.Outlet, rows []CreateProductInput) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "products", Message: "at least one product is required"},
		})
	}

	var fieldErrors []apperror.FieldError
	products := make([]entity.Product, 0, len(rows))
	seenSKUs := make(map[string]int, len(rows))

	for i := range rows {
		row := rows[i]
		row.Outlet = outlet
		product, rowErrors := newProduct(&row)
		for _, fe := range rowErrors {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("products[%d].%s", i, fe.Field), Message: fe.Message})
		}
		if len(rowErrors) > 0 {
			continue
		}

		if prev, exists := seenSKUs[product.SKU]; exists {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("products[%d].sku", i),
				Message: fmt.Sprintf("duplicate sku %s (same as products[%d])", product.SKU, prev),
			})
			continue
		}
		seenSKUs[product.SKU] = i
		products = append(products, *product)
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		for i := range products {
			existing, err := s.productRepo.GetBySKU(txCtx, outlet, products[i].SKU)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperror.NewDuplicateKeyError(fmt.Sprintf("SKU %s already exists", products[i].SKU))
			}
		}
		return s.productRepo.CreateBatch(txCtx, products)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, apperror.NewDuplicateKeyError("SKU already exists")
	}
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, outlet)
	logger.WithContext(ctx).Info("products imported", "outlet", outlet, "count", len(products))
	return &ImportResult{TotalRows: len(rows), Successful: len(products)}, nil
}
