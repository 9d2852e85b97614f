package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Brand         string          `json:"brand" binding:"required,max=255"`
	Category      string          `json:"category" binding:"required,oneof=Bicycle Accessories Parts Clothing Tools"`
	SKU           string          `json:"sku" binding:"omitempty,max=100"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Quantity      int             `json:"quantity" binding:"min=0"`
	MinStockLevel *int            `json:"minStockLevel" binding:"omitempty,min=0"`
	Description   string          `json:"description"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Brand         *string          `json:"brand" binding:"omitempty,min=1,max=255"`
	Category      *string          `json:"category" binding:"omitempty,oneof=Bicycle Accessories Parts Clothing Tools"`
	SKU           *string          `json:"sku" binding:"omitempty,min=1,max=100"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
	Quantity      *int             `json:"quantity" binding:"omitempty,min=0"`
	MinStockLevel *int             `json:"minStockLevel" binding:"omitempty,min=0"`
	Description   *string          `json:"description"`
}

// UpdateQuantityRequest is a manual stock correction. Mode defaults to set.
type UpdateQuantityRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Mode     string `json:"mode" binding:"omitempty,oneof=set adjust"`
}

// ImportProductsRequest carries the rows of a bulk import
type ImportProductsRequest struct {
	Products []CreateProductRequest `json:"products" binding:"required,min=1,dive"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"lowStock"`
	SKU      string `form:"sku"`
}
