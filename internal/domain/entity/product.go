package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultMinStockLevel is applied when a product is created without a threshold.
const DefaultMinStockLevel = 10

// Product is one outlet's sellable item. Quantity is the on-hand stock and never goes negative.
type Product struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Outlet        enum.Outlet     `gorm:"size:20;not null;index;uniqueIndex:idx_products_outlet_sku,priority:1" json:"outlet"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Brand         string          `gorm:"size:255;not null" json:"brand"`
	Category      enum.Category   `gorm:"size:32;not null;index" json:"category"`
	SKU           string          `gorm:"column:sku;size:100;not null;uniqueIndex:idx_products_outlet_sku,priority:2" json:"sku"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchasePrice"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sellingPrice"`
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`
	MinStockLevel int             `gorm:"not null" json:"minStockLevel"`
	Description   string          `gorm:"type:text" json:"description"`
	IsActive      bool            `gorm:"not null;index" json:"isActive"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsOutOfStock reports an empty shelf.
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// IsLowStock reports stock at or below the reorder threshold, including out of stock.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// StockValue is the on-hand quantity valued at purchase price.
func (p *Product) StockValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
