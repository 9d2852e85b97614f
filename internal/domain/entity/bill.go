package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is the immutable record of one completed sale.
type Bill struct {
	ID            uuid.UUID          `gorm:"type:char(36);primaryKey" json:"id"`
	BillNumber    string             `gorm:"size:32;not null;uniqueIndex:idx_bills_outlet_number,priority:2" json:"billNumber"`
	Outlet        enum.Outlet        `gorm:"size:20;not null;index;uniqueIndex:idx_bills_outlet_number,priority:1" json:"outlet"`
	CustomerName  string             `gorm:"size:255" json:"customerName"`
	CustomerPhone string             `gorm:"size:50" json:"customerPhone"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount      decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total         decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	Profit        decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"profit"`
	PaymentMethod enum.PaymentMethod `gorm:"size:32;not null" json:"paymentMethod"`
	CreatedAt     time.Time          `gorm:"index" json:"createdAt"`

	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is one line of a bill. Price fields are copied from the product at sale time.
type BillItem struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey" json:"-"`
	BillID        uuid.UUID       `gorm:"type:char(36);not null;index" json:"-"`
	Line          int             `gorm:"not null" json:"line"`
	ProductID     uuid.UUID       `gorm:"type:char(36);not null;index" json:"productId"`
	ProductName   string          `gorm:"size:255;not null" json:"productName"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchasePrice"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
	LineProfit    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineProfit"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
