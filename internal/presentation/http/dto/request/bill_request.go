package request

import "github.com/shopspring/decimal"

// CreateBillRequest represents a sale submitted from the till
type CreateBillRequest struct {
	Outlet        string            `json:"outlet" binding:"required"`
	CustomerName  string            `json:"customerName" binding:"max=255"`
	CustomerPhone string            `json:"customerPhone" binding:"max=50"`
	Items         []BillItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      *decimal.Decimal  `json:"discount"`
	PaymentMethod string            `json:"paymentMethod"`
}

// BillItemRequest is one cart line
type BillItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// BillFilterRequest represents bill list parameters. Supplying cursor or limit
// switches to keyset pagination.
type BillFilterRequest struct {
	Search    string `form:"search"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Page      int    `form:"page"`
	PerPage   int    `form:"perPage"`
	Cursor    string `form:"cursor"`
	Limit     int    `form:"limit"`
}

// ReportRangeRequest bounds a sales report. Both dates are YYYY-MM-DD.
type ReportRangeRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}
