package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"storeName"`
	Outlet    string `json:"outlet"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a printable view of a bill. It is composed at print time and never stored.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	BillNumber    string          `json:"billNumber"`
	Date          string          `json:"date"`
	Customer      string          `json:"customer,omitempty"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []ReceiptItem   `json:"items"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Footer        string          `json:"footer,omitempty"`
}
