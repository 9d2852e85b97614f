package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/sangkips/outlet-pos/pkg/logger"
	"github.com/sangkips/outlet-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

// ReceiptSettings describes the paper and the store details printed on every receipt.
type ReceiptSettings struct {
	PrinterType string
	// Width is the paper width in characters, 32 for 58mm and 48 for 80mm.
	Width    int
	Store    entity.ReceiptHeader
	Footer   string
	Location *time.Location
}

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer  printer.Printer
	bills    *BillService
	settings ReceiptSettings
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, bills *BillService, settings ReceiptSettings) *PrinterService {
	if settings.Width <= 0 {
		settings.Width = 32
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &PrinterService{
		printer:  p,
		bills:    bills,
		settings: settings,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.settings.PrinterType != "none" && s.settings.PrinterType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.settings.PrinterType,
		Width:      s.settings.Width,
	}
}

// Receipt builds the printable view of a stored bill.
func (s *PrinterService) Receipt(ctx context.Context, outlet enum.Outlet, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.bills.GetBill(ctx, outlet, billID)
	if err != nil {
		return nil, err
	}
	return s.NewReceipt(bill), nil
}

// NewReceipt maps a bill onto the receipt layout.
func (s *PrinterService) NewReceipt(bill *entity.Bill) *entity.Receipt {
	header := s.settings.Store
	header.Outlet = bill.Outlet.DisplayName()

	receipt := &entity.Receipt{
		Header:        header,
		BillNumber:    bill.BillNumber,
		Date:          bill.CreatedAt.In(s.settings.Location).Format("2006-01-02 15:04"),
		Customer:      bill.CustomerName,
		CustomerPhone: bill.CustomerPhone,
		PaymentMethod: bill.PaymentMethod.String(),
		Items:         make([]entity.ReceiptItem, 0, len(bill.Items)),
		SubTotal:      bill.Subtotal,
		Tax:           bill.Tax,
		Discount:      bill.Discount,
		Total:         bill.Total,
		Footer:        s.settings.Footer,
	}
	for _, item := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal,
		})
	}
	return receipt
}

// ReceiptPreview renders the receipt as plain text without sending it anywhere.
func (s *PrinterService) ReceiptPreview(ctx context.Context, outlet enum.Outlet, billID uuid.UUID) (string, error) {
	receipt, err := s.Receipt(ctx, outlet, billID)
	if err != nil {
		return "", err
	}
	return FormatReceipt(receipt, s.settings.Width).PlainText(), nil
}

// PrintBill fetches a bill and prints its receipt.
// The receipt is returned even when printing fails so the caller can show it.
func (s *PrinterService) PrintBill(ctx context.Context, outlet enum.Outlet, billID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.Receipt(ctx, outlet, billID)
	if err != nil {
		return nil, err
	}

	doc := FormatReceipt(receipt, s.settings.Width)
	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		logger.WithContext(ctx).Error("printer error",
			"bill_number", receipt.BillNumber,
			"printer", s.settings.PrinterType,
			"error", err,
		)
		return receipt, &apperror.AppError{
			Code:    http.StatusServiceUnavailable,
			Message: fmt.Sprintf("Failed to print receipt: %v", err),
			Reason:  apperror.ReasonInternal,
		}
	}

	logger.WithContext(ctx).Info("receipt printed", "bill_number", receipt.BillNumber)
	return receipt, nil
}

// FormatReceipt lays out a receipt for a printer width characters wide.
func FormatReceipt(r *entity.Receipt, width int) *printer.Document {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Outlet != "" {
		doc.Text(r.Header.Outlet)
	}
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Tel: %s", r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill:", r.BillNumber).
		KeyValue("Date:", r.Date)

	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Phone:", r.CustomerPhone)
	}
	doc.KeyValue("Payment:", r.PaymentMethod)

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.Tax.IsPositive() {
		doc.KeyValue("Tax:", money(r.Tax))
	}
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	doc.Separator('-')

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
