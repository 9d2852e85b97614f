package service

import (
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BillLine pairs a resolved product with the quantity sold.
type BillLine struct {
	Product  *entity.Product
	Quantity int
}

// BillTotals is the priced form of a cart. Items carry the price snapshot.
type BillTotals struct {
	Items    []entity.BillItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Profit   decimal.Decimal
}

// ComputeBill prices lines without touching storage.
//
// Tax is charged on the subtotal and rounded to cents. The discount comes off
// the total and, in full, off the profit; it is not spread across lines.
func ComputeBill(lines []BillLine, discount, taxRate decimal.Decimal) (*BillTotals, error) {
	totals := &BillTotals{
		Items:    make([]entity.BillItem, 0, len(lines)),
		Subtotal: decimal.Zero,
		Discount: discount,
	}
	lineProfits := decimal.Zero

	for i, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		lineTotal := line.Product.SellingPrice.Mul(qty)
		lineProfit := line.Product.SellingPrice.Sub(line.Product.PurchasePrice).Mul(qty)

		totals.Items = append(totals.Items, entity.BillItem{
			Line:          i + 1,
			ProductID:     line.Product.ID,
			ProductName:   line.Product.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.Product.SellingPrice,
			PurchasePrice: line.Product.PurchasePrice,
			LineTotal:     lineTotal,
			LineProfit:    lineProfit,
		})
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
		lineProfits = lineProfits.Add(lineProfit)
	}

	totals.Tax = totals.Subtotal.Mul(taxRate).Round(2)
	gross := totals.Subtotal.Add(totals.Tax)
	if discount.GreaterThan(gross) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount", Message: "discount cannot exceed the bill total of " + gross.StringFixed(2)},
		})
	}

	totals.Total = gross.Sub(discount)
	totals.Profit = lineProfits.Sub(discount)
	return totals, nil
}
