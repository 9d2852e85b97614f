package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportRange(t *testing.T) {
	from, to, err := ParseReportRange("2026-01-10", "2026-01-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), *to)

	from, to, err = ParseReportRange("", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	// a single day is a valid range
	_, _, err = ParseReportRange("2026-01-15", "2026-01-15", time.UTC)
	require.NoError(t, err)

	_, _, err = ParseReportRange("2026-01-16", "2026-01-15", time.UTC)
	appErr := requireReason(t, err, apperror.ReasonValidation)
	assert.Equal(t, "endDate", appErr.Errors[0].Field)

	_, _, err = ParseReportRange("15/01/2026", "tomorrow", time.UTC)
	appErr = requireReason(t, err, apperror.ReasonValidation)
	assert.Len(t, appErr.Errors, 2)
}

func TestSalesReport(t *testing.T) {
	env := newTestEnv(t)
	bike := env.seedProduct(t, enum.OutletHarigala, "S-BIKE", "700", "1000", 20)
	tube := env.seedProduct(t, enum.OutletHarigala, "S-TUBE", "5", "8", 100)
	ctx := context.Background()

	day1 := env.billService(BillServiceConfig{TaxRate: decimal.Zero})
	day2 := env.billService(BillServiceConfig{TaxRate: decimal.Zero},
		WithClock(func() time.Time { return testDay.AddDate(0, 0, 1) }))

	sell := func(svc *BillService, items ...BillItemInput) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{Outlet: enum.OutletHarigala, Items: items})
		require.NoError(t, err)
	}
	sell(day1, BillItemInput{ProductID: bike.ID, Quantity: 1})
	sell(day1, BillItemInput{ProductID: tube.ID, Quantity: 10})
	sell(day2, BillItemInput{ProductID: bike.ID, Quantity: 2}, BillItemInput{ProductID: tube.ID, Quantity: 5})

	reports := NewReportService(env.bills, env.products, time.UTC)

	report, err := reports.SalesReport(ctx, enum.OutletHarigala, "", "")
	require.NoError(t, err)
	assert.Equal(t, enum.OutletHarigala, report.Outlet)
	assert.Equal(t, 3, report.Summary.TotalBills)
	// 1000 + 80 + 2040
	assertDecimal(t, "3120", report.Summary.TotalSales)
	// 300 + 30 + 615
	assertDecimal(t, "945", report.Summary.TotalProfit)
	assertDecimal(t, "1040", report.Summary.AverageOrderValue)

	require.Len(t, report.DailySales, 2)
	assert.Equal(t, "2026-01-15", report.DailySales[0].Date)
	assert.Equal(t, 2, report.DailySales[0].Bills)
	assertDecimal(t, "1080", report.DailySales[0].Sales)
	assert.Equal(t, "2026-01-16", report.DailySales[1].Date)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, bike.ID, report.TopProducts[0].ProductID)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
	assertDecimal(t, "3000", report.TopProducts[0].Revenue)
	assert.Equal(t, 15, report.TopProducts[1].Quantity)

	// the end day is included in full
	firstDay, err := reports.SalesReport(ctx, enum.OutletHarigala, "2026-01-15", "2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2, firstDay.Summary.TotalBills)

	secondDay, err := reports.SalesReport(ctx, enum.OutletHarigala, "2026-01-16", "")
	require.NoError(t, err)
	assert.Equal(t, 1, secondDay.Summary.TotalBills)

	other, err := reports.SalesReport(ctx, enum.OutletArandara, "", "")
	require.NoError(t, err)
	assert.Zero(t, other.Summary.TotalBills)
	assert.NotNil(t, other.DailySales)
	assert.NotNil(t, other.TopProducts)
	assertDecimal(t, "0", other.Summary.AverageOrderValue)
}

func TestInventoryReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedProduct(t, enum.OutletHarigala, "I-1", "100", "150", 0)
	env.seedProduct(t, enum.OutletHarigala, "I-2", "10", "15", 5)
	big := env.seedProduct(t, enum.OutletHarigala, "I-3", "2", "3", 50)
	_, err := env.products.Update(ctx, enum.OutletHarigala, big.ID, map[string]interface{}{"category": enum.CategoryParts})
	require.NoError(t, err)
	env.seedProduct(t, enum.OutletArandara, "I-4", "1", "2", 1)

	report, err := NewReportService(env.bills, env.products, time.UTC).InventoryReport(ctx, enum.OutletHarigala)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TotalProducts)
	// 0 + 50 + 100
	assertDecimal(t, "150", report.Summary.TotalValue)
	assert.Equal(t, 2, report.Summary.LowStockCount)
	assert.Equal(t, 1, report.Summary.OutOfStockCount)
	require.Len(t, report.OutOfStockProducts, 1)
	assert.Equal(t, "I-1", report.OutOfStockProducts[0].SKU)

	require.Len(t, report.CategoryBreakdown, 2)
	assert.Equal(t, enum.CategoryBicycle, report.CategoryBreakdown[0].Category)
	assert.Equal(t, 2, report.CategoryBreakdown[0].Count)
	assert.Equal(t, enum.CategoryParts, report.CategoryBreakdown[1].Category)
	assert.Equal(t, 50, report.CategoryBreakdown[1].Quantity)
	assertDecimal(t, "100", report.CategoryBreakdown[1].Value)
}

