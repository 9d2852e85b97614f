package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	reportDateLayout = "2006-01-02"
	topProductsLimit = 10
)

// ReportService aggregates bills and stock into read-only reports
type ReportService struct {
	billRepo    repository.BillRepository
	productRepo repository.ProductRepository
	loc         *time.Location
}

// NewReportService creates a new report service. Report days are calendar days in loc.
func NewReportService(billRepo repository.BillRepository, productRepo repository.ProductRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		billRepo:    billRepo,
		productRepo: productRepo,
		loc:         loc,
	}
}

// SalesSummary holds the headline sales figures
type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalProfit       decimal.Decimal `json:"totalProfit"`
	TotalBills        int             `json:"totalBills"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// DailySales represents a daily sales data point
type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
	Bills  int             `json:"bills"`
}

// ProductSales is one entry of the best sellers list
type ProductSales struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReport represents the sales report for one outlet
type SalesReport struct {
	Outlet      enum.Outlet    `json:"outlet"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
	Summary     SalesSummary   `json:"summary"`
	DailySales  []DailySales   `json:"dailySales"`
	TopProducts []ProductSales `json:"topProducts"`
}

// SalesReport totals the bills created between startDate and endDate, both YYYY-MM-DD and
// both optional. The end day is included in full.
func (s *ReportService) SalesReport(ctx context.Context, outlet enum.Outlet, startDate, endDate string) (*SalesReport, error) {
	from, to, err := ParseReportRange(startDate, endDate, s.loc)
	if err != nil {
		return nil, err
	}

	bills, err := s.billRepo.ListInRange(ctx, outlet, from, to)
	if err != nil {
		return nil, err
	}

	report := buildSalesReport(bills, s.loc)
	report.Outlet = outlet
	report.StartDate = startDate
	report.EndDate = endDate
	return report, nil
}

func buildSalesReport(bills []entity.Bill, loc *time.Location) *SalesReport {
	report := &SalesReport{
		Summary: SalesSummary{
			TotalSales:        decimal.Zero,
			TotalProfit:       decimal.Zero,
			AverageOrderValue: decimal.Zero,
		},
		DailySales:  []DailySales{},
		TopProducts: []ProductSales{},
	}

	days := make(map[string]*DailySales)
	products := make(map[uuid.UUID]*ProductSales)

	for _, bill := range bills {
		report.Summary.TotalSales = report.Summary.TotalSales.Add(bill.Total)
		report.Summary.TotalProfit = report.Summary.TotalProfit.Add(bill.Profit)
		report.Summary.TotalBills++

		date := bill.CreatedAt.In(loc).Format(reportDateLayout)
		day, ok := days[date]
		if !ok {
			day = &DailySales{Date: date, Sales: decimal.Zero, Profit: decimal.Zero}
			days[date] = day
		}
		day.Sales = day.Sales.Add(bill.Total)
		day.Profit = day.Profit.Add(bill.Profit)
		day.Bills++

		for _, item := range bill.Items {
			p, ok := products[item.ProductID]
			if !ok {
				p = &ProductSales{ProductID: item.ProductID, ProductName: item.ProductName, Revenue: decimal.Zero}
				products[item.ProductID] = p
			}
			p.Quantity += item.Quantity
			p.Revenue = p.Revenue.Add(item.LineTotal)
		}
	}

	if report.Summary.TotalBills > 0 {
		report.Summary.AverageOrderValue = report.Summary.TotalSales.
			Div(decimal.NewFromInt(int64(report.Summary.TotalBills))).
			Round(2)
	}

	for _, day := range days {
		report.DailySales = append(report.DailySales, *day)
	}
	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date < report.DailySales[j].Date
	})

	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductName < b.ProductName
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}

	return report
}

// ParseReportRange turns optional YYYY-MM-DD bounds into a half-open [from, to) range in loc.
// to is midnight after endDate.
func ParseReportRange(startDate, endDate string, loc *time.Location) (*time.Time, *time.Time, error) {
	var fieldErrors []apperror.FieldError
	var from, to *time.Time

	if startDate != "" {
		t, err := time.ParseInLocation(reportDateLayout, startDate, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "startDate", Message: "must be YYYY-MM-DD"})
		} else {
			from = &t
		}
	}
	if endDate != "" {
		t, err := time.ParseInLocation(reportDateLayout, endDate, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "endDate", Message: "must be YYYY-MM-DD"})
		} else {
			next := t.AddDate(0, 0, 1)
			to = &next
		}
	}
	if from != nil && to != nil && !from.Before(*to) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}

	if len(fieldErrors) > 0 {
		return nil, nil, apperror.NewValidationError(fieldErrors)
	}
	return from, to, nil
}

// InventorySummary holds the headline stock figures
type InventorySummary struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
}

// CategoryStock is the stock held in one category
type CategoryStock struct {
	Category enum.Category   `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
	Quantity int             `json:"quantity"`
}

// InventoryReport represents the stock report for one outlet
type InventoryReport struct {
	Outlet             enum.Outlet      `json:"outlet"`
	Summary            InventorySummary `json:"summary"`
	LowStockProducts   []entity.Product `json:"lowStockProducts"`
	OutOfStockProducts []entity.Product `json:"outOfStockProducts"`
	CategoryBreakdown  []CategoryStock  `json:"categoryBreakdown"`
}

// InventoryReport values the active stock at purchase price.
func (s *ReportService) InventoryReport(ctx context.Context, outlet enum.Outlet) (*InventoryReport, error) {
	products, err := s.productRepo.List(ctx, outlet, nil)
	if err != nil {
		return nil, err
	}

	report := buildInventoryReport(products)
	report.Outlet = outlet
	return report, nil
}

func buildInventoryReport(products []entity.Product) *InventoryReport {
	report := &InventoryReport{
		Summary:            InventorySummary{TotalValue: decimal.Zero},
		LowStockProducts:   []entity.Product{},
		OutOfStockProducts: []entity.Product{},
		CategoryBreakdown:  []CategoryStock{},
	}
	categories := make(map[enum.Category]*CategoryStock)

	for _, p := range products {
		value := p.StockValue()
		report.Summary.TotalProducts++
		report.Summary.TotalValue = report.Summary.TotalValue.Add(value)

		if p.IsLowStock() {
			report.LowStockProducts = append(report.LowStockProducts, p)
		}
		if p.IsOutOfStock() {
			report.OutOfStockProducts = append(report.OutOfStockProducts, p)
		}

		c, ok := categories[p.Category]
		if !ok {
			c = &CategoryStock{Category: p.Category, Value: decimal.Zero}
			categories[p.Category] = c
		}
		c.Count++
		c.Value = c.Value.Add(value)
		c.Quantity += p.Quantity
	}

	report.Summary.LowStockCount = len(report.LowStockProducts)
	report.Summary.OutOfStockCount = len(report.OutOfStockProducts)

	for _, c := range categories {
		report.CategoryBreakdown = append(report.CategoryBreakdown, *c)
	}
	sort.Slice(report.CategoryBreakdown, func(i, j int) bool {
		return report.CategoryBreakdown[i].Category < report.CategoryBreakdown[j].Category
	})

	return report
}
