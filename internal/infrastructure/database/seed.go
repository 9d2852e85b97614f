package database

import (
	"fmt"
	"log/slog"

	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type demoProduct struct {
	name, brand, sku string
	category         enum.Category
	purchase, sell   int64
	quantity         int
}

var demoCatalog = []demoProduct{
	{"Mountain Bike 26\"", "Trek", "BIKE-MTB-26", enum.CategoryBicycle, 38000, 52000, 4},
	{"City Bike 28\"", "Giant", "BIKE-CTY-28", enum.CategoryBicycle, 30000, 41000, 6},
	{"Helmet", "Bell", "ACC-HELM-01", enum.CategoryAccessories, 2500, 4200, 20},
	{"Inner Tube 26x1.95", "Kenda", "PRT-TUBE-26", enum.CategoryParts, 350, 600, 60},
	{"Brake Pads", "Shimano", "PRT-BRK-01", enum.CategoryParts, 700, 1200, 8},
	{"Cycling Jersey", "Castelli", "CLO-JER-M", enum.CategoryClothing, 3000, 5200, 12},
	{"Multi Tool", "Topeak", "TLS-MULTI-01", enum.CategoryTools, 1800, 3000, 0},
}

// SeedDemoData fills empty outlet catalogs with a small demo catalog.
func SeedDemoData(db *gorm.DB) error {
	for _, outlet := range enum.Outlets {
		var count int64
		if err := db.Model(&entity.Product{}).Where("outlet = ?", outlet).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count products for %s: %w", outlet, err)
		}
		if count > 0 {
			continue
		}

		products := make([]entity.Product, 0, len(demoCatalog))
		for _, d := range demoCatalog {
			products = append(products, entity.Product{
				Outlet:        outlet,
				Name:          d.name,
				Brand:         d.brand,
				Category:      d.category,
				SKU:           d.sku,
				PurchasePrice: decimal.NewFromInt(d.purchase),
				SellingPrice:  decimal.NewFromInt(d.sell),
				Quantity:      d.quantity,
				MinStockLevel: entity.DefaultMinStockLevel,
				IsActive:      true,
			})
		}
		if err := db.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products for %s: %w", outlet, err)
		}
		slog.Info("seeded demo catalog", "outlet", outlet, "products", len(products))
	}
	return nil
}
