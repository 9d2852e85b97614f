package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/infrastructure/cache"
	"github.com/sangkips/outlet-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/outlet-pos/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDay = time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testDay }

type testEnv struct {
	db         *gorm.DB
	transactor repository.Transactor
	products   repository.ProductRepository
	bills      repository.BillRepository
	outbox     repository.OutboxRepository
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// setupFileTestDB opens a WAL sqlite file with several connections, so sales
// really overlap. Writers take the lock at BEGIN and wait on each other.
func setupFileTestDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "pos.db") + "?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(setupTestDB(t))
}

func newTestEnvWithDB(db *gorm.DB) *testEnv {
	return &testEnv{
		db:         db,
		transactor: infraRepo.NewTransactor(db),
		products:   infraRepo.NewProductRepository(db),
		bills:      infraRepo.NewBillRepository(db),
		outbox:     infraRepo.NewOutboxRepository(db),
	}
}

func (e *testEnv) billService(cfg BillServiceConfig, opts ...BillServiceOption) *BillService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	opts = append([]BillServiceOption{WithClock(fixedClock)}, opts...)
	return NewBillService(e.transactor, e.bills, e.products, e.outbox, cache.NewNoopProductCache(), cfg, opts...)
}

func (e *testEnv) productService() *ProductService {
	return NewProductService(e.products, e.transactor, cache.NewNoopProductCache())
}

func (e *testEnv) seedProduct(t *testing.T, outlet enum.Outlet, sku string, purchase, selling string, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Outlet:        outlet,
		Name:          "Product " + sku,
		Brand:         "Trek",
		Category:      enum.CategoryBicycle,
		SKU:           sku,
		PurchasePrice: decimal.RequireFromString(purchase),
		SellingPrice:  decimal.RequireFromString(selling),
		Quantity:      qty,
		MinStockLevel: entity.DefaultMinStockLevel,
		IsActive:      true,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) quantity(t *testing.T, outlet enum.Outlet, p *entity.Product) int {
	t.Helper()
	got, err := e.products.GetByID(context.Background(), outlet, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got.Quantity
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
