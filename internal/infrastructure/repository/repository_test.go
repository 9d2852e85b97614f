package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/infrastructure/database"
	"github.com/sangkips/outlet-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func newProduct(outlet enum.Outlet, sku string, qty int) *entity.Product {
	return &entity.Product{
		Outlet:        outlet,
		Name:          "Brake Pads",
		Brand:         "Shimano",
		Category:      enum.CategoryParts,
		SKU:           sku,
		PurchasePrice: decimal.NewFromInt(700),
		SellingPrice:  decimal.NewFromInt(1200),
		Quantity:      qty,
		MinStockLevel: 5,
		IsActive:      true,
	}
}

func newBill(outlet enum.Outlet, number string, at time.Time) *entity.Bill {
	return &entity.Bill{
		Outlet:        outlet,
		BillNumber:    number,
		Subtotal:      decimal.NewFromInt(1200),
		Tax:           decimal.Zero,
		Discount:      decimal.Zero,
		Total:         decimal.NewFromInt(1200),
		Profit:        decimal.NewFromInt(500),
		PaymentMethod: enum.PaymentMethodCard,
		CreatedAt:     at,
		Items: []entity.BillItem{{
			Line:          1,
			ProductID:     uuid.New(),
			ProductName:   "Brake Pads",
			Quantity:      1,
			UnitPrice:     decimal.NewFromInt(1200),
			PurchasePrice: decimal.NewFromInt(700),
			LineTotal:     decimal.NewFromInt(1200),
			LineProfit:    decimal.NewFromInt(500),
		}},
	}
}

func TestDecrementQuantity(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	p := newProduct(enum.OutletHarigala, "BRK-1", 5)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.DecrementQuantity(ctx, enum.OutletHarigala, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	got, err = repo.DecrementQuantity(ctx, enum.OutletHarigala, p.ID, 3)
	assert.ErrorIs(t, err, domainRepo.ErrInsufficientStock)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Quantity)

	_, err = repo.DecrementQuantity(ctx, enum.OutletArandara, p.ID, 1)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)

	_, err = repo.DecrementQuantity(ctx, enum.OutletHarigala, uuid.New(), 1)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)

	got, err = repo.DecrementQuantity(ctx, enum.OutletHarigala, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	require.NoError(t, repo.SoftDelete(ctx, enum.OutletHarigala, p.ID))
	_, err = repo.IncrementQuantity(ctx, enum.OutletHarigala, p.ID, 1)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)
}

func TestProductSKUUniquePerOutlet(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct(enum.OutletHarigala, "DUP", 1)))
	require.NoError(t, repo.Create(ctx, newProduct(enum.OutletArandara, "DUP", 1)))

	err := repo.Create(ctx, newProduct(enum.OutletHarigala, "DUP", 1))
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)

	err = repo.CreateBatch(ctx, []entity.Product{
		*newProduct(enum.OutletHarigala, "NEW-1", 1),
		*newProduct(enum.OutletHarigala, "DUP", 1),
	})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)

	missing, err := repo.GetBySKU(ctx, enum.OutletHarigala, "NEW-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateWritesOnlyGivenColumns(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	p := newProduct(enum.OutletHarigala, "UPD-1", 5)
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, newProduct(enum.OutletHarigala, "UPD-2", 1)))

	// stock moves after the caller read p; the rename must not touch it
	_, err := repo.DecrementQuantity(ctx, enum.OutletHarigala, p.ID, 3)
	require.NoError(t, err)

	got, err := repo.Update(ctx, enum.OutletHarigala, p.ID, map[string]interface{}{"name": "Disc Brake Pads"})
	require.NoError(t, err)
	assert.Equal(t, "Disc Brake Pads", got.Name)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, p.SKU, got.SKU)

	_, err = repo.Update(ctx, enum.OutletHarigala, p.ID, map[string]interface{}{"quantity": 9})
	assert.ErrorIs(t, err, errQuantityColumn)

	_, err = repo.Update(ctx, enum.OutletHarigala, p.ID, map[string]interface{}{"sku": "UPD-2"})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)

	_, err = repo.Update(ctx, enum.OutletArandara, p.ID, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)
}

func TestOutletScopeRejectsUnknownOutlet(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newProduct(enum.OutletHarigala, "S-1", 1)))

	products, err := repo.List(ctx, enum.Outlet(""), nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	n, err := repo.CountActive(ctx, enum.OutletHarigala)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLatestNumberWithPrefix(t *testing.T) {
	repo := NewBillRepository(setupTestDB(t))
	ctx := context.Background()
	day := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	latest, err := repo.LatestNumberWithPrefix(ctx, enum.OutletHarigala, "HAR20260115")
	require.NoError(t, err)
	assert.Empty(t, latest)

	for _, number := range []string{"HAR20260115002", "HAR20260115999", "HAR202601151000", "HAR20260114050"} {
		require.NoError(t, repo.Create(ctx, newBill(enum.OutletHarigala, number, day)))
	}

	latest, err = repo.LatestNumberWithPrefix(ctx, enum.OutletHarigala, "HAR20260115")
	require.NoError(t, err)
	assert.Equal(t, "HAR202601151000", latest)

	err = repo.Create(ctx, newBill(enum.OutletHarigala, "HAR20260115002", day))
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)
}

func TestBillListInRange(t *testing.T) {
	repo := NewBillRepository(setupTestDB(t))
	ctx := context.Background()
	day := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBill(enum.OutletHarigala, "HAR20260114001", day.AddDate(0, 0, -1))))
	require.NoError(t, repo.Create(ctx, newBill(enum.OutletHarigala, "HAR20260115001", day)))
	require.NoError(t, repo.Create(ctx, newBill(enum.OutletArandara, "ARA20260115001", day)))

	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	bills, err := repo.ListInRange(ctx, enum.OutletHarigala, &from, &to)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "HAR20260115001", bills[0].BillNumber)
	require.Len(t, bills[0].Items, 1)
	assertEqualDecimal(t, decimal.NewFromInt(1200), bills[0].Items[0].LineTotal)

	all, err := repo.ListInRange(ctx, enum.OutletHarigala, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, total, err := repo.List(ctx, enum.OutletHarigala, &domainRepo.BillFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		Search:     "20260114",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "HAR20260114001", found[0].BillNumber)
}

func assertEqualDecimal(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestTransactorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, newProduct(enum.OutletHarigala, "TX-1", 1)); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := repo.Create(ctx, newProduct(enum.OutletHarigala, "TX-2", 1)); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.CountActive(ctx, enum.OutletHarigala)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, newProduct(enum.OutletHarigala, "TX-3", 1))
	}))
	n, err = repo.CountActive(ctx, enum.OutletHarigala)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOutboxLifecycle(t *testing.T) {
	repo := NewOutboxRepository(setupTestDB(t))
	ctx := context.Background()

	event := &entity.OutboxEvent{
		EventType:   entity.EventBillCreated,
		AggregateID: uuid.New(),
		Outlet:      enum.OutletHarigala,
		Payload:     `{"billNumber":"HAR20260115001"}`,
	}
	require.NoError(t, repo.Create(ctx, event))
	assert.Equal(t, enum.OutboxStatusPending, event.Status)

	claimed, err := repo.Claim(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Claim(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repo.Release(ctx, event.ID, errors.New("broker down")))
	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)

	claimed, err = repo.Claim(ctx, event.ID)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, repo.MarkProcessed(ctx, event.ID))

	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestIdempotencyKeyReplaceExpired(t *testing.T) {
	repo := NewIdempotencyRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	first := &entity.IdempotencyKey{
		Key:          "abc",
		Endpoint:     "POST /api/v1/bills",
		RequestHash:  "h1",
		ResponseCode: 201,
		ResponseBody: `{"first":true}`,
		ExpiresAt:    now.Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := *first
	dup.ID = uuid.Nil
	assert.ErrorIs(t, repo.Create(ctx, &dup), domainRepo.ErrDuplicateKey)

	replacement := &entity.IdempotencyKey{
		ID:           first.ID,
		Key:          "abc",
		Endpoint:     "POST /api/v1/bills",
		RequestHash:  "h2",
		ResponseCode: 201,
		ResponseBody: `{"second":true}`,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, replacement))

	stored, err := repo.GetByKey(ctx, "abc", "POST /api/v1/bills")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "h2", stored.RequestHash)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
