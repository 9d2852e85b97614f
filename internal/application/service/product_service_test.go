package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/infrastructure/cache"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helmetInput(sku string) *CreateProductInput {
	return &CreateProductInput{
		Outlet:        enum.OutletHarigala,
		Name:          "Helmet",
		Brand:         "Bell",
		Category:      enum.CategoryAccessories,
		SKU:           sku,
		PurchasePrice: decimal.RequireFromString("2500"),
		SellingPrice:  decimal.RequireFromString("4200"),
		Quantity:      12,
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newTestEnv(t).productService()

	p, err := svc.CreateProduct(context.Background(), helmetInput("  acc-helm-01 "))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "ACC-HELM-01", p.SKU)
	assert.Equal(t, entity.DefaultMinStockLevel, p.MinStockLevel)
	assert.True(t, p.IsActive)

	_, err = svc.CreateProduct(context.Background(), helmetInput("ACC-HELM-01"))
	appErr := requireReason(t, err, apperror.ReasonDuplicateKey)
	assert.Equal(t, 409, appErr.Code)

	// skus are unique per outlet only
	other := helmetInput("ACC-HELM-01")
	other.Outlet = enum.OutletArandara
	_, err = svc.CreateProduct(context.Background(), other)
	require.NoError(t, err)
}

func TestCreateProductGeneratesSKU(t *testing.T) {
	svc := newTestEnv(t).productService()

	p, err := svc.CreateProduct(context.Background(), helmetInput(""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.SKU, "HAR-"), p.SKU)
	assert.Len(t, p.SKU, len("HAR-")+8)

	found, err := svc.LookupBySKU(context.Background(), enum.OutletHarigala, strings.ToLower(p.SKU))
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestEnv(t).productService()

	minStock := -1
	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Outlet:        enum.OutletHarigala,
		Category:      "Cars",
		PurchasePrice: decimal.RequireFromString("-1"),
		SellingPrice:  decimal.RequireFromString("10"),
		Quantity:      -3,
		MinStockLevel: &minStock,
	})
	appErr := requireReason(t, err, apperror.ReasonValidation)

	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "brand", "category", "purchasePrice", "quantity", "minStockLevel"}, fields)
}

func TestUpdateQuantity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	p := env.seedProduct(t, enum.OutletHarigala, "Q-1", "10", "20", 5)
	ctx := context.Background()

	got, err := svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)

	got, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: 4, Mode: enum.StockAdjustDelta})
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	got, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: -12, Mode: enum.StockAdjustDelta})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	_, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: -1, Mode: enum.StockAdjustDelta})
	requireReason(t, err, apperror.ReasonInsufficientStock)

	_, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: -1})
	requireReason(t, err, apperror.ReasonValidation)

	_, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: 1, Mode: "replace"})
	requireReason(t, err, apperror.ReasonValidation)

	_, err = svc.UpdateQuantity(ctx, &UpdateQuantityInput{Outlet: enum.OutletArandara, ID: p.ID, Quantity: 1})
	requireReason(t, err, apperror.ReasonNotFound)

	assert.Equal(t, 0, env.quantity(t, enum.OutletHarigala, p))
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	a := env.seedProduct(t, enum.OutletHarigala, "U-1", "10", "20", 5)
	env.seedProduct(t, enum.OutletHarigala, "U-2", "10", "20", 5)

	taken := "u-2"
	_, err := svc.UpdateProduct(context.Background(), &UpdateProductInput{Outlet: enum.OutletHarigala, ID: a.ID, SKU: &taken})
	requireReason(t, err, apperror.ReasonDuplicateKey)

	same := "U-1"
	price := decimal.RequireFromString("25")
	updated, err := svc.UpdateProduct(context.Background(), &UpdateProductInput{
		Outlet:       enum.OutletHarigala,
		ID:           a.ID,
		SKU:          &same,
		SellingPrice: &price,
	})
	require.NoError(t, err)
	assertDecimal(t, "25", updated.SellingPrice)

	negative := decimal.RequireFromString("-5")
	_, err = svc.UpdateProduct(context.Background(), &UpdateProductInput{Outlet: enum.OutletHarigala, ID: a.ID, PurchasePrice: &negative})
	requireReason(t, err, apperror.ReasonValidation)
}

// saleDuringUpdate commits a sale from another till after UpdateProduct has
// read the product and before its write lands.
type saleDuringUpdate struct {
	repository.ProductRepository
	sell func()
}

func (r saleDuringUpdate) Update(ctx context.Context, outlet enum.Outlet, id uuid.UUID, changes map[string]interface{}) (*entity.Product, error) {
	r.sell()
	return r.ProductRepository.Update(ctx, outlet, id, changes)
}

func TestUpdateProductKeepsConcurrentSale(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, enum.OutletHarigala, "R-1", "100", "150", 5)
	bills := env.billService(BillServiceConfig{TaxRate: decimal.Zero})

	sold := false
	svc := NewProductService(saleDuringUpdate{
		ProductRepository: env.products,
		sell: func() {
			if sold {
				return
			}
			sold = true
			_, err := bills.CreateBill(context.Background(), &CreateBillInput{
				Outlet: enum.OutletHarigala,
				Items:  []BillItemInput{{ProductID: p.ID, Quantity: 3}},
			})
			require.NoError(t, err)
		},
	}, env.transactor, cache.NewNoopProductCache())

	name := "Road Helmet"
	updated, err := svc.UpdateProduct(context.Background(), &UpdateProductInput{
		Outlet: enum.OutletHarigala,
		ID:     p.ID,
		Name:   &name,
	})
	require.NoError(t, err)
	require.True(t, sold)

	assert.Equal(t, "Road Helmet", updated.Name)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, 2, env.quantity(t, enum.OutletHarigala, p))
}

func TestUpdateProductWithQuantity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	p := env.seedProduct(t, enum.OutletHarigala, "R-2", "100", "150", 5)

	name := "Gravel Bike"
	qty := 7
	updated, err := svc.UpdateProduct(context.Background(), &UpdateProductInput{
		Outlet:   enum.OutletHarigala,
		ID:       p.ID,
		Name:     &name,
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gravel Bike", updated.Name)
	assert.Equal(t, 7, updated.Quantity)

	zero := 0
	updated, err = svc.UpdateProduct(context.Background(), &UpdateProductInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, "Gravel Bike", updated.Name)

	negative := -1
	_, err = svc.UpdateProduct(context.Background(), &UpdateProductInput{Outlet: enum.OutletHarigala, ID: p.ID, Quantity: &negative})
	requireReason(t, err, apperror.ReasonValidation)
	assert.Equal(t, 0, env.quantity(t, enum.OutletHarigala, p))
}

func TestDeleteProductKeepsSKUReserved(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	p := env.seedProduct(t, enum.OutletHarigala, "D-1", "10", "20", 5)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, enum.OutletHarigala, p.ID))

	_, err := svc.GetProduct(ctx, enum.OutletHarigala, p.ID)
	requireReason(t, err, apperror.ReasonNotFound)

	err = svc.DeleteProduct(ctx, enum.OutletHarigala, p.ID)
	requireReason(t, err, apperror.ReasonNotFound)

	_, err = svc.LookupBySKU(ctx, enum.OutletHarigala, "D-1")
	requireReason(t, err, apperror.ReasonNotFound)

	_, err = svc.CreateProduct(ctx, helmetInput("D-1"))
	requireReason(t, err, apperror.ReasonDuplicateKey)

	list, err := svc.ListProducts(ctx, enum.OutletHarigala, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()

	low := env.seedProduct(t, enum.OutletHarigala, "F-1", "10", "20", 2)
	env.seedProduct(t, enum.OutletHarigala, "F-2", "10", "20", 50)
	env.seedProduct(t, enum.OutletArandara, "F-3", "10", "20", 1)

	all, err := svc.ListProducts(ctx, enum.OutletHarigala, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	lowStock, err := svc.ListProducts(ctx, enum.OutletHarigala, &repository.ProductFilterParams{LowStock: true})
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)

	searched, err := svc.ListProducts(ctx, enum.OutletHarigala, &repository.ProductFilterParams{Search: "f-2"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "F-2", searched[0].SKU)

	tools := enum.CategoryTools
	none, err := svc.ListProducts(ctx, enum.OutletHarigala, &repository.ProductFilterParams{Category: &tools})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestImportProducts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()

	rows := []CreateProductInput{*helmetInput("IMP-1"), *helmetInput("IMP-2"), *helmetInput("")}
	result, err := svc.ImportProducts(ctx, enum.OutletHarigala, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.Successful)

	count, err := env.products.CountActive(ctx, enum.OutletHarigala)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestImportProductsIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()
	env.seedProduct(t, enum.OutletHarigala, "EXISTING", "10", "20", 5)

	t.Run("duplicate inside the file", func(t *testing.T) {
		_, err := svc.ImportProducts(ctx, enum.OutletHarigala, []CreateProductInput{*helmetInput("X-1"), *helmetInput("x-1")})
		appErr := requireReason(t, err, apperror.ReasonValidation)
		require.Len(t, appErr.Errors, 1)
		assert.Equal(t, "products[1].sku", appErr.Errors[0].Field)
	})

	t.Run("invalid row", func(t *testing.T) {
		bad := *helmetInput("X-2")
		bad.Name = ""
		_, err := svc.ImportProducts(ctx, enum.OutletHarigala, []CreateProductInput{*helmetInput("X-3"), bad})
		appErr := requireReason(t, err, apperror.ReasonValidation)
		assert.Equal(t, "products[1].name", appErr.Errors[0].Field)
	})

	t.Run("sku already stored", func(t *testing.T) {
		_, err := svc.ImportProducts(ctx, enum.OutletHarigala, []CreateProductInput{*helmetInput("X-4"), *helmetInput("EXISTING")})
		requireReason(t, err, apperror.ReasonDuplicateKey)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ImportProducts(ctx, enum.OutletHarigala, nil)
		requireReason(t, err, apperror.ReasonValidation)
	})

	count, err := env.products.CountActive(ctx, enum.OutletHarigala)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
