package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/application/service"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing an outlet's products. ?sku= looks up a single product instead.
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	ctx := c.Request.Context()
	outlet := GetOutlet(c)

	if filter.SKU != "" {
		product, err := h.productService.LookupBySKU(ctx, outlet, filter.SKU)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Product retrieved successfully", product)
		return
	}

	params := &repository.ProductFilterParams{
		Search:   filter.Search,
		LowStock: filter.LowStock,
	}
	if filter.Category != "" {
		category := enum.Category(filter.Category)
		if !category.IsValid() {
			response.BadRequest(c, "Invalid category")
			return
		}
		params.Category = &category
	}

	products, err := h.productService.ListProducts(ctx, outlet, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", products)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := createProductInput(GetOutlet(c), &req)
	product, err := h.productService.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

func createProductInput(outlet enum.Outlet, req *request.CreateProductRequest) service.CreateProductInput {
	return service.CreateProductInput{
		Outlet:        outlet,
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      enum.Category(req.Category),
		SKU:           req.SKU,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Description:   req.Description,
	}
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), GetOutlet(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := &service.UpdateProductInput{
		Outlet:        GetOutlet(c),
		ID:            id,
		Name:          req.Name,
		Brand:         req.Brand,
		SKU:           req.SKU,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Description:   req.Description,
	}
	if req.Category != nil {
		category := enum.Category(*req.Category)
		input.Category = &category
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// UpdateQuantity handles a manual stock correction
func (h *ProductHandler) UpdateQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.UpdateQuantity(c.Request.Context(), &service.UpdateQuantityInput{
		Outlet:   GetOutlet(c),
		ID:       id,
		Quantity: *req.Quantity,
		Mode:     enum.StockAdjustMode(req.Mode),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated successfully", product)
}

// Delete handles deactivating a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), GetOutlet(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ImportProducts handles a bulk import. Either every row is created or none is.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var req request.ImportProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	outlet := GetOutlet(c)
	rows := make([]service.CreateProductInput, 0, len(req.Products))
	for i := range req.Products {
		rows = append(rows, createProductInput(outlet, &req.Products[i]))
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), outlet, rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Products imported successfully", result)
}
