package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/application/service"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/sangkips/outlet-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
	loc         *time.Location
}

// NewBillHandler creates a new bill handler. Date filters are read in loc.
func NewBillHandler(billService *service.BillService, loc *time.Location) *BillHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BillHandler{billService: billService, loc: loc}
}

// Create handles a sale
func (h *BillHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	outlet, ok := enum.ParseOutlet(req.Outlet)
	if !ok {
		response.ValidationError(c, []apperror.FieldError{
			{Field: "outlet", Message: "must be one of harigala, arandara"},
		})
		return
	}

	input := &service.CreateBillInput{
		Outlet:        outlet,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         make([]service.BillItemInput, 0, len(req.Items)),
		Discount:      decimal.Zero,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
	}
	if req.Discount != nil {
		input.Discount = *req.Discount
	}
	for _, item := range req.Items {
		// already validated by the uuid binding tag
		productID, _ := uuid.Parse(item.ProductID)
		input.Items = append(input.Items, service.BillItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// List handles listing bills (supports both page-based and cursor-based pagination)
func (h *BillHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	from, to, err := service.ParseReportRange(filter.StartDate, filter.EndDate, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	outlet := GetOutlet(c)

	if filter.Cursor != "" || filter.Limit > 0 {
		params := &repository.BillCursorFilterParams{
			Cursor: &pagination.CursorParams{Cursor: filter.Cursor, Limit: filter.Limit},
			Search: filter.Search,
			From:   from,
			To:     to,
		}
		params.Cursor.Validate()

		result, err := h.billService.ListBillsWithCursor(c.Request.Context(), outlet, params)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, 200, "Bills retrieved successfully", result)
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		From:       from,
		To:         to,
	}
	params.Pagination.Validate()

	result, err := h.billService.ListBills(c.Request.Context(), outlet, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get handles fetching one bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), GetOutlet(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}
