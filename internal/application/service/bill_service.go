package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/sangkips/outlet-pos/pkg/logger"
	"github.com/sangkips/outlet-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// errAllocationRace marks a bill number collision inside the sale transaction.
var errAllocationRace = errors.New("bill number allocation race")

// BillServiceConfig holds the billing rules.
type BillServiceConfig struct {
	TaxRate               decimal.Decimal
	Location              *time.Location
	MaxAllocationAttempts int
	// PublishEvents writes a bill.created outbox row with every sale.
	PublishEvents bool
}

// BillService creates and reads bills.
type BillService struct {
	transactor  repository.Transactor
	billRepo    repository.BillRepository
	productRepo repository.ProductRepository
	outboxRepo  repository.OutboxRepository
	cache       repository.ProductCache
	allocator   BillNumberAllocator
	cfg         BillServiceConfig
	now         func() time.Time
}

// BillServiceOption customises a BillService.
type BillServiceOption func(*BillService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BillServiceOption {
	return func(s *BillService) { s.now = now }
}

// WithAllocator replaces the default sequential allocator.
func WithAllocator(a BillNumberAllocator) BillServiceOption {
	return func(s *BillService) { s.allocator = a }
}

// NewBillService creates a new bill service
func NewBillService(
	transactor repository.Transactor,
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	outboxRepo repository.OutboxRepository,
	cache repository.ProductCache,
	cfg BillServiceConfig,
	opts ...BillServiceOption,
) *BillService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxAllocationAttempts < 1 {
		cfg.MaxAllocationAttempts = 3
	}
	s := &BillService{
		transactor:  transactor,
		billRepo:    billRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		cfg:         cfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.allocator == nil {
		s.allocator = NewBillNumberAllocator(billRepo, cfg.Location)
	}
	return s
}

// BillItemInput is one cart line.
type BillItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	Outlet        enum.Outlet
	CustomerName  string
	CustomerPhone string
	Items         []BillItemInput
	Discount      decimal.Decimal
	PaymentMethod enum.PaymentMethod
}

// stockDemand is the total quantity a cart takes from one product.
type stockDemand struct {
	product  *entity.Product
	quantity int
}

// CreateBill validates the cart against current stock, prices it and then, in
// one transaction, allocates a bill number, stores the bill and takes the stock.
// Only a bill number collision is retried.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if err := validateCreateBill(input); err != nil {
		return nil, err
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, input.Outlet, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lines := make([]BillLine, 0, len(input.Items))
	demand := make(map[uuid.UUID]*stockDemand, len(input.Items))
	for _, item := range input.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, productNotFound(item.ProductID)
		}
		lines = append(lines, BillLine{Product: product, Quantity: item.Quantity})

		d, ok := demand[product.ID]
		if !ok {
			d = &stockDemand{product: product}
			demand[product.ID] = d
		}
		d.quantity += item.Quantity
	}

	// Checked against the summed demand so repeated lines cannot oversell.
	for _, item := range input.Items {
		d := demand[item.ProductID]
		if d.quantity > d.product.Quantity {
			return nil, apperror.NewInsufficientStockError(d.product.ID.String(), d.product.Name, d.quantity, d.product.Quantity)
		}
	}

	totals, err := ComputeBill(lines, input.Discount, s.cfg.TaxRate)
	if err != nil {
		return nil, err
	}

	// Rows are locked in id order so concurrent sales cannot deadlock each other.
	decrements := make([]*stockDemand, 0, len(demand))
	for _, d := range demand {
		decrements = append(decrements, d)
	}
	sort.Slice(decrements, func(i, j int) bool {
		return decrements[i].product.ID.String() < decrements[j].product.ID.String()
	})

	log := logger.WithContext(ctx).With("outlet", input.Outlet)
	createdAt := s.now().In(s.cfg.Location)

	var bill *entity.Bill
	for attempt := 1; attempt <= s.cfg.MaxAllocationAttempts; attempt++ {
		bill = newBill(input, totals, createdAt)
		err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			return s.commitBill(txCtx, bill, decrements)
		})
		if !errors.Is(err, errAllocationRace) {
			break
		}
		log.Warn("bill number collision, retrying", "bill_number", bill.BillNumber, "attempt", attempt)
	}

	if errors.Is(err, errAllocationRace) {
		log.Error("bill number allocation exhausted", "attempts", s.cfg.MaxAllocationAttempts)
		return nil, apperror.NewAllocationRaceError(s.cfg.MaxAllocationAttempts)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, input.Outlet)
	log.Info("bill created",
		slog.String("bill_number", bill.BillNumber),
		slog.String("total", bill.Total.StringFixed(2)),
		slog.Int("items", len(bill.Items)),
	)
	return bill, nil
}

// commitBill runs inside the sale transaction. Any error rolls everything back.
func (s *BillService) commitBill(ctx context.Context, bill *entity.Bill, decrements []*stockDemand) error {
	number, err := s.allocator.Next(ctx, bill.Outlet, bill.CreatedAt)
	if err != nil {
		return err
	}
	bill.BillNumber = number

	if err := s.billRepo.Create(ctx, bill); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return errAllocationRace
		}
		return err
	}

	for _, d := range decrements {
		product, err := s.productRepo.DecrementQuantity(ctx, bill.Outlet, d.product.ID, d.quantity)
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			available := 0
			if product != nil {
				available = product.Quantity
			}
			return apperror.NewInsufficientStockError(d.product.ID.String(), d.product.Name, d.quantity, available)
		case errors.Is(err, repository.ErrNotFound):
			return productNotFound(d.product.ID)
		case err != nil:
			return err
		}
	}

	if s.cfg.PublishEvents && s.outboxRepo != nil {
		event, err := newBillCreatedEvent(bill)
		if err != nil {
			return err
		}
		if err := s.outboxRepo.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func productNotFound(id uuid.UUID) *apperror.AppError {
	return &apperror.AppError{
		Code:    http.StatusNotFound,
		Message: "Product not found: " + id.String(),
		Reason:  apperror.ReasonNotFound,
	}
}

func validateCreateBill(input *CreateBillInput) error {
	var fieldErrors []apperror.FieldError

	if !input.Outlet.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "outlet", Message: "invalid outlet"})
	}
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].productId", i), Message: "is required"})
		}
		if item.Quantity < 1 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be at least 1"})
		}
	}
	if input.Discount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount", Message: "must not be negative"})
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = enum.PaymentMethodCash
	}
	if !input.PaymentMethod.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "paymentMethod", Message: "must be one of Cash, Card, Bank Transfer"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func newBill(input *CreateBillInput, totals *BillTotals, createdAt time.Time) *entity.Bill {
	items := make([]entity.BillItem, len(totals.Items))
	copy(items, totals.Items)

	return &entity.Bill{
		Outlet:        input.Outlet,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Profit:        totals.Profit,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     createdAt,
		Items:         items,
	}
}

// BillCreatedEvent is the payload published for every committed sale.
type BillCreatedEvent struct {
	BillID        uuid.UUID          `json:"billId"`
	BillNumber    string             `json:"billNumber"`
	Outlet        enum.Outlet        `json:"outlet"`
	PaymentMethod enum.PaymentMethod `json:"paymentMethod"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Profit        decimal.Decimal    `json:"profit"`
	Items         []BillCreatedItem  `json:"items"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// BillCreatedItem is the stock movement carried by a BillCreatedEvent.
type BillCreatedItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

func newBillCreatedEvent(bill *entity.Bill) (*entity.OutboxEvent, error) {
	payload := BillCreatedEvent{
		BillID:        bill.ID,
		BillNumber:    bill.BillNumber,
		Outlet:        bill.Outlet,
		PaymentMethod: bill.PaymentMethod,
		Subtotal:      bill.Subtotal,
		Tax:           bill.Tax,
		Discount:      bill.Discount,
		Total:         bill.Total,
		Profit:        bill.Profit,
		CreatedAt:     bill.CreatedAt,
	}
	for _, item := range bill.Items {
		payload.Items = append(payload.Items, BillCreatedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bill event: %w", err)
	}
	return &entity.OutboxEvent{
		EventType:   entity.EventBillCreated,
		AggregateID: bill.ID,
		Outlet:      bill.Outlet,
		Payload:     string(data),
		Status:      enum.OutboxStatusPending,
	}, nil
}

// GetBill returns a bill with its items.
func (s *BillService) GetBill(ctx context.Context, outlet enum.Outlet, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, outlet, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills newest first with page-based pagination
func (s *BillService) ListBills(ctx context.Context, outlet enum.Outlet, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	bills, total, err := s.billRepo.List(ctx, outlet, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, p), nil
}

// ListBillsWithCursor lists bills newest first using keyset pagination
func (s *BillService) ListBillsWithCursor(ctx context.Context, outlet enum.Outlet, params *repository.BillCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Bill], error) {
	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	bills, err := s.billRepo.ListWithCursor(ctx, outlet, params)
	if err != nil {
		if _, decodeErr := params.Cursor.DecodeCursor(); decodeErr != nil {
			return nil, apperror.NewBadRequestError(decodeErr.Error())
		}
		return nil, err
	}

	p, items := pagination.NewCursorPagination(bills, params.Cursor.Limit,
		func(b entity.Bill) string { return b.ID.String() },
		func(b entity.Bill) time.Time { return b.CreatedAt },
	)
	return pagination.NewCursorPaginatedResult(items, p), nil
}
