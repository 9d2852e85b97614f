package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/config"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/presentation/http/handler"
	"github.com/sangkips/outlet-pos/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Bill    *handler.BillHandler
	Report  *handler.ReportHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.IPRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerBillRoutes(v1, h, deps)
	registerProductRoutes(v1, h)
	registerReportRoutes(v1, h)

	v1.GET("/printer/status", h.Printer.GetStatus)

	return router
}

func registerBillRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := v1.Group("/bills")
	{
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
		}), h.Bill.Create)

		outlet := bills.Group("/:outlet", middleware.OutletMiddleware())
		outlet.GET("", h.Bill.List)
		outlet.GET("/:id", h.Bill.Get)
		outlet.POST("/:id/print", h.Printer.PrintBill)
		outlet.GET("/:id/receipt", h.Printer.Receipt)
	}
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products/:outlet", middleware.OutletMiddleware())
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.ImportProducts)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.PUT("/:id/quantity", h.Product.UpdateQuantity)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports/:outlet", middleware.OutletMiddleware())
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/inventory", h.Report.Inventory)
	}
}
