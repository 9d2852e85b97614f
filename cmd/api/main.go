package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/application/service"
	"github.com/sangkips/outlet-pos/internal/config"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/infrastructure/cache"
	"github.com/sangkips/outlet-pos/internal/infrastructure/database"
	"github.com/sangkips/outlet-pos/internal/infrastructure/messaging"
	"github.com/sangkips/outlet-pos/internal/infrastructure/repository"
	"github.com/sangkips/outlet-pos/internal/presentation/http/handler"
	"github.com/sangkips/outlet-pos/internal/presentation/http/middleware"
	"github.com/sangkips/outlet-pos/internal/presentation/http/routes"
	"github.com/sangkips/outlet-pos/pkg/logger"
	"github.com/sangkips/outlet-pos/pkg/printer"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		slog.Error("failed to initialise logger", "error", err)
		os.Exit(1)
	}
	log := logger.Get()

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level)
	if err != nil {
		log.Error("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.Database.SeedDemo {
		if err := database.SeedDemoData(db); err != nil {
			log.Warn("failed to seed demo data", "error", err)
		}
	}

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Product list cache
	productCache := cache.NewNoopProductCache()
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, product cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer client.Close()
			productCache = cache.NewRedisProductCache(client, cfg.Redis.TTL)
		}
	}

	// Initialize services
	billService := service.NewBillService(transactor, billRepo, productRepo, outboxRepo, productCache, service.BillServiceConfig{
		TaxRate:               cfg.Billing.TaxRate,
		Location:              cfg.Billing.Location,
		MaxAllocationAttempts: cfg.Billing.MaxAllocationAttempts,
		PublishEvents:         cfg.Kafka.Enabled(),
	})
	productService := service.NewProductService(productRepo, transactor, productCache)
	reportService := service.NewReportService(billRepo, productRepo, cfg.Billing.Location)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("failed to initialise printer", "type", cfg.Printer.Type, "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	printerService := service.NewPrinterService(thermalPrinter, billService, service.ReceiptSettings{
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
		Store: entity.ReceiptHeader{
			StoreName: cfg.Store.Name,
			Address:   cfg.Store.Address,
			Phone:     cfg.Store.Phone,
		},
		Footer:   cfg.Store.Footer,
		Location: cfg.Billing.Location,
	})

	handlers := &routes.Handlers{
		Health:  handler.NewHealthHandler(db, cfg.App.Name, cfg.Redis.Enabled(), cfg.Kafka.Enabled()),
		Product: handler.NewProductHandler(productService),
		Bill:    handler.NewBillHandler(billService, cfg.Billing.Location),
		Report:  handler.NewReportHandler(reportService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewIPRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "5000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return rateLimiter.Run(gctx)
	})

	janitor := service.NewIdempotencyJanitor(idempotencyRepo, cfg.Idempotency.PurgeInterval, log)
	g.Go(func() error {
		return janitor.Run(gctx)
	})

	if cfg.Kafka.Enabled() {
		startOutbox(gctx, g, cfg, outboxRepo, log)
	}

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// startOutbox publishes committed sale events to Kafka until ctx is cancelled.
func startOutbox(ctx context.Context, g *errgroup.Group, cfg *config.Config, outboxRepo domainRepo.OutboxRepository, log *slog.Logger) {
	producer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.BillsTopic)
	worker := messaging.NewOutboxWorker(outboxRepo, producer, cfg.Kafka.PollInterval, cfg.Kafka.BatchSize, log)

	g.Go(func() error {
		defer producer.Close()
		log.Info("outbox worker started", "topic", cfg.Kafka.BillsTopic, "brokers", cfg.Kafka.Brokers)
		return worker.Run(ctx)
	})
}
