package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopdesk/backend/internal/application/catalog"
	orderingapp "github.com/shopdesk/backend/internal/application/ordering"
	reportapp "github.com/shopdesk/backend/internal/application/report"
	transferapp "github.com/shopdesk/backend/internal/application/transfer"
	"github.com/shopdesk/backend/internal/infrastructure/config"
	"github.com/shopdesk/backend/internal/infrastructure/logger"
	"github.com/shopdesk/backend/internal/infrastructure/persistence"
	"github.com/shopdesk/backend/internal/interfaces/http/handler"
	"github.com/shopdesk/backend/internal/interfaces/http/middleware"
	"github.com/shopdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shopdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	customerService := catalogapp.NewCustomerService(customerRepo, orderRepo)
	productService := catalogapp.NewProductService(productRepo, orderRepo)
	checkoutService := orderingapp.NewCheckoutService(txScope)
	reconcileService := orderingapp.NewReconcileService(txScope)
	orderService := orderingapp.NewOrderService(orderRepo)
	reportService := reportapp.NewReportService(reportRepo)
	exportService := transferapp.NewExportService(customerRepo, productRepo, orderRepo)
	importService := transferapp.NewImportService(customerRepo, productRepo, orderRepo)

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService, checkoutService, reconcileService)
	reportHandler := handler.NewReportHandler(reportService)
	transferHandler := handler.NewTransferHandler(exportService, importService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Catalog domain (customers, products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/customers", customerHandler.Create)
	catalogRoutes.GET("/customers", customerHandler.List)
	catalogRoutes.GET("/customers/:id", customerHandler.GetByID)
	catalogRoutes.PUT("/customers/:id", customerHandler.Update)
	catalogRoutes.DELETE("/customers/:id", customerHandler.Delete)
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	// Ordering domain (orders, checkout, reconciliation)
	orderingRoutes := router.NewDomainGroup("ordering", "/ordering")
	orderingRoutes.POST("/orders/checkout", orderHandler.Checkout)
	orderingRoutes.POST("/orders/cart-total", orderHandler.CartTotal)
	orderingRoutes.GET("/orders", orderHandler.List)
	orderingRoutes.GET("/orders/:id", orderHandler.GetByID)
	orderingRoutes.PATCH("/orders/:id", orderHandler.Update)
	orderingRoutes.PUT("/orders/:id/reconcile", orderHandler.Reconcile)
	orderingRoutes.DELETE("/orders/:id", orderHandler.Delete)

	// Report domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/top-customers", reportHandler.TopCustomers)
	reportRoutes.GET("/orders-per-day", reportHandler.OrdersPerDay)
	reportRoutes.GET("/customer-connections", reportHandler.CustomerConnections)

	// Transfer domain (export/import)
	transferRoutes := router.NewDomainGroup("transfer", "/transfer")
	transferRoutes.GET("/customers/export", transferHandler.ExportCustomers)
	transferRoutes.GET("/products/export", transferHandler.ExportProducts)
	transferRoutes.GET("/orders/export", transferHandler.ExportOrders)
	transferRoutes.POST("/customers/import", transferHandler.ImportCustomers)
	transferRoutes.POST("/products/import", transferHandler.ImportProducts)
	transferRoutes.POST("/orders/import", transferHandler.ImportOrders)

	r.Register(catalogRoutes).
		Register(orderingRoutes).
		Register(reportRoutes).
		Register(transferRoutes)

	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports service and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
