package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"systore/config"
	"systore/internal/clients"
	"systore/internal/delivery"
	"systore/internal/domain"
	"systore/internal/metrics"
	"systore/internal/middleware"
	"systore/internal/repository"
	"systore/internal/usecase"
	"systore/pkg/db"
)

// HTML content for the test page
const htmlTestPageContent = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Systore POS API Test Page</title>
    <style>
        body { font-family: Helvetica, Arial, sans-serif; line-height: 1.6; padding: 20px; background-color: #f9f9f9; color: #333; }
        h1, h2 { border-bottom: 1px solid #ccc; padding-bottom: 5px; }
        ul { list-style: none; padding-left: 0; }
        li { margin-bottom: 15px; background-color: #fff; padding: 10px; border: 1px solid #eee; border-radius: 4px; }
        code { background-color: #e8e8e8; padding: 3px 6px; border-radius: 3px; font-family: Consolas, Monaco, monospace; }
        .method { font-weight: bold; display: inline-block; width: 60px; }
        .method-post { color: #49cc90; }
        .method-get { color: #61affe; }
        .method-put { color: #fca130; }
        .method-delete { color: #f93e3e; }
    </style>
</head>
<body>
    <h1>Systore POS API Endpoints</h1>

    <h2>Products API</h2>
    <ul>
        <li><span class="method method-post">POST</span> <code>/products</code> - Create a product. JSON body: <code>{"name": "string", "price": float64, "stock": int, "category": "string"}</code></li>
        <li><span class="method method-get">GET</span> <code><a href="/products">/products</a></code> - Catalog snapshot. Supports <code>q</code> (substring over name and category).</li>
        <li><span class="method method-get">GET</span> <code>/products/{id}</code> - Retrieve a product.</li>
        <li><span class="method method-put">PUT</span> <code>/products/{id}</code> - Update a product.</li>
        <li><span class="method method-delete">DELETE</span> <code>/products/{id}</code> - Delete a product.</li>
    </ul>

    <h2>Cart Sessions API</h2>
    <ul>
        <li><span class="method method-post">POST</span> <code>/cart/sessions</code> - Start a cart session.</li>
        <li><span class="method method-get">GET</span> <code>/cart/sessions/{id}</code> - Current cart lines and totals.</li>
        <li><span class="method method-post">POST</span> <code>/cart/sessions/{id}/items</code> - Add a product. JSON body: <code>{"product_id": int}</code></li>
        <li><span class="method method-post">POST</span> <code>/cart/sessions/{id}/items/{productId}/increase</code> - Increase quantity by one.</li>
        <li><span class="method method-post">POST</span> <code>/cart/sessions/{id}/items/{productId}/decrease</code> - Decrease quantity by one.</li>
        <li><span class="method method-delete">DELETE</span> <code>/cart/sessions/{id}/items/{productId}</code> - Remove a line.</li>
        <li><span class="method method-post">POST</span> <code>/cart/sessions/{id}/checkout</code> - Commit the cart as a sale.</li>
        <li><span class="method method-delete">DELETE</span> <code>/cart/sessions/{id}</code> - Cancel the cart.</li>
    </ul>

    <h2>Sales, Reports and Dashboard</h2>
    <ul>
        <li><span class="method method-post">POST</span> <code>/sales</code> - Store-side sale commit for remote terminals.</li>
        <li><span class="method method-get">GET</span> <code><a href="/sales">/sales</a></code> - Sale history, newest first.</li>
        <li><span class="method method-get">GET</span> <code>/sales/recent?n=5</code> - Most recent sales.</li>
        <li><span class="method method-get">GET</span> <code><a href="/dashboard">/dashboard</a></code> - Inventory value, low stock, today's totals.</li>
        <li><span class="method method-post">POST</span> <code>/reports</code> / <span class="method method-get">GET</span> <code><a href="/reports">/reports</a></code> - Reports CRUD.</li>
    </ul>

</body>
</html>
`

func serveTestPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlTestPageContent))
}

func main() {
	//  Configuration and Logging Setup
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', falling back to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting Systore POS Service...")

	// --- Storage Backend Selection ---
	var productStore domain.ProductStore
	var saleStore domain.SaleStore
	var reportStore domain.ReportStore

	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("FATAL: Failed to connect to database: %v", err)
		}
		defer database.Close()
		if err := db.EnsureSchema(database); err != nil {
			logger.Fatalf("FATAL: Failed to initialize database schema: %v", err)
		}
		logger.Info("Database connection established.")

		productStore = repository.NewPostgresProductStore(database, logger)
		saleStore = repository.NewPostgresSaleStore(database, logger)
		reportStore = repository.NewPostgresReportStore(database, logger)

	case cfg.StoreURL != "":
		storeClient := clients.NewStoreHTTPClient(cfg.StoreURL, cfg.StoreTimeout, logger)
		logger.Infof("Remote store client initialized for %s", cfg.StoreURL)

		productStore = storeClient
		saleStore = storeClient
		reportStore = storeClient

	default:
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		snapshotStore := repository.NewRedisSnapshotStore(redisClient, logger)
		if err := snapshotStore.Ping(context.Background()); err != nil {
			logger.Fatalf("FATAL: Failed to connect to redis: %v", err)
		}
		logger.Warn("Running on the non-durable snapshot fallback store.")

		productStore = snapshotStore
		saleStore = snapshotStore
		reportStore = snapshotStore
	}
	logger.Info("Store backend initialized.")

	// --- Dependency Injection ---
	posMetrics := metrics.NewPOSMetrics()

	catalogUseCase := usecase.NewCatalogUseCase(productStore, logger)
	saleUseCase := usecase.NewSaleUseCase(saleStore, logger)
	checkoutUseCase := usecase.NewCheckoutUseCase(catalogUseCase, saleUseCase, saleStore, posMetrics, logger)
	reportUseCase := usecase.NewReportUseCase(reportStore, catalogUseCase, saleUseCase, posMetrics, logger)
	logger.Info("Use cases initialized.")

	if err := catalogUseCase.Refresh(); err != nil {
		logger.Warnf("Initial catalog refresh failed: %v", err)
	}
	if err := saleUseCase.Refresh(); err != nil {
		logger.Warnf("Initial sales refresh failed: %v", err)
	}

	productHandler := delivery.NewProductHandler(catalogUseCase, logger)
	saleHandler := delivery.NewSaleHandler(saleUseCase, logger)
	cartHandler := delivery.NewCartHandler(checkoutUseCase, logger)
	reportHandler := delivery.NewReportHandler(reportUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	// Route Registration
	router.GET("/", serveTestPage)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	productHandler.RegisterRoutes(router)
	saleHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	reportHandler.RegisterRoutes(router)
	logger.Info("API Routes registered.")

	//  Start Server
	logger.Infof("Starting server on port %s", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
