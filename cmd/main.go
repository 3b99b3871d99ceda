package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"farmmart/internal/caching"
	"farmmart/internal/handlers"
	"farmmart/internal/jobs"
	"farmmart/internal/middleware"
	"farmmart/internal/models"
	"farmmart/internal/repositories"
	"farmmart/internal/services"
	"farmmart/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive restarts")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "farmmart-images"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	imageSvc, err := services.NewMinioImageService(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	if err := imageSvc.EnsureBucket(ctx); err != nil {
		log.Printf("WARNING: could not verify image bucket %s: %v", minioBucket, err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderLineRepo := repositories.NewOrderLineRepo(pool)

	// Cache
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	ledger := services.NewInventoryLedger(productRepo)
	checkoutSvc := services.NewCheckoutService(pool, productRepo, orderRepo, orderLineRepo, ledger, cacheSvc)
	orderSvc := services.NewOrderService(pool, orderRepo, orderLineRepo, ledger, cacheSvc)
	productSvc := services.NewProductService(productRepo, cacheSvc, imageSvc)
	reportSvc := services.NewReportService(orderRepo, cacheSvc)

	// Background jobs
	scheduler, err := jobs.NewScheduler(productRepo, userRepo, reportSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	orderHandlers := handlers.NewOrderHandlers(checkoutSvc, orderSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, scheduler)

	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(middleware.NewAuthMiddleware(jwtSecret))

	farmerOnly := middleware.RequireRole(models.RoleFarmer)
	buyerOnly := middleware.RequireRole(models.RoleBuyer)

	// Profile
	protected.GET("/me", authHandlers.Me)

	// Catalog
	protected.GET("/products", productHandlers.ListProducts)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.POST("/products", productHandlers.CreateProduct, farmerOnly)
	protected.PUT("/products/:id", productHandlers.UpdateProduct, farmerOnly)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct, farmerOnly)
	protected.POST("/products/:id/image", productHandlers.UploadImage, farmerOnly)

	// Checkout and order lifecycle
	protected.POST("/orders", orderHandlers.PlaceOrder, buyerOnly)
	protected.GET("/orders", orderHandlers.GetOrders, buyerOnly)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.POST("/orders/:id/cancel", orderHandlers.CancelOrder, buyerOnly)
	protected.POST("/orders/:id/process", orderHandlers.ProcessOrder, farmerOnly)
	protected.POST("/orders/:id/complete", orderHandlers.CompleteOrder, farmerOnly)

	// Reporting
	protected.GET("/farmers/me/sales-report", reportHandlers.SalesReport, farmerOnly)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("FarmMart server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
