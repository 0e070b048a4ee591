package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"tivastore/internal/caching"
	"tivastore/internal/common"
	"tivastore/internal/config"
	"tivastore/internal/handlers"
	"tivastore/internal/jobs/background"
	"tivastore/internal/middleware"
	"tivastore/internal/repositories"
	"tivastore/internal/services"
	"tivastore/pkg/database"
)

func main() {
	cfg := config.Load()

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cacheSvc.Ping(context.Background()); err != nil {
		log.Printf("WARNING: Redis unavailable, caching disabled: %v", err)
		cacheSvc = nil
	}

	objectStore, err := services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := objectStore.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure upload bucket: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Services
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	storeSvc := services.NewStoreService(storeRepo, cacheSvc, cfg.PublicBaseURL)
	authSvc := services.NewAuthService(userRepo, storeRepo, storeSvc, cfg.JWTSecret, cfg.JWTExpiry)
	passwordSvc := services.NewPasswordService(userRepo, mailer, cfg.FrontendURL)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, productRepo, cacheSvc)
	catalogSvc := services.NewCatalogService(storeRepo, productRepo, orderSvc, cacheSvc)
	analyticsSvc := services.NewAnalyticsService(orderRepo, productRepo, storeRepo, cacheSvc)
	uploadSvc := services.NewUploadService(objectStore)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	passwordHandlers := handlers.NewPasswordHandlers(passwordSvc)
	storeHandlers := handlers.NewStoreHandlers(storeSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, storeSvc)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	uploadHandlers := handlers.NewUploadHandlers(uploadSvc)
	publicHandlers := handlers.NewPublicHandlers(catalogSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(storeRepo, productRepo, userRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Scheduler shutdown failed: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.ErrorHandler
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	api := e.Group("/api")

	// Public auth and password reset
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/password/forgot", passwordHandlers.Forgot)
	api.GET("/password/verify/:token", passwordHandlers.Verify)
	api.POST("/password/reset", passwordHandlers.Reset)

	// Public storefront; the profile route tolerates a token but never
	// requires one.
	api.GET("/public/catalog/:catalogId", publicHandlers.GetStore, middleware.OptionalJWTAuth(cfg.JWTSecret, userRepo))
	api.GET("/public/catalog/:catalogId/products", publicHandlers.ListProducts)
	api.POST("/public/catalog/:catalogId/order", publicHandlers.PlaceOrder)

	// Authenticated routes
	auth := api.Group("", middleware.JWTAuth(cfg.JWTSecret, userRepo))
	auth.GET("/auth/me", authHandlers.Me)
	auth.POST("/auth/logout", authHandlers.Logout)
	auth.POST("/password/change", passwordHandlers.Change)

	// Tenant-scoped routes
	tenant := auth.Group("", middleware.RequireStore())
	tenant.GET("/store/me", storeHandlers.GetMine)
	tenant.PUT("/store/me", storeHandlers.UpdateMine)
	tenant.GET("/store/catalog-url", storeHandlers.CatalogURL)

	tenant.GET("/products", productHandlers.List)
	tenant.POST("/products", productHandlers.Create)
	tenant.GET("/products/:id", productHandlers.Get)
	tenant.PATCH("/products/:id", productHandlers.Update)
	tenant.PATCH("/products/:id/archive", productHandlers.Archive)
	tenant.DELETE("/products/:id", productHandlers.Delete)

	tenant.GET("/orders", orderHandlers.List)
	tenant.POST("/orders", orderHandlers.Create)
	tenant.GET("/orders/:id", orderHandlers.Get)
	tenant.PATCH("/orders/:id/status", orderHandlers.UpdateStatus)

	tenant.GET("/analytics/overview", analyticsHandlers.Overview)
	tenant.GET("/analytics/top-products", analyticsHandlers.TopProducts)
	tenant.GET("/analytics/orders-by-day", analyticsHandlers.OrdersByDay)
	tenant.GET("/analytics/channel-stats", analyticsHandlers.ChannelStats)

	tenant.POST("/uploads", uploadHandlers.Upload)
	tenant.POST("/uploads/multiple", uploadHandlers.UploadMultiple)
	tenant.GET("/uploads", uploadHandlers.List)
	tenant.GET("/uploads/*", uploadHandlers.GetURL)
	tenant.DELETE("/uploads/*", uploadHandlers.Delete)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
