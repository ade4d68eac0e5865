package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artisan/internal/config"
	handlers "artisan/internal/handlers/shared"
	"artisan/internal/metrics"
	"artisan/internal/middleware"
	"artisan/internal/repositories"
	"artisan/internal/services"
	"artisan/pkg/logger"
	"artisan/routes"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.Log.Level),
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Caller:  cfg.Log.Caller,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()
	m := metrics.New()

	// Storage and cache
	store, err := repositories.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	shopCache, err := openCache(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to cache")
	}
	defer shopCache.Close()

	// External providers
	providers, err := buildProviders(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialise providers")
	}

	// Services
	notificationService, err := services.NewNotificationService(providers.email, providers.chat, cfg, m, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to build notification service")
	}
	couponService := services.NewCouponService(store.Coupons, cfg.Shop, m, appLogger)
	newsletterService := services.NewNewsletterService(couponService, notificationService, cfg.Shop, appLogger)
	checkoutService := services.NewCheckoutService(store.Orders, store.Subscriptions, couponService, providers.payment, cfg, m, appLogger)
	webhookService := services.NewPaymentWebhookService(providers.payment, store.Orders, store.Subscriptions, couponService, notificationService, shopCache, m, appLogger)
	blogService := services.NewBlogService(store.Posts, shopCache, notificationService, cfg.Blog, appLogger)
	mediaService := services.NewMediaService(providers.storage, cfg.Storage, appLogger)
	ingestionService := services.NewBlogIngestionService(store.Posts, blogService, mediaService, notificationService, cfg.Blog, appLogger)
	formsService := services.NewFormsService(notificationService, newsletterService, appLogger)
	authService := services.NewAuthService(cfg.Blog, cfg.Security, shopCache, appLogger)
	orderService := services.NewOrderService(store.Orders, store.Subscriptions, appLogger)

	// Handlers
	couponHandler := handlers.NewCouponHandler(couponService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, webhookService, cfg.Shop.DefaultCountry)
	formsHandler := handlers.NewFormsHandler(formsService)
	blogHandler := handlers.NewBlogHandler(blogService, cfg.Blog.PublicPageSize)
	inboundHandler := handlers.NewInboundEmailHandler(ingestionService, cfg.Blog.InboundWebhookKey, cfg.IsProduction(), appLogger)
	adminHandler := handlers.NewAdminHandler(authService, blogService, mediaService, cfg.Blog.AdminPageSize)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.Blog.AdminPageSize)
	healthHandler := handlers.NewHealthHandler(cfg.App.Version, map[string]handlers.Pinger{
		"database": store,
		"cache":    shopCache,
	})

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.WithError(err).Fatal("Invalid trusted proxies")
		}
	}

	// Global middleware
	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	limit := middleware.RateLimitMiddleware(shopCache, cfg.Security.RateLimitPerMinute, m, appLogger)

	routes.SetupShopRoutes(router.Group("/api"), limit, couponHandler, newsletterHandler, paymentHandler, formsHandler)
	routes.SetupBlogRoutes(router, blogHandler, inboundHandler)
	routes.SetupAdminRoutes(router, middleware.AdminRequired(authService), limit, adminHandler, orderHandler)

	router.GET("/health", healthHandler.Health)
	if cfg.App.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.App.Environment,
			"db_driver":   cfg.Database.Driver,
			"email":       providers.email.Name(),
			"chat":        providers.chat.Name(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
}
