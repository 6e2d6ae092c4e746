package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/agrimart/backend/internal/application/cart"
	catalogapp "github.com/agrimart/backend/internal/application/catalog"
	checkoutapp "github.com/agrimart/backend/internal/application/checkout"
	eventapp "github.com/agrimart/backend/internal/application/event"
	identityapp "github.com/agrimart/backend/internal/application/identity"
	orderapp "github.com/agrimart/backend/internal/application/order"
	"github.com/agrimart/backend/internal/infrastructure/auth"
	"github.com/agrimart/backend/internal/infrastructure/cache"
	"github.com/agrimart/backend/internal/infrastructure/config"
	"github.com/agrimart/backend/internal/infrastructure/event"
	"github.com/agrimart/backend/internal/infrastructure/logger"
	"github.com/agrimart/backend/internal/infrastructure/persistence"
	"github.com/agrimart/backend/internal/interfaces/http/handler"
	"github.com/agrimart/backend/internal/interfaces/http/middleware"
	"github.com/agrimart/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting AgriMart Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	if err := event.RegisterAllEvents(eventSerializer); err != nil {
		log.Fatal("Failed to register event types", zap.Error(err))
	}

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that need transactional event publishing
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Transaction scope for checkout and order lifecycle operations
	txScope := persistence.NewGormTransactionScope(db.DB)
	txScope.SetOutboxEventSaver(outboxPublisher)

	// Token blacklist backed by Redis, with in-memory fallback for
	// environments without a Redis instance
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	productService := catalogapp.NewProductService(productRepo, userRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	checkoutService := checkoutapp.NewCheckoutService(cartRepo, productRepo, txScope)
	orderService := orderapp.NewOrderService(orderRepo, txScope)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Handlers must tolerate redelivery: the outbox processor retries on
	// failure, so wrap every subscription with an idempotency check.
	idempotencyStore := cache.NewInMemoryIdempotencyStore()

	// Register event handlers for cross-context integration
	// Order placed -> fulfillment notification
	orderPlacedHandler := orderapp.NewOrderPlacedHandler(log).
		WithNotifier(orderapp.NewLoggingOrderPlacedNotifier(log))
	eventBus.Subscribe(event.NewIdempotentHandler(orderPlacedHandler, idempotencyStore, log))

	// Product deactivated -> downstream notification
	productDeactivatedHandler := catalogapp.NewProductDeactivatedHandler(log).
		WithNotifier(catalogapp.NewLoggingProductDeactivatedNotifier(log))
	eventBus.Subscribe(event.NewIdempotentHandler(productDeactivatedHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("product_deactivated_events", productDeactivatedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery.
	// The outbox processor reads events from the outbox_events table and
	// publishes them to the event bus.
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// Outbox management service for the admin surface
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	authHandler := handler.NewAuthHandler(authService)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// The product catalog is browsable without an account, so the
	// whole /products prefix is skipped here and gets optional JWT
	// handling at the group level instead.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Catalog domain (public browsing, admin management)
	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.Use(middleware.OptionalJWTAuthMiddleware(jwtService, blacklist))
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.GetByID)
	productRoutes.POST("/:id/reviews", productHandler.AddReview)
	// Admin-only catalog management
	productRoutes.POST("", middleware.RequireAdmin(), productHandler.Create)
	productRoutes.PUT("/:id", middleware.RequireAdmin(), productHandler.Update)
	productRoutes.DELETE("/:id", middleware.RequireAdmin(), productHandler.Delete)
	productRoutes.POST("/:id/activate", middleware.RequireAdmin(), productHandler.Activate)
	productRoutes.PUT("/:id/stock", middleware.RequireAdmin(), productHandler.AdjustStock)

	// Cart domain (requires authentication)
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items", cartHandler.RemoveItem)

	// Checkout
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("", orderHandler.Checkout)

	// Order domain (customer-facing)
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Admin order management
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	adminRoutes.GET("/orders", orderHandler.ListAll)
	adminRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
	adminRoutes.PUT("/orders/:id/tracking", orderHandler.SetTracking)
	adminRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	adminRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	adminRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	adminRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	adminRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	// Identity domain (registration, login, account management).
	// Credential endpoints get their own, much stricter limiter to slow
	// down password guessing.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", middleware.AuthRateLimit(authLimiter), authHandler.Register)
	authRoutes.POST("/login", middleware.AuthRateLimit(authLimiter), authHandler.Login)
	authRoutes.POST("/refresh", middleware.AuthRateLimit(authLimiter), authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/profile", authHandler.UpdateProfile)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Register all domain groups
	r.Register(productRoutes).
		Register(cartRoutes).
		Register(checkoutRoutes).
		Register(orderRoutes).
		Register(adminRoutes).
		Register(authRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
