package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountingapp "github.com/marketplace/backend/internal/application/accounting"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	payoutapp "github.com/marketplace/backend/internal/application/payout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

//	@title			Marketplace Payout API
//	@version		1.0
//	@description	Multi-tenant marketplace payout and seller accounting backend

//	@contact.name	API Support
//	@contact.url	https://github.com/marketplace/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		Service:    cfg.App.Name,
		Sample:     cfg.App.Env == "production",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// run wires infrastructure, services and routes, then serves until a
// shutdown signal arrives. Everything it opens is closed on return.
func run(cfg *config.Config, log *zap.Logger) error {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	idemStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		return fmt.Errorf("create idempotency store: %w", err)
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	blacklist, closeBlacklist := newTokenBlacklist(cfg, log)
	defer closeBlacklist()

	// Repositories share one GORM handle; writes that must be atomic go
	// through the unit of work instead.
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	unitOfWork := persistence.NewGormUnitOfWork(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(sellerRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)

	handlers := apiHandlers{
		auth: handler.NewAuthHandler(authService),
		payout: handler.NewPayoutHandler(
			payoutapp.NewPendingService(orderRepo),
			payoutapp.NewProcessorService(payoutRepo, unitOfWork, idemStore, shared.DefaultIdempotencyConfig(), log),
			payoutapp.NewHistoryService(payoutRepo),
		),
		accounting: handler.NewAccountingHandler(
			accountingapp.NewLedgerService(ledgerRepo, log),
			accountingapp.NewExportService(ledgerRepo, log),
			authService,
		),
		system: handler.NewSystemHandler(),
	}

	engine := newEngine(cfg, log)
	engine.GET("/health", healthHandler(db))
	registerRoutes(engine, cfg, log, jwtService, blacklist, handlers)

	return serve(cfg, log, engine)
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected successfully")
	return db, nil
}

// newTokenBlacklist prefers Redis and falls back to the in-memory store
// when Redis is unreachable. The returned func closes whichever store won.
func newTokenBlacklist(cfg *config.Config, log *zap.Logger) (auth.TokenBlacklist, func()) {
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}
	return redisBlacklist, func() {
		if err := redisBlacklist.Close(); err != nil {
			log.Error("Error closing token blacklist", zap.Error(err))
		}
	}
}

// newEngine assembles the outer middleware stack. Order matters: request
// IDs first so recovery and logging can tag their output, rate limiting
// last so rejected requests are still logged.
func newEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	return engine
}

type apiHandlers struct {
	auth       *handler.AuthHandler
	payout     *handler.PayoutHandler
	accounting *handler.AccountingHandler
	system     *handler.SystemHandler
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, h apiHandlers) {
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Tenant resolution runs after JWT so claims win over the X-Tenant-ID
	// header. Not required: public routes may rely on the header alone.
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Required = false
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Register, login and refresh are public via the JWT skip paths.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.auth.Register)
	if cfg.HTTP.AuthRateLimitEnabled {
		// Stricter limiter on the credential endpoints than the global
		// one.
		throttle := middleware.RateLimit(middleware.NewRateLimiter(
			cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
		authRoutes.POST("/login", throttle, h.auth.Login)
		authRoutes.POST("/refresh", throttle, h.auth.RefreshToken)
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	} else {
		authRoutes.POST("/login", h.auth.Login)
		authRoutes.POST("/refresh", h.auth.RefreshToken)
	}
	authRoutes.POST("/logout", h.auth.Logout)
	authRoutes.GET("/profile", h.auth.GetProfile)
	authRoutes.PATCH("/profile", h.auth.UpdateProfile)
	authRoutes.PUT("/password", h.auth.ChangePassword)

	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	adminRoutes.GET("/payouts/pending", h.payout.ListPending)
	adminRoutes.POST("/payouts/process", h.payout.Process)
	adminRoutes.GET("/payouts/history", h.payout.ListHistory)
	adminRoutes.GET("/payouts/history/:id", h.payout.GetByID)

	accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
	accountingRoutes.GET("/ledger", h.accounting.ListLedger)
	accountingRoutes.POST("/expenses", h.accounting.AddExpense)
	accountingRoutes.POST("/refunds", h.accounting.RecordRefund)
	accountingRoutes.GET("/summary", h.accounting.MonthlySummary)
	accountingRoutes.GET("/export/sage-pastel", h.accounting.ExportSagePastel)
	accountingRoutes.GET("/export/zimra", h.accounting.ExportZIMRA)
	accountingRoutes.GET("/export/ledger.xlsx", h.accounting.ExportLedgerXLSX)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.system.GetSystemInfo)
	systemRoutes.GET("/ping", h.system.Ping)

	r.Register(authRoutes).
		Register(adminRoutes).
		Register(accountingRoutes).
		Register(systemRoutes)
	r.Setup()

	// Bare ping for load balancer checks, outside the domain groups.
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func serve(cfg *config.Config, log *zap.Logger, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, dbState, code := "healthy", "ok", http.StatusOK
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			status, dbState, code = "unhealthy", "error", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbState,
		})
	}
}
