package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/config"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/cache"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/database"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/queue"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/interfaces/http/handlers"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/interfaces/http/middleware"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/providers"
)

func main() {
	cfg := config.Load()

	var handler slog.Handler
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)

	cohort := models.Cohort(cfg.Server.Cohort)
	if cohort != models.CohortPreview && cohort != models.CohortFull {
		logger.Error("unknown API_VERSION", "value", cfg.Server.Cohort)
		os.Exit(1)
	}

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations("migrations"); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	userRepo := database.NewUserRepository(db)
	creditRepo := database.NewCreditRepository(db)
	appRepo := database.NewAppRepository(db)
	usageRepo := database.NewUsageRepository(db)
	notificationRepo := database.NewNotificationRepository(db)

	jwtService := services.NewJWTService(cfg.JWT.Secret)
	authService := services.NewAuthService(userRepo, jwtService, redisClient, logger)
	oauthService := services.NewGoogleOAuthService(&cfg.Google, authService)
	catalogService := services.NewCatalogService(appRepo)
	statsService := services.NewStatsService(usageRepo)
	notificationService := services.NewNotificationService(notificationRepo, logger)

	ledger := services.NewCreditLedger(creditRepo, logger)
	if err := ledger.StartSweeper(); err != nil {
		logger.Error("reservation sweeper failed to start", "error", err)
		os.Exit(1)
	}
	defer ledger.StopSweeper()

	paymentService := services.NewStripeService(ledger, cfg.Billing.StripeSecret, cfg.Billing.WebhookSecret, logger)

	limiter := services.NewRateLimiter(redisClient, cfg.RateLimit.PreviewPerHour, cfg.RateLimit.FullPerHour, logger)

	registry := providers.NewRegistry(cfg.Providers.APIKey, cfg.Providers.HostOverrides)
	dispatcher := providers.NewDispatcher(registry, logger)

	usageQueue := queue.NewUsageQueue(usageRepo, logger)
	defer usageQueue.Close()

	pipe := pipeline.New(cohort, registry, dispatcher, ledger, usageQueue, notificationService, logger)

	router := newRouter(routerDeps{
		cfg:           cfg,
		db:            db,
		cache:         redisClient,
		auth:          handlers.NewAuthHandler(authService, oauthService, logger),
		catalog:       handlers.NewCatalogHandler(catalogService, cohort, logger),
		credits:       handlers.NewCreditsHandler(ledger, paymentService, logger),
		stats:         handlers.NewStatsHandler(statsService, logger),
		notifications: handlers.NewNotificationsHandler(notificationService, logger),
		provider:      handlers.NewProviderHandler(pipe, logger),
		jwtAuth:       middleware.JWTAuth(jwtService, userRepo, logger),
		requireAdmin:  middleware.RequireAdmin(logger),
		rateLimit:     middleware.RateLimit(limiter, cohort, logger),
		versionGate:   middleware.VersionGate(cohort, logger),
		logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "cohort", cohort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	// Deferred closers drain the usage queue and stop the sweeper after
	// the listener has gone quiet.
	logger.Info("server stopped")
}
