package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/basilmuhammad91/property-booking-platform/internal/api"
	"github.com/basilmuhammad91/property-booking-platform/internal/api/handler"
	"github.com/basilmuhammad91/property-booking-platform/internal/api/middleware"
	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/config"
	"github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/mail"
	"github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/postgres"
	redisinfra "github.com/basilmuhammad91/property-booking-platform/internal/infrastructure/redis"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/logger"
	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
	"github.com/basilmuhammad91/property-booking-platform/internal/worker"
)

func main() {
	// a missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.App.Env))
	defer logger.Sync()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.App.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	m := metrics.Init()

	// Redis is optional: without it the database row locks still serialise
	// writers and availability is read straight from PostgreSQL.
	var (
		redisClient *goredis.Client
		lockManager redisinfra.LockManagerInterface
		cache       redisinfra.AvailabilityCacheInterface
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(&redisinfra.Config{
			Host: cfg.Redis.Host, Port: cfg.Redis.Port, Password: cfg.Redis.Password,
			DB: cfg.Redis.DB, URL: cfg.Redis.URL,
		})
		if err != nil {
			logger.Warn("redis unavailable, continuing without distributed locks and cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			lockManager = redisinfra.NewLockManager(redisClient)
			cache = redisinfra.NewAvailabilityCache(redisClient)
		}
	}

	var sender mail.Sender = mail.NewLogSender()
	if cfg.Mail.SMTPEnabled() {
		smtp, err := mail.NewSMTPSender(mail.Config{
			Host: cfg.Mail.SMTPHost, Port: cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUser, Password: cfg.Mail.SMTPPassword,
			From: cfg.Mail.From, FromName: cfg.Mail.FromName,
		})
		if err != nil {
			logger.Fatal("failed to configure smtp", zap.Error(err))
		}
		sender = smtp
	}

	txManager := postgres.NewTxManager(db)
	propertyRepo := postgres.NewPropertyRepository(db)
	blockRepo := postgres.NewAvailabilityRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)

	dispatcher := worker.NewConfirmationDispatcher(sender, userRepo, cfg.Mail.QueueSize, m)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go dispatcher.Start(workerCtx)

	opts := []application.Option{
		application.WithMetrics(m),
		application.WithLockPolicy(application.LockPolicy{
			TTL: cfg.Booking.LockTTL, MaxRetries: cfg.Booking.LockRetries, RetryDelay: cfg.Booking.LockRetryDelay,
		}),
		application.WithCacheTTL(cfg.Booking.CacheTTL),
	}
	availabilityService := application.NewAvailabilityService(txManager, propertyRepo, blockRepo, bookingRepo, lockManager, cache, opts...)
	bookingService := application.NewBookingService(txManager, propertyRepo, bookingRepo, availabilityService, lockManager, dispatcher, opts...)
	propertyService := application.NewPropertyService(txManager, propertyRepo, bookingRepo, lockManager, cache, opts...)

	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) }
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))
	handler.RegisterRoutes(e, handler.Handlers{
		Health:       handler.NewHealthHandler(checks),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Booking:      handler.NewBookingHandler(bookingService),
		Property:     handler.NewPropertyHandler(propertyService),
	})

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	dispatcher.Stop()

	logger.Info("server stopped")
}
