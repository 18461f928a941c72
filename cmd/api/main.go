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

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hostel-booking/internal/api"
	"github.com/sanosuguru/go-hostel-booking/internal/api/handler"
	"github.com/sanosuguru/go-hostel-booking/internal/api/middleware"
	"github.com/sanosuguru/go-hostel-booking/internal/application"
	"github.com/sanosuguru/go-hostel-booking/internal/config"
	"github.com/sanosuguru/go-hostel-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-hostel-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/auth"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-hostel-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-hostel-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(cfg.Env))
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redis.Ping(context.Background(), redisClient); err != nil {
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	hostelRepo := postgres.NewHostelRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// 座席台帳
	locker := redis.NewHostelLocker(
		redis.NewLockManager(redisClient),
		cfg.Worker.ReconcileLockTTL,
		cfg.Worker.ReconcileLockRetries,
		cfg.Worker.ReconcileLockRetryDelay,
	)
	cache := redis.NewAvailabilityCache(redisClient, cfg.Redis.CacheTTL)
	ledger := application.NewInventoryLedger(txManager, hostelRepo, locker, cache, m)

	// サービス
	hostelService := application.NewHostelService(txManager, hostelRepo, ledger)
	bookingService := application.NewBookingService(ledger, bookingRepo, hostelRepo, m)
	reviewService := application.NewReviewService(reviewRepo, hostelRepo)
	userService := application.NewUserService(userRepo, hostelRepo)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e, m)

	bookingLimiter := middleware.NewUserRateLimiter(cfg.Booking.RateLimit, cfg.Booking.RateBurst)
	handler.RegisterRoutes(e, handler.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheckFunc{
			"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		}),
		Auth:    handler.NewAuthHandler(userService, tokens),
		User:    handler.NewUserHandler(userService),
		Hostel:  handler.NewHostelHandler(hostelService, ledger),
		Booking: handler.NewBookingHandler(bookingService),
		Review:  handler.NewReviewHandler(reviewService),
	}, handler.RouteOptions{Tokens: tokens, BookingLimiter: bookingLimiter})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(middleware.LoadMetricsConfig()))

	// バックグラウンドワーカー
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	reconciler := worker.NewAvailabilityReconciler(
		hostelRepo, ledger, m,
		cfg.Worker.ReconcileInterval, cfg.Worker.ReconcileConcurrency,
	)
	go reconciler.Start(workerCtx)
	go bookingLimiter.StartCleanup(workerCtx, time.Minute)

	// サーバー起動
	go func() {
		logger.Info("サーバー起動", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
