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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/shareledger/internal/adapter/http"
	"github.com/iho/shareledger/internal/adapter/http/handler"
	"github.com/iho/shareledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/shareledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/shareledger/internal/adapter/repository/redis"
	"github.com/iho/shareledger/internal/infrastructure/auth"
	"github.com/iho/shareledger/internal/infrastructure/config"
	"github.com/iho/shareledger/internal/infrastructure/logger"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/infrastructure/postgres"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/infrastructure/redis"
	"github.com/iho/shareledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := newRegistry()
	m := metrics.New(reg)

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")
	go postgres.RecordPoolStats(ctx, pool, m, 15*time.Second)

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	bucketRepo := postgresRepo.NewBucketRepository(pool)
	labelRepo := postgresRepo.NewLabelRepository(pool)
	entryRepo := postgresRepo.NewLedgerEntryRepository(pool)
	debtRepo := postgresRepo.NewDebtRepository(pool)
	outboxRepo := outboxRepository(cfg.OutboxEnabled, pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient, m)
	reportStore := redisRepo.NewReportStore(redisClient, cfg.ReportTTL, m)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log, m)

	// Initialize use cases
	bucketUC := usecase.NewBucketUseCase(txManager, bucketRepo, entryRepo, outboxRepo, idGen, m)
	incomeUC := usecase.NewIncomeUseCase(txManager, bucketRepo, entryRepo, outboxRepo, idGen, m)
	movementUC := usecase.NewMovementUseCase(txManager, bucketRepo, labelRepo, entryRepo, outboxRepo, idGen, m)
	labelUC := usecase.NewLabelUseCase(txManager, bucketRepo, labelRepo, outboxRepo, idGen)
	balanceUC := usecase.NewBalanceUseCase(bucketRepo, entryRepo)
	debtUC := usecase.NewDebtUseCase(txManager, bucketRepo, entryRepo, debtRepo, outboxRepo, idGen, m)
	reconUC := usecase.NewReconciliationUseCase(bucketRepo, entryRepo, m).WithReportStore(reportStore)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go rateLimiter.RunCleanup(time.Minute, 10*time.Minute, ctx.Done())

	routerCfg := httpAdapter.RouterConfig{
		BucketHandler:         handler.NewBucketHandler(bucketUC, balanceUC, retrier),
		IncomeHandler:         handler.NewIncomeHandler(incomeUC, retrier),
		MovementHandler:       handler.NewMovementHandler(movementUC, retrier),
		LabelHandler:          handler.NewLabelHandler(labelUC, retrier),
		DebtHandler:           handler.NewDebtHandler(debtUC, retrier),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		HealthHandler: handler.NewHealthHandler(
			handler.PingerFunc(pool.Ping),
			handler.PingerFunc(func(ctx context.Context) error { return redis.Ping(ctx, redisClient) }),
		),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           log,
		Metrics:          m,
		Gatherer:         reg,
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		log.Warn().Msg("authentication disabled, trusting " + middleware.OwnerHeader)
	}

	// Create server
	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// newRegistry returns a registry with the Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// outboxRepository returns the postgres outbox, or a no-op one when the
// outbox is disabled.
func outboxRepository(enabled bool, db generated.DBTX) usecase.OutboxRepository {
	if !enabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(db)
}

func serverAddr(port string) string {
	return ":" + port
}
