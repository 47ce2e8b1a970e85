// Command worker drains the outbox and runs scheduled maintenance:
// reconciliation of every owner and pruning of published events.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/shareledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/shareledger/internal/adapter/repository/redis"
	"github.com/iho/shareledger/internal/infrastructure/config"
	"github.com/iho/shareledger/internal/infrastructure/eventpublisher"
	"github.com/iho/shareledger/internal/infrastructure/logger"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/infrastructure/postgres"
	"github.com/iho/shareledger/internal/infrastructure/redis"
	"github.com/iho/shareledger/internal/infrastructure/scheduler"
	"github.com/iho/shareledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("process", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	m := metrics.New(prometheus.NewRegistry())

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	bucketRepo := postgresRepo.NewBucketRepository(pool)
	entryRepo := postgresRepo.NewLedgerEntryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	reportStore := redisRepo.NewReportStore(redisClient, cfg.ReportTTL, m)

	reconUC := usecase.NewReconciliationUseCase(bucketRepo, entryRepo, m).WithReportStore(reportStore)

	sched, err := scheduler.New(scheduler.Config{
		Reconciler:      reconUC,
		Outbox:          outboxRepo,
		Logger:          log,
		ReconcileSpec:   cfg.ReconcileCron,
		CleanupSpec:     cfg.OutboxCleanupCron,
		OutboxRetention: cfg.OutboxRetention,
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if !cfg.OutboxEnabled {
		log.Info().Msg("outbox disabled, only scheduled jobs will run")
		<-ctx.Done()
		return nil
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePublisher(); err != nil {
			log.Warn().Err(err).Msg("failed to close publisher")
		}
	}()

	ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	if err := ep.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("worker stopped")
	return nil
}

// newPublisher picks the AMQP broker when one is configured and the log
// otherwise. The returned func releases the broker connection.
func newPublisher(ctx context.Context, cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func() error, error) {
	if cfg.AMQPURL == "" {
		log.Info().Msg("no AMQP_URL set, events will be logged")
		return eventpublisher.NewLogPublisher(log), func() error { return nil }, nil
	}

	var p *eventpublisher.AMQPPublisher
	dial := func() error {
		var err error
		p, err = eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		return err
	}

	// The broker often starts after the worker in local setups.
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("wait", wait).Msg("AMQP broker not ready, retrying")
	}
	if err := backoff.RetryNotify(dial, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	log.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing events to AMQP")
	return p, p.Close, nil
}
