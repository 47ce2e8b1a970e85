package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/shareledger/internal/usecase"
)

// Reconciler is the reconciliation entry point the scheduler drives.
type Reconciler interface {
	ReconcileAll(ctx context.Context) ([]*usecase.ReconciliationReport, error)
}

// OutboxCleaner removes published outbox events.
type OutboxCleaner interface {
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Config for Scheduler.
type Config struct {
	Reconciler      Reconciler
	Outbox          OutboxCleaner
	Logger          zerolog.Logger
	ReconcileSpec   string        // six-field cron spec, seconds first
	CleanupSpec     string        // six-field cron spec, seconds first
	OutboxRetention time.Duration // published events older than this are removed
	JobTimeout      time.Duration
}

// Scheduler runs periodic maintenance jobs. Jobs never overlap with
// themselves: a run still in progress causes the next tick to be skipped.
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	logger    zerolog.Logger
	now       func() time.Time
	ctx       context.Context
	cancelCtx context.CancelFunc
}

// New registers the jobs. An empty spec disables that job.
func New(cfg Config) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	if cfg.OutboxRetention <= 0 {
		cfg.OutboxRetention = 7 * 24 * time.Hour
	}

	logger := cfg.Logger.With().Str("component", "scheduler").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if cfg.ReconcileSpec != "" && cfg.Reconciler != nil {
		if _, err := s.cron.AddFunc(cfg.ReconcileSpec, s.runReconcile); err != nil {
			cancel()
			return nil, fmt.Errorf("register reconciliation job: %w", err)
		}
	}
	if cfg.CleanupSpec != "" && cfg.Outbox != nil {
		if _, err := s.cron.AddFunc(cfg.CleanupSpec, s.runCleanup); err != nil {
			cancel()
			return nil, fmt.Errorf("register outbox cleanup job: %w", err)
		}
	}

	return s, nil
}

// Jobs returns how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", s.Jobs()).Msg("scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancelCtx()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runReconcile() {
	if err := s.Reconcile(s.ctx); err != nil {
		s.logger.Error().Err(err).Msg("reconciliation failed")
	}
}

func (s *Scheduler) runCleanup() {
	if _, err := s.CleanupOutbox(s.ctx); err != nil {
		s.logger.Error().Err(err).Msg("outbox cleanup failed")
	}
}

// Reconcile checks every owner once and logs each inconsistent one.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	start := s.now()
	reports, err := s.cfg.Reconciler.ReconcileAll(ctx)
	if err != nil {
		return err
	}

	inconsistent := 0
	for _, r := range reports {
		if r.Consistent() {
			continue
		}
		inconsistent++
		s.logger.Warn().
			Str("owner_id", r.OwnerID).
			Int("total_share_percent", r.TotalSharePercent).
			Int("discrepancies", len(r.Discrepancies)).
			Msg("ledger inconsistent")
	}

	s.logger.Info().
		Int("owners", len(reports)).
		Int("inconsistent", inconsistent).
		Dur("duration", s.now().Sub(start)).
		Msg("reconciliation finished")

	return nil
}

// CleanupOutbox deletes events published before the retention window.
func (s *Scheduler) CleanupOutbox(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	before := s.now().Add(-s.cfg.OutboxRetention).UTC()
	deleted, err := s.cfg.Outbox.DeletePublished(ctx, before)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("deleted", deleted).
		Time("before", before).
		Msg("outbox cleaned up")

	return deleted, nil
}
