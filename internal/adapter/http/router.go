package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/shareledger/internal/adapter/http/handler"
	"github.com/iho/shareledger/internal/adapter/http/middleware"
	"github.com/iho/shareledger/internal/infrastructure/auth"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BucketHandler         *handler.BucketHandler
	IncomeHandler         *handler.IncomeHandler
	MovementHandler       *handler.MovementHandler
	LabelHandler          *handler.LabelHandler
	DebtHandler           *handler.DebtHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	// JWTManager authenticates /api/v1. When nil, the owner is taken from
	// the X-Owner-ID header, which is only meant for local development.
	JWTManager *auth.JWTManager

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		} else {
			r.Use(middleware.DevOwnerMiddleware)
		}

		// Limits are keyed by owner, so they run after authentication.
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = usecase.IdempotencyKeyTTL
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl).Wrap)
		}

		// Buckets
		r.Route("/buckets", func(r chi.Router) {
			r.Post("/", cfg.BucketHandler.Create)
			r.Get("/", cfg.BucketHandler.List)
			r.Patch("/{id}", cfg.BucketHandler.Update)
			r.Delete("/{id}", cfg.BucketHandler.Delete)
			r.Get("/{id}/balance", cfg.BucketHandler.Balance)
		})

		// Income
		r.Route("/income", func(r chi.Router) {
			r.Post("/", cfg.IncomeHandler.Record)
			r.Get("/", cfg.IncomeHandler.List)
			r.Patch("/{groupKey}", cfg.IncomeHandler.Update)
			r.Delete("/{groupKey}", cfg.IncomeHandler.Delete)
		})

		// Direct movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Record)
			r.Patch("/{id}", cfg.MovementHandler.Update)
			r.Delete("/{id}", cfg.MovementHandler.Delete)
		})
		r.Get("/entries", cfg.MovementHandler.ListEntries)

		// Expense labels
		r.Route("/labels", func(r chi.Router) {
			r.Post("/", cfg.LabelHandler.Create)
			r.Get("/", cfg.LabelHandler.List)
			r.Patch("/{id}", cfg.LabelHandler.Rename)
			r.Delete("/{id}", cfg.LabelHandler.Delete)
		})

		// Debts
		r.Route("/debts", func(r chi.Router) {
			r.Post("/", cfg.DebtHandler.Create)
			r.Get("/", cfg.DebtHandler.List)
			r.Post("/{id}/settle", cfg.DebtHandler.Settle)
			r.Delete("/{id}", cfg.DebtHandler.Delete)
		})

		// Reconciliation
		r.Get("/reconciliation", cfg.ReconciliationHandler.Run)
		r.Get("/reconciliation/latest", cfg.ReconciliationHandler.Latest)
	})

	return r
}
