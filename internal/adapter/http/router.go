package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/freightpoint/ledger/internal/adapter/http/handler"
	"github.com/freightpoint/ledger/internal/adapter/http/middleware"
	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/auth"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
	"github.com/freightpoint/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	BalanceHandler     *handler.BalanceHandler
	OrderHandler       *handler.OrderHandler
	UserHandler        *handler.UserHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	JWTManager         *auth.JWTManager
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
	AuthEnabled        bool
	RateLimitRPS       float64
	RateLimitBurst     int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics).Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthEnabled && cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		}

		// requireRole is a no-op when auth is disabled: without claims there
		// is nothing to gate on.
		requireRole := func(minRole domain.Role) func(http.Handler) http.Handler {
			if !cfg.AuthEnabled {
				return func(next http.Handler) http.Handler { return next }
			}
			return middleware.RequireRole(minRole)
		}

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.With(requireRole(domain.RoleAdmin)).Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/balance", cfg.BalanceHandler.GetBalance)
			r.Get("/{id}/transactions", cfg.BalanceHandler.ListTransactions)
			r.Get("/{id}/ratio", cfg.UserHandler.GetPriceRatio)
		})

		// Top-ups
		r.With(requireRole(domain.RoleAdmin)).Post("/topups", cfg.BalanceHandler.TopUp)

		// Orders
		r.Route("/orders/{id}", func(r chi.Router) {
			r.With(requireRole(domain.RoleAdmin)).Post("/status", cfg.OrderHandler.StatusChanged)
			r.With(requireRole(domain.RoleAdmin)).Post("/refund", cfg.OrderHandler.Refund)
			r.Get("/transactions", cfg.OrderHandler.ListTransactions)
		})

		// Ledger
		r.With(requireRole(domain.RoleSupervisor)).Get("/ledger/drift", cfg.LedgerHandler.Drift)
	})

	return r
}
