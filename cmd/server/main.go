package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/freightpoint/ledger/internal/adapter/http"
	"github.com/freightpoint/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/freightpoint/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/freightpoint/ledger/internal/adapter/repository/redis"
	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/auth"
	"github.com/freightpoint/ledger/internal/infrastructure/config"
	"github.com/freightpoint/ledger/internal/infrastructure/logger"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
	"github.com/freightpoint/ledger/internal/infrastructure/postgres"
	"github.com/freightpoint/ledger/internal/infrastructure/redis"
	"github.com/freightpoint/ledger/internal/usecase"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if ratio, err := decimal.NewFromString(cfg.DefaultPriceRatio); err == nil && ratio.Sign() > 0 {
		domain.DefaultPriceRatio = ratio
	} else {
		log.Warn().Str("ratio", cfg.DefaultPriceRatio).Msg("invalid default price ratio, keeping built-in fallback")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	locker := redisRepo.NewLocker(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Use cases
	txUC := usecase.NewTransactionUseCase(txManager, entryRepo, balanceRepo, userRepo, idGen, retrier, m)
	refundUC := usecase.NewRefundUseCase(txUC, entryRepo, orderRepo, userRepo, locker, log, m)
	reconcilerUC := usecase.NewReconcilerUseCase(refundUC, orderRepo, userRepo, cfg.SupervisorUserID, log, m)
	balanceUC := usecase.NewBalanceUseCase(txUC, balanceRepo, userRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, m)
	userUC := usecase.NewUserUseCase(userRepo, cache)

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(txUC, cfg.SupervisorUserID),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC, txUC, cfg.SupervisorUserID),
		OrderHandler:       handler.NewOrderHandler(reconcilerUC, refundUC, txUC, cfg.SupervisorUserID),
		UserHandler:        handler.NewUserHandler(userUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		JWTManager:         jwtManager,
		Metrics:            m,
		Logger:             log,
		AuthEnabled:        cfg.AuthEnabled && jwtManager != nil,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
