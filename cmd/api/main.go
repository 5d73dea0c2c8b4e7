package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escrow-settlement-engine/config"
	freightClient "escrow-settlement-engine/internal/adapter/freight"
	httpHandler "escrow-settlement-engine/internal/adapter/http/handler"
	ledgerClient "escrow-settlement-engine/internal/adapter/ledger"
	memStorage "escrow-settlement-engine/internal/adapter/storage/memory"
	pgStorage "escrow-settlement-engine/internal/adapter/storage/postgres"
	redisStorage "escrow-settlement-engine/internal/adapter/storage/redis"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/internal/service"
	"escrow-settlement-engine/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Escrow Settlement Engine")

	ctx := context.Background()

	var healthCheckers []ports.HealthChecker

	// Stores: Redis-backed when enabled, otherwise the idempotency store
	// falls back to PostgreSQL when the database is up, else in-memory.
	var (
		idempotencyStore ports.IdempotencyStore
		walletVelocity   ports.VelocityStore
		deviceVelocity   ports.VelocityStore
		denylist         ports.DenylistStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		idempotencyStore = redisStorage.NewIdempotencyStore(rdb, memStorage.DefaultIdempotencyHorizon)
		walletVelocity = redisStorage.NewVelocityStore(rdb, "wallet")
		deviceVelocity = redisStorage.NewVelocityStore(rdb, "device")
		denylist = redisStorage.NewDenylistStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		walletVelocity = memStorage.NewVelocityStore()
		deviceVelocity = memStorage.NewVelocityStore()
		denylist = memStorage.NewDenylistStore()
	}

	// Repositories: PostgreSQL when enabled, in-memory otherwise.
	var (
		orderRepo  ports.OrderRepository
		intentRepo ports.IntentRepository
	)
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		orderRepo = pgStorage.NewOrderRepo(pool)
		intentRepo = pgStorage.NewIntentRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))

		if idempotencyStore == nil {
			idempotencyStore = pgStorage.NewIdempotencyStore(pool, memStorage.DefaultIdempotencyHorizon)
		}
	} else {
		orderRepo = memStorage.NewOrderRepo()
		intentRepo = memStorage.NewIntentRepo()
	}
	if idempotencyStore == nil {
		idempotencyStore = memStorage.NewIdempotencyStore(memStorage.DefaultIdempotencyHorizon)
	}

	// External collaborators
	ledger := ledgerClient.NewClient(cfg.Ledger, log)
	freight := freightClient.NewClient(cfg.Freight, log)

	// Core services
	audit := service.NewAuditRing(cfg.Audit.Capacity, log)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	guard := service.NewIdempotencyGuard(idempotencyStore, log)
	guardrailSvc := service.NewGuardrailService(denylist, walletVelocity, deviceVelocity, audit,
		service.GuardrailConfig{
			MaxPerTxnMinor:       cfg.Guardrail.MaxPerTxnMinor,
			WalletVelocityLimit:  cfg.Guardrail.WalletVelocityLimit,
			WalletVelocityWindow: cfg.Guardrail.WalletWindow,
			DeviceVelocityLimit:  cfg.Guardrail.DeviceVelocityLimit,
			DeviceVelocityWindow: cfg.Guardrail.DeviceWindow,
		}, log)

	transferSvc := service.NewTransferService(ledger, guard, guardrailSvc, log)
	orderSvc := service.NewOrderService(orderRepo, intentRepo, transferSvc, freight, guardrailSvc,
		audit, guard, cfg.Escrow.WalletID, log)
	resumer := service.NewSettlementResumer(intentRepo, orderRepo, transferSvc, audit,
		cfg.Escrow.PendingAge, log)

	// Background reconciliation of stuck settlement legs
	resumeCtx, stopResumer := context.WithCancel(ctx)
	defer stopResumer()
	go runResumer(resumeCtx, resumer, cfg.Escrow.ResumeInterval, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TransferSvc:    transferSvc,
		OrderSvc:       orderSvc,
		GuardrailSvc:   guardrailSvc,
		TokenSvc:       tokenSvc,
		Audit:          audit,
		Denylist:       denylist,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopResumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runResumer periodically re-drives settlement intents left pending by a
// crash.
func runResumer(ctx context.Context, resumer ports.SettlementResumer, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resumed, err := resumer.ResumeStuck(ctx)
			if err != nil {
				log.Error().Err(err).Msg("settlement resume sweep failed")
				continue
			}
			if resumed > 0 {
				log.Info().Int("resumed", resumed).Msg("resumed stuck settlement legs")
			}
		}
	}
}
