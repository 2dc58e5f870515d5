// @title        Ambassador Engagement Ledger API
// @version      1.0
// @description  Posts, votes, comments and the ambassador leaderboard.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/ambassador-program/engagement-ledger/internal/api"
	"github.com/ambassador-program/engagement-ledger/internal/core/leaderboard"
	"github.com/ambassador-program/engagement-ledger/internal/core/service"
	"github.com/ambassador-program/engagement-ledger/internal/core/store"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/config"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db"
	"github.com/ambassador-program/engagement-ledger/pkg/logger"
)

const (
	devJWTSecret = "dev-only-secret"
	loadAttempts = 3
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = devJWTSecret
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	backend, err := db.Open(openCtx, cfg, logger.Component(log, "records"))
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close record store")
		}
	}()

	clock := clockwork.NewRealClock()
	st := store.New(backend.Records, store.Options{
		Prefix: cfg.Storage.KeyPrefix,
		Clock:  clock,
		Logger: logger.Component(log, "store"),
	})
	if err := loadLedger(ctx, st, log); err != nil {
		return err
	}

	cache, err := leaderboard.NewCache(cfg.Ledger.CacheSize, cfg.Ledger.CacheTTL, clock)
	if err != nil {
		return err
	}
	ledger := service.NewLedger(st, service.Options{
		AllowSelfVote:    cfg.Ledger.AllowSelfVote,
		LeaderboardLimit: cfg.Ledger.LeaderboardLimit,
		Clock:            clock,
		Cache:            cache,
	}, logger.Component(log, "ledger"))

	if cfg.Ledger.SeedDemoData {
		if _, err := ledger.SeedDemoData(ctx); err != nil {
			log.Error().Err(err).Msg("failed to persist demo data")
		}
	}
	if drifts, err := ledger.VerifyScores(ctx); err == nil && len(drifts) > 0 {
		log.Warn().Int("ambassadors", len(drifts)).Msg("stored scores disagree with replay")
	}

	e := api.NewRouter(api.Dependencies{
		Ledger:        ledger,
		Tokens:        service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, clock),
		JWTSecret:     cfg.JWTSecret,
		Backend:       backend.Name,
		Store:         backend.Records,
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
		Log:           logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", backend.Name).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sig:
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// loadLedger reads persisted state, retrying record store read failures.
// Malformed records never fail here; Load quarantines them.
func loadLedger(ctx context.Context, st *store.Store, log zerolog.Logger) error {
	var err error
	for attempt := 1; attempt <= loadAttempts; attempt++ {
		if err = st.Load(ctx); err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("ledger load failed")
		if attempt < loadAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return fmt.Errorf("load ledger after %d attempts: %w", loadAttempts, err)
}
