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

	"go.uber.org/zap"

	"github.com/baharkarakas/wallet-api/internal/api"
	"github.com/baharkarakas/wallet-api/internal/auth"
	"github.com/baharkarakas/wallet-api/internal/cache"
	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/db"
	"github.com/baharkarakas/wallet-api/internal/logger"
	"github.com/baharkarakas/wallet-api/internal/rates"
	"github.com/baharkarakas/wallet-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Debug, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("service stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer store.Close()

	if cfg.ShouldMigrate() {
		if err := store.Migrate(ctx, false); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("schema up to date")
	}

	tokens, err := auth.NewTokenManager(cfg.SigningAlgorithm, cfg.PublicKey, cfg.PrivateKey, cfg.Audience)
	if err != nil {
		return err
	}

	var limiter cache.Limiter
	if cfg.RedisAddr != "" && cfg.RateLimitRPS > 0 {
		rdb, closeRedis, err := cache.New(ctx, cache.Config{Addr: cfg.RedisAddr})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer closeRedis()
		limiter = cache.NewLimiter(cfg.RateLimitRPS, rdb, log.Named("ratelimit"))
	} else {
		limiter = cache.NewLimiter(cfg.RateLimitRPS, nil, log)
	}

	balanceSvc := services.NewBalanceService(store.Balances, log.Named("balances"))
	walletSvc := services.NewWalletService(store.Balances, balanceSvc, rates.NewFromConfig(cfg, log), log.Named("wallet"))

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.RouterDeps{
			Cfg:     cfg,
			Log:     log,
			Tokens:  tokens,
			Wallet:  walletSvc,
			Limiter: limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("title", cfg.Title), zap.Bool("debug", cfg.Debug))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
