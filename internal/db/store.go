package db

import (
	"context"

	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/baharkarakas/wallet-api/internal/repository/postgres"
	"github.com/baharkarakas/wallet-api/internal/repository/sqlite"
	"go.uber.org/zap"
)

// Store is the Balance Store selected by the WALLET_DB DSN together with its
// schema management and shutdown hooks.
type Store struct {
	Balances repository.Balances

	migrate func(ctx context.Context, reset bool) error
	close   func()
}

// Open connects to postgres for postgres:// DSNs and to sqlite for sqlite: ones.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Store, error) {
	if sqlite.IsDSN(cfg.DB) {
		gdb, err := sqlite.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		log.Info("balance store ready", zap.String("backend", "sqlite"))
		return &Store{
			Balances: sqlite.NewBalances(gdb),
			migrate: func(ctx context.Context, reset bool) error {
				return sqlite.Migrate(ctx, gdb, reset)
			},
			close: func() { _ = sqlite.Close(gdb) },
		}, nil
	}

	pool, err := NewPool(ctx, cfg.DB, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}
	log.Info("balance store ready", zap.String("backend", "postgres"), zap.Int32("max_conns", cfg.DBMaxConns))
	repos := postgres.NewRepositories(pool)
	return &Store{
		Balances: repos.Balances,
		migrate: func(ctx context.Context, reset bool) error {
			if reset {
				if err := ResetMigrations(ctx, pool); err != nil {
					return err
				}
			}
			return RunMigrations(ctx, pool)
		},
		close: pool.Close,
	}, nil
}

// Migrate creates or updates the schema; reset drops existing data first.
func (s *Store) Migrate(ctx context.Context, reset bool) error {
	return s.migrate(ctx, reset)
}

func (s *Store) Close() { s.close() }
