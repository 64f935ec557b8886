package postgres

import (
	"context"

	repo "github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Balances repo.Balances
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Balances: &balancesRepo{pool},
	}
}

// withTx runs fn in a read-committed transaction; commits on success, rolls
// back on error or panic.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) (err error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	return fn(tx)
}
