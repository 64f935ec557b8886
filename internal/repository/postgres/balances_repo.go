package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type balancesRepo struct{ pool *pgxpool.Pool }

// amount is read as text so it can be parsed into an exact decimal.
const balanceColumns = `id::text, user_id, code, amount::text, created_at, updated_at`

func (r *balancesRepo) Get(ctx context.Context, userID int64, code string) (models.Balance, error) {
	b, err := scanBalance(r.pool.QueryRow(ctx,
		`SELECT `+balanceColumns+`
		   FROM balances
		  WHERE user_id=$1 AND code=$2`,
		userID, code,
	))
	return b, mapErr(err)
}

func (r *balancesRepo) List(ctx context.Context, userID int64) ([]models.Balance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+balanceColumns+`
		   FROM balances
		  WHERE user_id=$1
		  ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Balance{}
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AddAmount locks the row for the read-modify-write. When the row does not
// exist yet, a concurrent insert for the same pair is folded in by ON CONFLICT.
func (r *balancesRepo) AddAmount(ctx context.Context, userID int64, code string, delta decimal.Decimal) (models.Balance, error) {
	var out models.Balance
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		cur, err := scanBalance(tx.QueryRow(ctx,
			`SELECT `+balanceColumns+`
			   FROM balances
			  WHERE user_id=$1 AND code=$2
			    FOR UPDATE`,
			userID, code,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			if !models.ValidAmount(delta) {
				return repository.ErrInvalidAmount
			}
			out, err = scanBalance(tx.QueryRow(ctx,
				`INSERT INTO balances (id, user_id, code, amount)
				 VALUES ($1, $2, $3, $4::numeric)
				 ON CONFLICT (user_id, code) DO UPDATE
				    SET amount = balances.amount + EXCLUDED.amount,
				        updated_at = now()
				 RETURNING `+balanceColumns,
				uuid.NewString(), userID, code, delta.String(),
			))
			return err
		}
		if err != nil {
			return err
		}

		next := cur.Amount.Add(delta)
		if !models.ValidAmount(next) {
			return repository.ErrInvalidAmount
		}
		out, err = scanBalance(tx.QueryRow(ctx,
			`UPDATE balances
			    SET amount = $3::numeric,
			        updated_at = now()
			  WHERE user_id=$1 AND code=$2
			  RETURNING `+balanceColumns,
			userID, code, next.String(),
		))
		return err
	})
	if err != nil {
		return models.Balance{}, mapErr(err)
	}
	return out, nil
}

func (r *balancesRepo) Delete(ctx context.Context, userID int64, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM balances WHERE user_id=$1 AND code=$2`, userID, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBalance(row pgx.Row) (models.Balance, error) {
	var (
		b      models.Balance
		amount string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Code, &amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return models.Balance{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Balance{}, fmt.Errorf("balance %s: parse amount %q: %w", b.ID, amount, err)
	}
	b.Amount = d
	return b, nil
}

// mapErr turns driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514", // check_violation
			"22003": // numeric_value_out_of_range
			return fmt.Errorf("%w: %s", repository.ErrInvalidAmount, pgErr.Message)
		}
	}
	return err
}
