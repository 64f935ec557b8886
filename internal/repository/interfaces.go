package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("balance not found")
	// ErrInvalidAmount means the resulting amount would not be strictly
	// positive with two-decimal precision. Nothing is persisted.
	ErrInvalidAmount = errors.New("invalid resulting amount")
)

// Balances stores one record per (user, currency code).
type Balances interface {
	Get(ctx context.Context, userID int64, code string) (models.Balance, error)
	// List returns the user's balances in insertion order.
	List(ctx context.Context, userID int64) ([]models.Balance, error)
	// AddAmount creates the record with amount = delta or increments it by
	// delta, atomically for the (userID, code) pair.
	AddAmount(ctx context.Context, userID int64, code string, delta decimal.Decimal) (models.Balance, error)
	Delete(ctx context.Context, userID int64, code string) (bool, error)
}
