package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the precision of stored balances.
const AmountPlaces = 2

// MaxAmount is the exclusive upper bound of a balance: 16 integer digits,
// the range of NUMERIC(18, 2).
var MaxAmount = decimal.New(1, 16)

// Balance is a user's held amount of one currency.
type Balance struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Code      string          `json:"code"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ValidAmount reports whether v can be stored as a balance amount:
// strictly positive, below MaxAmount, with at most two fractional digits.
func ValidAmount(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThan(MaxAmount) && v.Equal(v.Truncate(AmountPlaces))
}
