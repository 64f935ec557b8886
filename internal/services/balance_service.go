package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/models"
	repo "github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const invalidAmountMsg = "Resulting amount must be less than 10000000000000000 with at most 2 decimal places."

// BalanceService applies signed changes to a single balance.
type BalanceService struct {
	r   repo.Balances
	log *zap.Logger
}

func NewBalanceService(r repo.Balances, log *zap.Logger) *BalanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BalanceService{r: r, log: log}
}

// Apply adds a signed delta to the (userID, code) balance, creating it when
// absent. A change that would leave the balance at zero or below is rejected
// and nothing is stored.
func (s *BalanceService) Apply(ctx context.Context, userID int64, code string, delta decimal.Decimal) (models.Balance, error) {
	direction := "add"
	if delta.IsNegative() {
		direction = "sub"
	}

	b, err := s.r.AddAmount(ctx, userID, code, delta)
	switch {
	case err == nil:
		metrics.BalanceUpdatesTotal.WithLabelValues(direction, "ok").Inc()
		s.log.Debug("balance updated",
			zap.Int64("user_id", userID),
			zap.String("code", code),
			zap.String("delta", delta.String()),
			zap.String("amount", b.Amount.String()),
		)
		return b, nil
	case errors.Is(err, repo.ErrInvalidAmount):
		metrics.BalanceUpdatesTotal.WithLabelValues(direction, "rejected").Inc()
		if delta.IsNegative() {
			return models.Balance{}, apperr.New(apperr.CodeInsufficientBalance, "", err)
		}
		return models.Balance{}, apperr.New(apperr.CodeValidation, invalidAmountMsg, err)
	default:
		metrics.BalanceUpdatesTotal.WithLabelValues(direction, "error").Inc()
		s.log.Error("balance update failed", zap.Int64("user_id", userID), zap.String("code", code), zap.Error(err))
		return models.Balance{}, apperr.New(apperr.CodeInternal, "", err)
	}
}

func (s *BalanceService) Add(ctx context.Context, userID int64, code string, amount decimal.Decimal) (models.Balance, error) {
	return s.Apply(ctx, userID, code, amount)
}

func (s *BalanceService) Subtract(ctx context.Context, userID int64, code string, amount decimal.Decimal) (models.Balance, error) {
	return s.Apply(ctx, userID, code, amount.Neg())
}
