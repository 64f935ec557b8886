package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/baharkarakas/wallet-api/internal/rates"
	repo "github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RateSource is satisfied by *rates.Client.
type RateSource interface {
	GetRate(ctx context.Context, code string) (models.Rate, error)
}

// WalletService combines stored balances with live exchange rates.
type WalletService struct {
	balances repo.Balances
	updates  *BalanceService
	rates    RateSource
	log      *zap.Logger
}

func NewWalletService(b repo.Balances, updates *BalanceService, src RateSource, log *zap.Logger) *WalletService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WalletService{balances: b, updates: updates, rates: src, log: log}
}

// ReadWallet returns every balance of the user with its PLN value. Rates are
// fetched concurrently, one lookup per currency; a failed lookup only leaves
// its own entry without a rate.
func (s *WalletService) ReadWallet(ctx context.Context, userID int64) (models.WalletView, error) {
	list, err := s.balances.List(ctx, userID)
	if err != nil {
		s.log.Error("list balances", zap.Int64("user_id", userID), zap.Error(err))
		return models.WalletView{}, apperr.New(apperr.CodeInternal, "", err)
	}

	codes := make([]string, 0, len(list))
	for _, b := range list {
		codes = append(codes, b.Code)
	}
	outcomes := s.lookupAll(ctx, codes)

	entries := make([]models.CurrencyView, 0, len(list))
	for _, b := range list {
		out := outcomes[b.Code]
		if out.Err != nil {
			entries = append(entries, models.NewCurrencyView(b, nil))
			continue
		}
		entries = append(entries, models.NewCurrencyView(b, &out.Rate))
	}
	return models.NewWalletView(entries), nil
}

// lookupAll fans out one rate lookup per distinct code and joins the results.
// Tasks never return errors, so one failure can not cancel the others.
func (s *WalletService) lookupAll(ctx context.Context, codes []string) map[string]rates.Outcome {
	out := make(map[string]rates.Outcome, len(codes))
	seen := make(map[string]struct{}, len(codes))
	var mu sync.Mutex
	var g errgroup.Group
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		code := code
		g.Go(func() error {
			rate, err := s.rates.GetRate(ctx, code)
			if err != nil && rates.KindOf(err) == rates.KindUnsupported {
				s.log.Debug("currency not quoted", zap.String("code", code))
			}
			mu.Lock()
			out[code] = rates.Outcome{Rate: rate, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// ReadCurrency returns one balance with its PLN value when a rate is available.
func (s *WalletService) ReadCurrency(ctx context.Context, userID int64, code string) (models.CurrencyView, error) {
	b, err := s.balances.Get(ctx, userID, code)
	if errors.Is(err, repo.ErrNotFound) {
		return models.CurrencyView{}, notInWallet(code)
	}
	if err != nil {
		s.log.Error("get balance", zap.Int64("user_id", userID), zap.String("code", code), zap.Error(err))
		return models.CurrencyView{}, apperr.New(apperr.CodeInternal, "", err)
	}

	rate, err := s.rates.GetRate(ctx, code)
	if err != nil {
		return models.NewCurrencyView(b, nil), nil
	}
	return models.NewCurrencyView(b, &rate), nil
}

// AddAmount tops up a balance. The currency must be quoted by the provider.
func (s *WalletService) AddAmount(ctx context.Context, userID int64, code string, amount decimal.Decimal) (models.CurrencyView, error) {
	rate, err := s.requireRate(ctx, code)
	if err != nil {
		return models.CurrencyView{}, err
	}
	b, err := s.updates.Add(ctx, userID, code, amount)
	if err != nil {
		return models.CurrencyView{}, err
	}
	return models.NewCurrencyView(b, &rate), nil
}

// SubtractAmount decreases a balance. The currency must be quoted by the
// provider and the balance must stay above zero.
func (s *WalletService) SubtractAmount(ctx context.Context, userID int64, code string, amount decimal.Decimal) (models.CurrencyView, error) {
	rate, err := s.requireRate(ctx, code)
	if err != nil {
		return models.CurrencyView{}, err
	}
	b, err := s.updates.Subtract(ctx, userID, code, amount)
	if err != nil {
		return models.CurrencyView{}, err
	}
	return models.NewCurrencyView(b, &rate), nil
}

// RemoveCurrency deletes the balance regardless of its amount.
func (s *WalletService) RemoveCurrency(ctx context.Context, userID int64, code string) error {
	ok, err := s.balances.Delete(ctx, userID, code)
	if err != nil {
		s.log.Error("delete balance", zap.Int64("user_id", userID), zap.String("code", code), zap.Error(err))
		return apperr.New(apperr.CodeInternal, "", err)
	}
	if !ok {
		return notInWallet(code)
	}
	return nil
}

func (s *WalletService) requireRate(ctx context.Context, code string) (models.Rate, error) {
	rate, err := s.rates.GetRate(ctx, code)
	if err == nil {
		return rate, nil
	}
	if rates.KindOf(err) == rates.KindUnsupported {
		return models.Rate{}, apperr.New(apperr.CodeUnsupportedCurrency, fmt.Sprintf("Not supported currency %q", code), err)
	}
	return models.Rate{}, apperr.New(apperr.CodeProviderUnavailable, "", err)
}

func notInWallet(code string) error {
	return apperr.New(apperr.CodeNotFound, fmt.Sprintf("There is no %s in the wallet.", code), nil)
}
