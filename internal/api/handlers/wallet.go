package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/api/validate"
	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/middleware"
	"github.com/baharkarakas/wallet-api/internal/services"
)

type WalletHandler struct {
	svc *services.WalletService
	log *zap.Logger
}

func NewWalletHandler(svc *services.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, log: log}
}

// GET /wallet/
func (h *WalletHandler) ReadWallet(w http.ResponseWriter, r *http.Request) {
	u, log, ok := h.caller(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ReadWallet(r.Context(), u.UserID)
	if err != nil {
		httpx.WriteAppError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// GET /wallet/{currency}
func (h *WalletHandler) ReadCurrency(w http.ResponseWriter, r *http.Request) {
	u, log, ok := h.caller(w, r)
	if !ok {
		return
	}
	code, ok := currencyParam(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ReadCurrency(r.Context(), u.UserID, code)
	if err != nil {
		httpx.WriteAppError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// POST /wallet/{currency}/add/{amount}
func (h *WalletHandler) AddAmount(w http.ResponseWriter, r *http.Request) {
	u, log, ok := h.caller(w, r)
	if !ok {
		return
	}
	code, amount, ok := changeParams(w, r)
	if !ok {
		return
	}
	view, err := h.svc.AddAmount(r.Context(), u.UserID, code, amount)
	if err != nil {
		httpx.WriteAppError(w, log, err)
		return
	}
	log.Info("amount added", zap.String("code", code), zap.String("amount", amount.String()))
	httpx.WriteJSON(w, http.StatusOK, view)
}

// POST /wallet/{currency}/sub/{amount}
func (h *WalletHandler) SubtractAmount(w http.ResponseWriter, r *http.Request) {
	u, log, ok := h.caller(w, r)
	if !ok {
		return
	}
	code, amount, ok := changeParams(w, r)
	if !ok {
		return
	}
	view, err := h.svc.SubtractAmount(r.Context(), u.UserID, code, amount)
	if err != nil {
		httpx.WriteAppError(w, log, err)
		return
	}
	log.Info("amount subtracted", zap.String("code", code), zap.String("amount", amount.String()))
	httpx.WriteJSON(w, http.StatusOK, view)
}

// DELETE /wallet/{currency}
func (h *WalletHandler) RemoveCurrency(w http.ResponseWriter, r *http.Request) {
	u, log, ok := h.caller(w, r)
	if !ok {
		return
	}
	code, ok := currencyParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveCurrency(r.Context(), u.UserID, code); err != nil {
		httpx.WriteAppError(w, log, err)
		return
	}
	log.Info("currency removed", zap.String("code", code))
	w.WriteHeader(http.StatusNoContent)
}

// caller returns the authenticated user and a logger carrying request fields.
// It answers 401 and reports false when the request carries no user.
func (h *WalletHandler) caller(w http.ResponseWriter, r *http.Request) (middleware.UserCtx, *zap.Logger, bool) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok {
		httpx.WriteCode(w, apperr.CodeUnauthorized, "", nil)
		return middleware.UserCtx{}, nil, false
	}
	return u, h.log.With(
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
		zap.Int64("user_id", u.UserID),
	), true
}

func currencyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code, ferr := validate.Currency("currency", chi.URLParam(r, "currency"))
	if ferr != nil {
		errs := validate.Errs{*ferr}
		httpx.WriteCode(w, apperr.CodeValidation, errs.Error(), errs)
		return "", false
	}
	return code, true
}

func changeParams(w http.ResponseWriter, r *http.Request) (string, decimal.Decimal, bool) {
	var errs validate.Errs
	code, ferr := validate.Currency("currency", chi.URLParam(r, "currency"))
	if ferr != nil {
		errs = append(errs, *ferr)
	}
	amount, ferr := validate.Amount("amount", chi.URLParam(r, "amount"))
	if ferr != nil {
		errs = append(errs, *ferr)
	}
	if len(errs) > 0 {
		httpx.WriteCode(w, apperr.CodeValidation, errs.Error(), errs)
		return "", decimal.Decimal{}, false
	}
	return code, amount, true
}
