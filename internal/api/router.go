package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/baharkarakas/wallet-api/internal/api/handlers"
	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/auth"
	"github.com/baharkarakas/wallet-api/internal/cache"
	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/middleware"
	"github.com/baharkarakas/wallet-api/internal/services"
)

type RouterDeps struct {
	Cfg     config.Config
	Log     *zap.Logger
	Tokens  *auth.TokenManager
	Wallet  *services.WalletService
	Limiter cache.Limiter // nil disables rate limiting
}

func NewRouter(d RouterDeps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	metrics.Init()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteCode(w, apperr.CodeNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed", nil)
	})

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": d.Cfg.Title})
	})
	r.Handle("/metrics", metrics.Handler())

	am := middleware.NewAuthMiddleware(d.Tokens, log)
	wh := handlers.NewWalletHandler(d.Wallet, log.Named("wallet"))
	canRead := middleware.RequireScope(auth.ScopeRead, auth.ScopeWrite)
	canWrite := middleware.RequireScope(auth.ScopeWrite)

	// Limiting covers the wallet API only so health checks and scrapes keep working under load.
	r.Route("/wallet", func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter), am.Auth)

		r.With(canRead).Get("/", wh.ReadWallet)
		r.With(canRead).Get("/{currency}", wh.ReadCurrency)
		r.With(canWrite).Post("/{currency}/add/{amount}", wh.AddAmount)
		r.With(canWrite).Post("/{currency}/sub/{amount}", wh.SubtractAmount)
		r.With(canWrite).Delete("/{currency}", wh.RemoveCurrency)
	})

	return r
}
