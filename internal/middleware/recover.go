package middleware

import (
	"net/http"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/apperr"
	"go.uber.org/zap"
)

func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic",
						zap.Any("err", rec),
						zap.String("request_id", RequestIDFrom(r.Context())),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					httpx.WriteCode(w, apperr.CodeInternal, "", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
