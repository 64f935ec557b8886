package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/apperr"
	"github.com/baharkarakas/wallet-api/internal/auth"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	tm  *auth.TokenManager
	log *zap.Logger
}

func NewAuthMiddleware(tm *auth.TokenManager, log *zap.Logger) *AuthMiddleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthMiddleware{tm: tm, log: log}
}

// Auth requires "Authorization: Bearer <jwt>" and stores the verified caller
// in the request context.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			httpx.WriteCode(w, apperr.CodeUnauthorized, "", nil)
			return
		}

		p, err := m.tm.Verify(token)
		if err != nil {
			m.log.Debug("token rejected", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
			httpx.WriteCode(w, apperr.CodeUnauthorized, rejectMessage(err), nil)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: p.UserID, Scopes: p.Scopes})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectMessage is the client-facing text for a token Verify refused.
func rejectMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidSubject):
		return "Subject must be an integer string"
	case errors.Is(err, auth.ErrMissingIssuedAt):
		return `Token is missing the "iat" claim`
	case errors.Is(err, auth.ErrMissingSubject):
		return `Token is missing the "sub" claim`
	}
	return err.Error()
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
