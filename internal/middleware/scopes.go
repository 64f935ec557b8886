package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/apperr"
)

// RequireScope admits callers holding at least one of scopes. It must run
// after Auth.
func RequireScope(scopes ...string) func(http.Handler) http.Handler {
	msg := `Token is missing any of the required scopes in "scopes" claim: ` + strings.Join(scopes, " ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromCtx(r.Context())
			if !ok {
				httpx.WriteCode(w, apperr.CodeUnauthorized, "", nil)
				return
			}
			for _, s := range scopes {
				if slices.Contains(u.Scopes, s) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.WriteCode(w, apperr.CodeForbidden, msg, nil)
		})
	}
}
