package middleware

import (
	"net/http"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/session"
)

type SessionParser interface {
	Parse(token string) (*session.Claims, error)
}

// SessionAuth admits requests carrying a live bearer token and stores its claims
// on the request context.
func SessionAuth(sessions SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				logger.Error("session auth middleware missing session manager", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			header := r.Header.Get("Authorization")
			if !hasBearerScheme(header) {
				logger.Info("session auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "missing",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := sessions.Parse(header[len("Bearer "):])
			if err != nil {
				logger.Info("session auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "invalid_or_expired",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			logger.Info("session auth middleware authorized request", logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"username": claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
		})
	}
}

func hasBearerScheme(header string) bool {
	return len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ")
}
