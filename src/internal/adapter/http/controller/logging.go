package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/session"
)

// requestFields identifies the call. The session user is present only on routes
// behind the session middleware.
func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if claims, ok := session.FromContext(r.Context()); ok {
		fields["sessionUser"] = claims.Username
		fields["sessionId"] = claims.Id
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	fields["query"] = r.URL.RawQuery
	fields["payload"] = logger.SanitizePayload(payload)
	logger.Info("http request", fields)
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	fields["response"] = logger.SanitizePayload(payload)
	logger.Info("http response", fields)
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	fields["query"] = r.URL.RawQuery
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}
