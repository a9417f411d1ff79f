package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/session"
)

func TestSessionAuth_AllowsLiveToken(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour)
	issued, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := session.FromContext(r.Context())
		if ok {
			seen = claims.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)

	rr := httptest.NewRecorder()
	SessionAuth(sessions)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if seen != "alice" {
		t.Fatalf("expected claims for alice, got %q", seen)
	}
}

func TestSessionAuth_RejectsMissingOrRevokedToken(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour)
	issued, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	sessions.Revoke(issued.ID)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, header := range []string{"", "Basic YWxpY2U6cGFzcw==", "Bearer " + issued.Token} {
		req := httptest.NewRequest(http.MethodGet, "/balance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		rr := httptest.NewRecorder()
		SessionAuth(sessions)(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status %d, got %d", header, http.StatusUnauthorized, rr.Code)
		}
	}
}
