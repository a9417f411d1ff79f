package controller

import (
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
)

type AccountLister interface {
	AllAccounts() []domain.AccountSummary
}

type SessionCounter interface {
	ActiveCount() int
}

type HealthResponse struct {
	Status         string `json:"status"`
	Accounts       int    `json:"accounts"`
	ActiveSessions int    `json:"activeSessions"`
}

type HealthController struct {
	accounts AccountLister
	sessions SessionCounter
}

func NewHealthController(accounts AccountLister, sessions SessionCounter) *HealthController {
	return &HealthController{accounts: accounts, sessions: sessions}
}

func (c *HealthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, methodNotAllowed[HealthResponse]())
			return
		}

		health := HealthResponse{Status: "ok"}
		if c.accounts != nil {
			health.Accounts = len(c.accounts.AllAccounts())
		}
		if c.sessions != nil {
			health.ActiveSessions = c.sessions.ActiveCount()
		}
		writeJSON(w, http.StatusOK, commons.SuccessResponse("healthy", health))
	})
}
