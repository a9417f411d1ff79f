package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/session"
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (domain.Account, error)
}

type SessionStore interface {
	Issue(username string) (session.Session, error)
	Revoke(sessionID string)
}

type SessionController struct {
	service  AuthService
	sessions SessionStore
}

func NewSessionController(service AuthService, sessions SessionStore) *SessionController {
	return &SessionController{service: service, sessions: sessions}
}

func (c *SessionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	logoutHandler := http.HandlerFunc(c.logout)
	if authMiddleware != nil {
		logoutHandler = authMiddleware(logoutHandler).ServeHTTP
	}
	mux.Handle("/login", http.HandlerFunc(c.login))
	mux.Handle("/logout", http.HandlerFunc(logoutHandler))
}

func (c *SessionController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := methodNotAllowed[models.LoginResponse]()
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ValidationResponse[models.LoginResponse](err)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	account, err := c.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		logError(r, err, nil)
		status, response := failure[models.LoginResponse](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	issued, err := c.sessions.Issue(account.Username)
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse](internalErrorMessage)
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	response := commons.SuccessResponse("Login successful.", models.LoginResponse{
		Token:     issued.Token,
		ExpiresAt: models.FormatExpiry(issued.ExpiresAt),
		Account:   models.NewAccountResponse(account.Username, account.Balance),
		History:   models.NewTransactionListResponse(account.History),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *SessionController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := methodNotAllowed[models.LogoutResponse]()
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	claims, ok := session.FromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.LogoutResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	c.sessions.Revoke(claims.Id)

	response := commons.SuccessResponse("Logged out.", models.LogoutResponse{Username: claims.Username})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
