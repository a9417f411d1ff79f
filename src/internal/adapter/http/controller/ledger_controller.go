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
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	BalanceOf(username string) (decimal.Decimal, error)
	Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error)
	Transfer(ctx context.Context, fromUser, toUser string, amount decimal.Decimal) (services.TransferResult, error)
	History(ctx context.Context, username string) ([]domain.Transaction, error)
}

// LedgerController serves operations on the account of the logged-in user.
type LedgerController struct {
	service LedgerService
}

func NewLedgerController(service LedgerService) *LedgerController {
	return &LedgerController{service: service}
}

func (c *LedgerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"/balance":  c.balance,
		"/deposit":  c.deposit,
		"/withdraw": c.withdraw,
		"/transfer": c.transfer,
		"/history":  c.history,
	}
	for path, handler := range routes {
		if authMiddleware != nil {
			handler = authMiddleware(handler).ServeHTTP
		}
		mux.Handle(path, handler)
	}
}

func (c *LedgerController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, ok := requireMethodAndUser[models.AccountResponse](w, r, http.MethodGet, start)
	if !ok {
		return
	}

	balance, err := c.service.BalanceOf(username)
	if err != nil {
		logError(r, err, nil)
		status, response := failure[models.AccountResponse](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Balance retrieved.", models.NewAccountResponse(username, balance))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) deposit(w http.ResponseWriter, r *http.Request) {
	c.cashOperation(w, r, "Deposit successful.", c.service.Deposit)
}

func (c *LedgerController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.cashOperation(w, r, "Withdrawal successful.", c.service.Withdraw)
}

func (c *LedgerController) cashOperation(
	w http.ResponseWriter,
	r *http.Request,
	successMessage string,
	apply func(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error),
) {
	start := time.Now()
	logRequest(r, nil)

	username, ok := requireMethodAndUser[models.TransactionResponse](w, r, http.MethodPost, start)
	if !ok {
		return
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ValidationResponse[models.TransactionResponse](err)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	tx, err := apply(r.Context(), username, req.ParsedAmount())
	if err != nil {
		logError(r, err, nil)
		status, response := failure[models.TransactionResponse](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse(successMessage, models.NewTransactionResponse(tx))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, ok := requireMethodAndUser[models.TransferResponse](w, r, http.MethodPost, start)
	if !ok {
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ValidationResponse[models.TransferResponse](err)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	result, err := c.service.Transfer(r.Context(), username, req.To, req.ParsedAmount())
	if err != nil {
		logError(r, err, nil)
		status, response := failure[models.TransferResponse](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Transfer successful.", models.TransferResponse{
		Debit:  models.NewTransactionResponse(result.Out),
		Credit: models.NewTransactionResponse(result.In),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, ok := requireMethodAndUser[[]models.TransactionResponse](w, r, http.MethodGet, start)
	if !ok {
		return
	}

	history, err := c.service.History(r.Context(), username)
	if err != nil {
		logError(r, err, nil)
		status, response := failure[[]models.TransactionResponse](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("History retrieved.", models.NewTransactionListResponse(history))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// requireMethodAndUser writes the failure response itself and reports ok=false
// when the method is wrong or no session is attached.
func requireMethodAndUser[T any](w http.ResponseWriter, r *http.Request, method string, start time.Time) (string, bool) {
	if r.Method != method {
		response := methodNotAllowed[T]()
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return "", false
	}

	claims, ok := session.FromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[T]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return "", false
	}
	return claims.Username, true
}
