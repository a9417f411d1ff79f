package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
)

type AdminService interface {
	AllAccounts() []domain.AccountSummary
	IsAdmin(username string) bool
}

type AdminController struct {
	service AdminService
}

func NewAdminController(service AdminService) *AdminController {
	return &AdminController{service: service}
}

func (c *AdminController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.HandlerFunc(c.listAccounts)
	if authMiddleware != nil {
		handler = authMiddleware(handler).ServeHTTP
	}
	mux.Handle("/admin/accounts", http.HandlerFunc(handler))
}

func (c *AdminController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	username, ok := requireMethodAndUser[[]models.AccountResponse](w, r, http.MethodGet, start)
	if !ok {
		return
	}

	if !c.service.IsAdmin(username) {
		response := commons.ErrorResponse[[]models.AccountResponse]("Admin access required.")
		writeJSON(w, http.StatusForbidden, response)
		logResponse(r, http.StatusForbidden, response, start)
		return
	}

	response := commons.SuccessResponse("Accounts retrieved.", models.NewAccountListResponse(c.service.AllAccounts()))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
