package models

import (
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	InitialBalance  string `json:"initialBalance,omitempty"`
}

// Validate only checks the request shape. Username and password rules are
// enforced by the ledger so that every entry point reports the same reason.
func (r CreateAccountRequest) Validate() error {
	var errs []string

	if r.Username == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(r.InitialBalance) != "" {
		if _, err := decimal.NewFromString(strings.TrimSpace(r.InitialBalance)); err != nil {
			errs = append(errs, "initialBalance must be numeric")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ParsedInitialBalance treats an empty value as zero. Call Validate first.
func (r CreateAccountRequest) ParsedInitialBalance() decimal.Decimal {
	value := strings.TrimSpace(r.InitialBalance)
	if value == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

type AccountResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
}

func NewAccountResponse(username string, balance decimal.Decimal) AccountResponse {
	return AccountResponse{Username: username, Balance: balance.StringFixed(2)}
}

func NewAccountListResponse(accounts []domain.AccountSummary) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account.Username, account.Balance))
	}
	return out
}
