package models

import (
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AmountRequest struct {
	Amount string `json:"amount"`
}

// Validate requires a numeric amount. Positivity is a ledger rule.
func (r AmountRequest) Validate() error {
	return validateAmount(r.Amount)
}

func (r AmountRequest) ParsedAmount() decimal.Decimal {
	return parseAmount(r.Amount)
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.To) == "" {
		errs = append(errs, "to is required")
	}
	if err := validateAmount(r.Amount); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (r TransferRequest) ParsedAmount() decimal.Decimal {
	return parseAmount(r.Amount)
}

type TransactionResponse struct {
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balanceAfter"`
	Details      string `json:"details"`
}

func NewTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Timestamp:    tx.Timestamp,
		Type:         string(tx.Type),
		Amount:       tx.Amount.StringFixed(2),
		BalanceAfter: tx.BalanceAfter.StringFixed(2),
		Details:      tx.Details,
	}
}

func NewTransactionListResponse(history []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(history))
	for _, tx := range history {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

type TransferResponse struct {
	Debit  TransactionResponse `json:"debit"`
	Credit TransactionResponse `json:"credit"`
}

func validateAmount(raw string) error {
	amount := strings.TrimSpace(raw)
	if amount == "" {
		return errors.New("amount is required")
	}
	if _, err := decimal.NewFromString(amount); err != nil {
		return errors.New("amount must be numeric")
	}
	return nil
}

func parseAmount(raw string) decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
