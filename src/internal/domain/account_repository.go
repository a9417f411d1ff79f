package domain

import "github.com/shopspring/decimal"

// AccountStore is the in-memory source of truth for balances and credentials.
type AccountStore interface {
	CreateAccount(username, passwordHash string, initialBalance decimal.Decimal) (Account, error)
	Get(username string) (Account, error)
	SetBalance(username string, newBalance decimal.Decimal) error
	SetBalances(balances map[string]decimal.Decimal) error
	Remove(username string)
	Replace(accounts []Account)
	Records() []Account
	AllAccounts() []AccountSummary
}
