package domain

import "github.com/shopspring/decimal"

const AdminUsername = "admin"

type Account struct {
	Username     string
	PasswordHash string
	Balance      decimal.Decimal
	History      []Transaction
}

// Clone returns a value copy whose history can be mutated without touching the receiver.
func (a Account) Clone() Account {
	out := a
	if a.History != nil {
		out.History = make([]Transaction, len(a.History))
		copy(out.History, a.History)
	}
	return out
}

type AccountSummary struct {
	Username string
	Balance  decimal.Decimal
}
