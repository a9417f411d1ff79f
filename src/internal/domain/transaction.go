package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the second-precision local ISO-8601 form written to transaction logs.
const TimestampLayout = "2006-01-02T15:04:05"

type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdraw    TransactionType = "WITHDRAW"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
)

const (
	DetailsInitialDeposit = "Initial deposit"
	DetailsCashDeposit    = "Cash deposit"
	DetailsCashWithdrawal = "Cash withdrawal"
)

type Transaction struct {
	Timestamp    string
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Details      string
}

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
