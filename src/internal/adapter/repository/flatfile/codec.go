package flatfile

import (
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

const fieldSeparator = "|"

// EncodeAccountLine renders username|password_hash|balance followed by a newline.
func EncodeAccountLine(account domain.Account) string {
	return strings.Join([]string{
		account.Username,
		account.PasswordHash,
		account.Balance.String(),
	}, fieldSeparator) + "\n"
}

// ParseAccountLine reports ok=false for lines that must be skipped: blank lines,
// lines with too few fields and lines whose balance is not a non-negative number.
func ParseAccountLine(line string) (domain.Account, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return domain.Account{}, false
	}

	fields := strings.SplitN(line, fieldSeparator, 3)
	if len(fields) != 3 || fields[0] == "" {
		return domain.Account{}, false
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil || balance.IsNegative() {
		return domain.Account{}, false
	}

	return domain.Account{
		Username:     fields[0],
		PasswordHash: fields[1],
		Balance:      balance,
	}, true
}

// EncodeTransactionLine renders timestamp|type|amount|balance_after|details followed by a newline.
func EncodeTransactionLine(tx domain.Transaction) string {
	return strings.Join([]string{
		tx.Timestamp,
		string(tx.Type),
		tx.Amount.String(),
		tx.BalanceAfter.String(),
		sanitizeDetails(tx.Details),
	}, fieldSeparator) + "\n"
}

// ParseTransactionLine treats everything after the fourth separator as details.
func ParseTransactionLine(line string) (domain.Transaction, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return domain.Transaction{}, false
	}

	fields := strings.SplitN(line, fieldSeparator, 5)
	if len(fields) != 5 {
		return domain.Transaction{}, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return domain.Transaction{}, false
	}
	balanceAfter, err := decimal.NewFromString(strings.TrimSpace(fields[3]))
	if err != nil {
		return domain.Transaction{}, false
	}

	return domain.Transaction{
		Timestamp:    fields[0],
		Type:         domain.TransactionType(fields[1]),
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Details:      fields[4],
	}, true
}

// Details is the trailing field, so it may hold separators but never a line break.
func sanitizeDetails(details string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(details)
}
