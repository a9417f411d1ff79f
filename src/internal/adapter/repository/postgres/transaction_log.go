package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// TransactionLog appends rows to account_transactions; the serial id keeps
// commit order per account.
type TransactionLog struct {
	db *sql.DB
}

func NewTransactionLog(db *sql.DB) *TransactionLog {
	return &TransactionLog{db: db}
}

func (l *TransactionLog) Append(ctx context.Context, username string, tx domain.Transaction) error {
	const query = `
INSERT INTO account_transactions (
	username,
	occurred_at,
	type,
	amount,
	balance_after,
	details
) VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := l.db.ExecContext(ctx, query, username, tx.Timestamp, string(tx.Type), tx.Amount, tx.BalanceAfter, tx.Details); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// CheckAppend only verifies that the database is reachable; rows need no
// per-account setup.
func (l *TransactionLog) CheckAppend(ctx context.Context, _ string) error {
	if err := l.db.PingContext(ctx); err != nil {
		return fmt.Errorf("check transaction log: %w", err)
	}
	return nil
}

func (l *TransactionLog) LoadHistory(ctx context.Context, username string) ([]domain.Transaction, error) {
	const query = `
SELECT occurred_at, type, amount, balance_after, details
FROM account_transactions
WHERE username = $1
ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	history := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx   domain.Transaction
			kind string
		)
		if err := rows.Scan(&tx.Timestamp, &kind, &tx.Amount, &tx.BalanceAfter, &tx.Details); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = domain.TransactionType(kind)
		history = append(history, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return history, nil
}
