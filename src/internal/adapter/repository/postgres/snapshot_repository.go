package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// SnapshotRepository keeps the account index in the accounts table. Each Save
// replaces the table contents inside one transaction.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Save(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO accounts (username, password_hash, balance) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("prepare account insert: %w", err)
	}
	defer stmt.Close()

	for _, account := range accounts {
		if _, err := stmt.ExecContext(ctx, account.Username, account.PasswordHash, account.Balance); err != nil {
			return fmt.Errorf("insert account %q: %w", account.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reports found=false when the table is empty, which is how a fresh
// database looks.
func (r *SnapshotRepository) Load(ctx context.Context) ([]domain.Account, bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, password_hash, balance FROM accounts ORDER BY username`)
	if err != nil {
		return nil, false, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var (
			account domain.Account
			balance decimal.Decimal
		)
		if err := rows.Scan(&account.Username, &account.PasswordHash, &balance); err != nil {
			return nil, false, fmt.Errorf("scan account: %w", err)
		}
		account.Balance = balance
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate accounts: %w", err)
	}

	logger.Info("postgres snapshot loaded", logger.Fields{
		"accounts": len(accounts),
	})
	return accounts, len(accounts) > 0, nil
}
