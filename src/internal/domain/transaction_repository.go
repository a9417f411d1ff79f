package domain

import "context"

type TransactionLog interface {
	Append(ctx context.Context, username string, tx Transaction) error
	LoadHistory(ctx context.Context, username string) ([]Transaction, error)
}

// AppendChecker is implemented by logs that can tell ahead of time whether an
// Append for username would be refused. Multi-entry commits consult it before
// writing anything.
type AppendChecker interface {
	CheckAppend(ctx context.Context, username string) error
}
