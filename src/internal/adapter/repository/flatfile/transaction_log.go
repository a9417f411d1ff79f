package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

// TransactionLog stores one append-only <username>.log file per account.
type TransactionLog struct {
	dir string
}

func NewTransactionLog(dir string) *TransactionLog {
	return &TransactionLog{dir: dir}
}

func (l *TransactionLog) Append(_ context.Context, username string, tx domain.Transaction) error {
	path, err := l.pathFor(username)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create transactions directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}

	if _, err := f.WriteString(EncodeTransactionLine(tx)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append transaction: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync transaction log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transaction log: %w", err)
	}

	return nil
}

// CheckAppend opens the account's log for appending without writing to it.
func (l *TransactionLog) CheckAppend(_ context.Context, username string) error {
	path, err := l.pathFor(username)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create transactions directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	return f.Close()
}

// LoadHistory returns the log oldest first. A missing file is an empty history.
func (l *TransactionLog) LoadHistory(_ context.Context, username string) ([]domain.Transaction, error) {
	path, err := l.pathFor(username)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Transaction{}, nil
		}
		return nil, fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	history := []domain.Transaction{}
	err = readLines(f, func(lineNo int, line string) {
		tx, ok := ParseTransactionLine(line)
		if !ok {
			if line != "" {
				logger.Warn("transaction log skipped malformed line", logger.Fields{
					"username": username,
					"line":     lineNo,
				})
			}
			return
		}
		history = append(history, tx)
	}, func(lineNo int) {
		logger.Warn("transaction log skipped overlong line", logger.Fields{
			"username": username,
			"line":     lineNo,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read transaction log: %w", err)
	}

	return history, nil
}

func (l *TransactionLog) pathFor(username string) (string, error) {
	if username == "" || username == "." || username == ".." || strings.ContainsAny(username, `/\`) {
		return "", fmt.Errorf("transaction log name %q is not a plain file name", username)
	}
	return filepath.Join(l.dir, username+".log"), nil
}
