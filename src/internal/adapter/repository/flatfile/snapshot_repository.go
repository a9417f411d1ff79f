package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

type SnapshotRepository struct {
	path string
}

func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Save replaces the snapshot file atomically: the accounts are written to a
// temporary file in the same directory, synced and renamed over the old file.
func (r *SnapshotRepository) Save(_ context.Context, accounts []domain.Account) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, account := range accounts {
		if _, err := w.WriteString(EncodeAccountLine(account)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	tmpPath = ""

	return nil
}

func (r *SnapshotRepository) Load(_ context.Context) ([]domain.Account, bool, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var accounts []domain.Account
	err = readLines(f, func(lineNo int, line string) {
		account, ok := ParseAccountLine(line)
		if !ok {
			if line != "" {
				logger.Warn("snapshot skipped malformed line", logger.Fields{
					"path": r.path,
					"line": lineNo,
				})
			}
			return
		}
		accounts = append(accounts, account)
	}, func(lineNo int) {
		logger.Warn("snapshot skipped overlong line", logger.Fields{
			"path": r.path,
			"line": lineNo,
		})
	})
	if err != nil {
		return nil, true, fmt.Errorf("read snapshot: %w", err)
	}

	return accounts, true, nil
}
