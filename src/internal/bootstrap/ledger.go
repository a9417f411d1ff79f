package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/security"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

// Ledger is a loaded engine together with the storage handles it owns.
type Ledger struct {
	Engine *services.LedgerService
	db     *sql.DB
}

func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// OpenLedger wires the configured storage backend and loads the account snapshot.
func OpenLedger(ctx context.Context, cfg config.Config) (*Ledger, error) {
	hasher, err := security.NewHasher(cfg.HashScheme)
	if err != nil {
		return nil, err
	}

	var (
		snapshots domain.SnapshotRepository
		txLog     domain.TransactionLog
		db        *sql.DB
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err = postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		applied, err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("postgres storage ready", logger.Fields{
			"migrationsApplied": applied,
		})
		snapshots = postgres.NewSnapshotRepository(db)
		txLog = postgres.NewTransactionLog(db)
	default:
		if err := os.MkdirAll(cfg.TransactionsDir(), 0o755); err != nil {
			return nil, fmt.Errorf("create data directories: %w", err)
		}
		snapshots = flatfile.NewSnapshotRepository(cfg.SnapshotPath())
		txLog = flatfile.NewTransactionLog(cfg.TransactionsDir())
	}

	engine := services.NewLedgerService(memory.NewAccountStore(), snapshots, txLog, hasher)
	if err := engine.Load(ctx); err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	logger.Info("ledger opened", logger.Fields{
		"storage":    cfg.StorageBackend,
		"dataDir":    cfg.DataDir,
		"hashScheme": cfg.HashScheme,
	})
	return &Ledger{Engine: engine, db: db}, nil
}
