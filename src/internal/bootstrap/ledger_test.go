package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(dir string) config.Config {
	return config.Config{
		DataDir:        dir,
		StorageBackend: config.StorageFile,
		HashScheme:     config.HashSHA256,
	}
}

func TestOpenLedgerFileBackendPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(filepath.Join(t.TempDir(), "data"))

	first, err := OpenLedger(ctx, cfg)
	require.NoError(t, err)
	_, err = first.Engine.CreateAccount(ctx, "alice", "pass1", "pass1", decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = first.Engine.Withdraw(ctx, "alice", decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	_, err = os.Stat(filepath.Join(cfg.DataDir, "transactions", "alice.log"))
	require.NoError(t, err)

	second, err := OpenLedger(ctx, cfg)
	require.NoError(t, err)
	balance, err := second.Engine.BalanceOf("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("99.5")))

	account, err := second.Engine.Authenticate(ctx, "alice", "pass1")
	require.NoError(t, err)
	assert.Len(t, account.History, 2)
}

func TestOpenLedgerRejectsUnknownHashScheme(t *testing.T) {
	cfg := fileConfig(t.TempDir())
	cfg.HashScheme = "md5"

	_, err := OpenLedger(context.Background(), cfg)
	require.Error(t, err)
}
