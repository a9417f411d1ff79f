package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/security"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newEngine(t *testing.T) *services.LedgerService {
	t.Helper()
	dir := t.TempDir()
	engine := services.NewLedgerService(
		memory.NewAccountStore(),
		flatfile.NewSnapshotRepository(filepath.Join(dir, "accounts.db")),
		flatfile.NewTransactionLog(filepath.Join(dir, "transactions")),
		security.SHA256Hasher{},
		services.WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local) }),
	)
	require.NoError(t, engine.Load(context.Background()))
	return engine
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestMenuCreateLoginAndTransfer(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	input := script(
		"1", "alice", "pass1", "pass1", "100.0",
		"1", "bob", "pass2", "pass2", "0",
		"2", "alice", "pass1",
		"3", "150",
		"4", "bob", "40",
		"1",
		"5",
		"6",
		"3",
	)
	require.NoError(t, NewMenu(engine, input, &out).Run(context.Background()))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "Account created successfully."))
	assert.Contains(t, text, "Welcome, alice!")
	assert.Contains(t, text, "Failed: Insufficient funds.")
	assert.Contains(t, text, "Transfer successful.")
	assert.Contains(t, text, "Balance: 60.00")
	assert.Contains(t, text, "2026-01-02T03:04:05 | TRANSFER_OUT | Amount: 40.00 | Balance: 60.00 | To bob")
	assert.Contains(t, text, "Goodbye!")

	balance, err := engine.BalanceOf("bob")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(40)))
}

func TestMenuRejectionsKeepLooping(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	input := script(
		"9",
		"1", "al", "pass1", "pass1", "0",
		"1", "carol", "pass1", "other",
		"1", "carol", "pass1", "pass1", "ten",
		"2", "carol", "nope",
		"3",
	)
	require.NoError(t, NewMenu(engine, input, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Invalid option.")
	assert.Contains(t, text, "Failed: Username must be at least 3 characters")
	assert.Contains(t, text, "Passwords do not match.")
	assert.Contains(t, text, "Invalid amount.")
	assert.Contains(t, text, "Invalid credentials.")
	assert.Len(t, engine.AllAccounts(), 1)
}

func TestMenuAdminListsAccounts(t *testing.T) {
	engine := newEngine(t)
	_, err := engine.CreateAccount(context.Background(), "alice", "pass1", "pass1", decimal.NewFromInt(5))
	require.NoError(t, err)
	var out bytes.Buffer

	input := script("2", "admin", "admin", "6", "5", "7", "3")
	require.NoError(t, NewMenu(engine, input, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Welcome, admin [admin]!")
	assert.Contains(t, text, "6. [Admin] View All Accounts")
	assert.Contains(t, text, "admin | Balance: 0.00\nalice | Balance: 5.00\n")
	assert.Contains(t, text, "No history available.")
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	require.NoError(t, NewMenu(engine, strings.NewReader("2\nadmin\n"), &out).Run(context.Background()))
}

func TestMenuUsesPasswordReader(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer
	var prompts []string

	reader := func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "admin", nil
	}
	menu := NewMenu(engine, script("2", "admin", "7", "3"), &out, WithPasswordReader(reader))
	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, []string{"Password: "}, prompts)
	assert.Contains(t, out.String(), "Welcome, admin [admin]!")
}

func TestListAccountsRequiresAdminPassword(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	err := NewMenu(engine, script("wrong"), &out).ListAccounts(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	out.Reset()
	require.NoError(t, NewMenu(engine, script("admin"), &out).ListAccounts(context.Background()))
	assert.Contains(t, out.String(), "admin | Balance: 0.00")
}

type failingLedger struct {
	Ledger
}

func (failingLedger) Authenticate(context.Context, string, string) (domain.Account, error) {
	return domain.Account{}, nil
}

func (failingLedger) IsAdmin(string) bool { return false }

func (failingLedger) Deposit(context.Context, string, decimal.Decimal) (domain.Transaction, error) {
	return domain.Transaction{}, errors.New("persist snapshot: disk full")
}

func TestMenuStorageFailureEndsRun(t *testing.T) {
	var out bytes.Buffer
	err := NewMenu(failingLedger{}, script("2", "alice", "pass1", "2", "10"), &out).Run(context.Background())
	require.EqualError(t, err, "persist snapshot: disk full")
}

func TestMenuRejectsOverlongBcryptPassword(t *testing.T) {
	dir := t.TempDir()
	engine := services.NewLedgerService(
		memory.NewAccountStore(),
		flatfile.NewSnapshotRepository(filepath.Join(dir, "accounts.db")),
		flatfile.NewTransactionLog(filepath.Join(dir, "transactions")),
		security.BcryptHasher{Cost: bcrypt.MinCost},
	)
	require.NoError(t, engine.Load(context.Background()))

	long := strings.Repeat("x", 80)
	var out bytes.Buffer
	input := script("1", "carol", long, long, "0", "3")
	require.NoError(t, NewMenu(engine, input, &out).Run(context.Background()))

	assert.Contains(t, out.String(), "Failed: "+domain.ErrPasswordTooLong.Error())
	assert.Len(t, engine.AllAccounts(), 1)
}
