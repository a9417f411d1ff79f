package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	minUsernameLength = 3
	minPasswordLength = 4

	maxAmountScale    = 8
	minAmountExponent = -32
	maxAmountExponent = 15
)

// maxAmount bounds a single deposit, withdrawal, transfer or initial balance.
var maxAmount = decimal.New(1, maxAmountExponent)

type LedgerService struct {
	store     domain.AccountStore
	snapshots domain.SnapshotRepository
	txLog     domain.TransactionLog
	hasher    domain.PasswordHasher
	now       func() time.Time

	locks       *accountLocks
	persistMu   sync.Mutex
	dummyDigest string
}

type LedgerOption func(*LedgerService)

// WithClock overrides the time source used for transaction timestamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

type TransferResult struct {
	Out domain.Transaction
	In  domain.Transaction
}

func NewLedgerService(
	store domain.AccountStore,
	snapshots domain.SnapshotRepository,
	txLog domain.TransactionLog,
	hasher domain.PasswordHasher,
	opts ...LedgerOption,
) *LedgerService {
	s := &LedgerService{
		store:     store,
		snapshots: snapshots,
		txLog:     txLog,
		hasher:    hasher,
		now:       time.Now,
		locks:     newAccountLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Unknown usernames are checked against this digest so that both failure
	// paths of Authenticate do the same work.
	digest, err := hasher.Hash("unknown-account-placeholder")
	if err != nil {
		logger.Error("ledger service dummy digest failed", err, nil)
	}
	s.dummyDigest = digest
	return s
}

// Load replaces the store with the persisted snapshot. The admin account is
// created and persisted when the snapshot is missing or does not contain it.
func (s *LedgerService) Load(ctx context.Context) error {
	accounts, found, err := s.snapshots.Load(ctx)
	if err != nil {
		logger.Error("ledger service load snapshot failed", err, nil)
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.store.Replace(accounts)

	_, adminErr := s.store.Get(domain.AdminUsername)
	if found && adminErr == nil {
		logger.Info("ledger service load success", logger.Fields{
			"accounts": len(accounts),
		})
		return nil
	}

	hash, err := s.hasher.Hash(domain.AdminUsername)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := s.store.CreateAccount(domain.AdminUsername, hash, decimal.Zero); err != nil && !errors.Is(err, domain.ErrDuplicateUsername) {
		return fmt.Errorf("create admin account: %w", err)
	}
	if err := s.persist(ctx); err != nil {
		return err
	}

	logger.Info("ledger service load created admin account", logger.Fields{
		"snapshotFound": found,
		"accounts":      len(accounts) + 1,
	})
	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, username, password, confirmPassword string, initialBalance decimal.Decimal) (domain.Account, error) {
	logger.Info("ledger service create account request", logger.Fields{
		"username":       username,
		"initialBalance": initialBalance.String(),
	})

	if err := validateUsername(username); err != nil {
		return domain.Account{}, err
	}
	if len(password) < minPasswordLength {
		return domain.Account{}, domain.ErrInvalidPassword
	}
	if password != confirmPassword {
		return domain.Account{}, domain.ErrPasswordMismatch
	}
	if initialBalance.IsNegative() {
		return domain.Account{}, domain.ErrNegativeInitialBalance
	}
	if initialBalance.IsZero() {
		initialBalance = decimal.Zero
	} else if err := validateAmount(initialBalance); err != nil {
		return domain.Account{}, err
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, domain.ErrPasswordTooLong) {
		return domain.Account{}, err
	}
	if err != nil {
		logger.Error("ledger service create account hash failed", err, nil)
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	unlock := s.locks.lock(username)
	defer unlock()

	account, err := s.store.CreateAccount(username, hash, initialBalance)
	if err != nil {
		return domain.Account{}, err
	}

	account.History = []domain.Transaction{}
	if initialBalance.IsPositive() {
		tx := s.newTransaction(domain.TransactionDeposit, initialBalance, initialBalance, domain.DetailsInitialDeposit)
		if err := s.txLog.Append(ctx, username, tx); err != nil {
			s.store.Remove(username)
			logger.Error("ledger service create account append failed", err, logger.Fields{
				"username": username,
			})
			return domain.Account{}, fmt.Errorf("append initial deposit: %w", err)
		}
		account.History = append(account.History, tx)
	}

	if err := s.persist(ctx); err != nil {
		return domain.Account{}, err
	}

	logger.Info("ledger service create account success", logger.Fields{
		"username": username,
		"balance":  account.Balance.String(),
	})
	return account, nil
}

// Authenticate fails with ErrInvalidCredentials both for unknown usernames and for
// wrong passwords. The returned account is a copy with its history loaded.
func (s *LedgerService) Authenticate(ctx context.Context, username, password string) (domain.Account, error) {
	account, err := s.store.Get(username)
	if err != nil {
		if s.dummyDigest != "" {
			s.hasher.Matches(s.dummyDigest, password)
		} else {
			_, _ = s.hasher.Hash(password)
		}
		logger.Info("ledger service authenticate rejected", logger.Fields{
			"username": username,
		})
		return domain.Account{}, domain.ErrInvalidCredentials
	}
	if !s.hasher.Matches(account.PasswordHash, password) {
		logger.Info("ledger service authenticate rejected", logger.Fields{
			"username": username,
		})
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	history, err := s.txLog.LoadHistory(ctx, username)
	if err != nil {
		logger.Error("ledger service authenticate load history failed", err, logger.Fields{
			"username": username,
		})
		return domain.Account{}, fmt.Errorf("load history: %w", err)
	}
	account.History = history

	logger.Info("ledger service authenticate success", logger.Fields{
		"username": username,
		"history":  len(history),
	})
	return account, nil
}

func (s *LedgerService) Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}

	unlock := s.locks.lock(username)
	defer unlock()

	account, err := s.store.Get(username)
	if err != nil {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}

	newBalance := account.Balance.Add(amount)
	tx := s.newTransaction(domain.TransactionDeposit, amount, newBalance, domain.DetailsCashDeposit)
	if err := s.commit(ctx, map[string]decimal.Decimal{username: newBalance}, map[string]decimal.Decimal{username: account.Balance}, []entry{{username, tx}}); err != nil {
		return domain.Transaction{}, err
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"username": username,
		"amount":   amount.String(),
		"balance":  newBalance.String(),
	})
	return tx, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}

	unlock := s.locks.lock(username)
	defer unlock()

	account, err := s.store.Get(username)
	if err != nil {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}
	if account.Balance.LessThan(amount) {
		logger.Info("ledger service withdraw insufficient funds", logger.Fields{
			"username": username,
			"amount":   amount.String(),
		})
		return domain.Transaction{}, domain.ErrInsufficientFunds
	}

	newBalance := account.Balance.Sub(amount)
	tx := s.newTransaction(domain.TransactionWithdraw, amount, newBalance, domain.DetailsCashWithdrawal)
	if err := s.commit(ctx, map[string]decimal.Decimal{username: newBalance}, map[string]decimal.Decimal{username: account.Balance}, []entry{{username, tx}}); err != nil {
		return domain.Transaction{}, err
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"username": username,
		"amount":   amount.String(),
		"balance":  newBalance.String(),
	})
	return tx, nil
}

// Transfer moves amount between two accounts. Both balances change under one
// store write, and both account locks stay held until the log entries are written.
func (s *LedgerService) Transfer(ctx context.Context, fromUser, toUser string, amount decimal.Decimal) (TransferResult, error) {
	if fromUser == toUser {
		return TransferResult{}, domain.ErrSameAccount
	}
	if err := validateAmount(amount); err != nil {
		return TransferResult{}, err
	}

	unlock := s.locks.lock(fromUser, toUser)
	defer unlock()

	source, err := s.store.Get(fromUser)
	if err != nil {
		return TransferResult{}, domain.ErrAccountNotFound
	}
	destination, err := s.store.Get(toUser)
	if err != nil {
		return TransferResult{}, domain.ErrAccountNotFound
	}
	if source.Balance.LessThan(amount) {
		logger.Info("ledger service transfer insufficient funds", logger.Fields{
			"from":   fromUser,
			"to":     toUser,
			"amount": amount.String(),
		})
		return TransferResult{}, domain.ErrInsufficientFunds
	}

	fromBalance := source.Balance.Sub(amount)
	toBalance := destination.Balance.Add(amount)
	result := TransferResult{
		Out: s.newTransaction(domain.TransactionTransferOut, amount, fromBalance, "To "+toUser),
		In:  s.newTransaction(domain.TransactionTransferIn, amount, toBalance, "From "+fromUser),
	}
	// Both sides share one instant.
	result.In.Timestamp = result.Out.Timestamp

	err = s.commit(ctx,
		map[string]decimal.Decimal{fromUser: fromBalance, toUser: toBalance},
		map[string]decimal.Decimal{fromUser: source.Balance, toUser: destination.Balance},
		[]entry{{fromUser, result.Out}, {toUser, result.In}},
	)
	if err != nil {
		return TransferResult{}, err
	}

	logger.Info("ledger service transfer success", logger.Fields{
		"from":   fromUser,
		"to":     toUser,
		"amount": amount.String(),
	})
	return result, nil
}

func (s *LedgerService) BalanceOf(username string) (decimal.Decimal, error) {
	account, err := s.store.Get(username)
	if err != nil {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return account.Balance, nil
}

// History rehydrates the transaction log of an existing account.
func (s *LedgerService) History(ctx context.Context, username string) ([]domain.Transaction, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	if _, err := s.store.Get(username); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	history, err := s.txLog.LoadHistory(ctx, username)
	if err != nil {
		logger.Error("ledger service history failed", err, logger.Fields{
			"username": username,
		})
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

func (s *LedgerService) AllAccounts() []domain.AccountSummary {
	return s.store.AllAccounts()
}

func (s *LedgerService) IsAdmin(username string) bool {
	return username == domain.AdminUsername
}

type entry struct {
	username string
	tx       domain.Transaction
}

// commit applies balances, appends the entries in order and writes a snapshot.
// A failed append restores the previous balances before returning. When the log
// supports it, every entry of a multi-entry commit is checked before the first
// append so that one side is not written without the other.
func (s *LedgerService) commit(ctx context.Context, balances, previous map[string]decimal.Decimal, entries []entry) error {
	if checker, ok := s.txLog.(domain.AppendChecker); ok && len(entries) > 1 {
		for _, e := range entries {
			if err := checker.CheckAppend(ctx, e.username); err != nil {
				logger.Error("ledger service append check failed", err, logger.Fields{
					"username": e.username,
					"type":     e.tx.Type,
				})
				return fmt.Errorf("append transaction: %w", err)
			}
		}
	}

	if err := s.store.SetBalances(balances); err != nil {
		return domain.ErrAccountNotFound
	}

	for _, e := range entries {
		if err := s.txLog.Append(ctx, e.username, e.tx); err != nil {
			if restoreErr := s.store.SetBalances(previous); restoreErr != nil {
				logger.Error("ledger service restore balances failed", restoreErr, nil)
			}
			logger.Error("ledger service append transaction failed", err, logger.Fields{
				"username": e.username,
				"type":     e.tx.Type,
			})
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	return s.persist(ctx)
}

// persist writes the whole store. Records are captured inside the lock so the
// last completed write always reflects the latest committed state.
func (s *LedgerService) persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.snapshots.Save(ctx, s.store.Records()); err != nil {
		logger.Error("ledger service snapshot write failed", err, nil)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (s *LedgerService) newTransaction(kind domain.TransactionType, amount, balanceAfter decimal.Decimal, details string) domain.Transaction {
	return domain.Transaction{
		Timestamp:    domain.FormatTimestamp(s.now()),
		Type:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Details:      details,
	}
}

// validateAmount accepts positive amounts up to maxAmount with at most
// maxAmountScale fractional digits. The exponent is checked first so that
// absurd inputs never reach a rescale.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThan(maxAmount) || !amount.Equal(amount.Truncate(maxAmountScale)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// validateUsername also rejects names that cannot be a log file name or a field
// of the pipe-separated snapshot.
func validateUsername(username string) error {
	if len(username) < minUsernameLength || strings.ContainsAny(username, `|/\`) {
		return domain.ErrInvalidUsername
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return domain.ErrInvalidUsername
		}
	}
	return nil
}
