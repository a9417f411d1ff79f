package memory

import (
	"sort"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// AccountStore keeps accounts keyed by username. It only enforces key uniqueness;
// shape rules belong to the ledger service.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*domain.Account)}
}

func (s *AccountStore) CreateAccount(username, passwordHash string, initialBalance decimal.Decimal) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[username]; exists {
		return domain.Account{}, domain.ErrDuplicateUsername
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: passwordHash,
		Balance:      initialBalance,
	}
	s.accounts[username] = account
	return account.Clone(), nil
}

func (s *AccountStore) Get(username string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account.Clone(), nil
}

func (s *AccountStore) SetBalance(username string, newBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return domain.ErrRecordNotFound
	}
	account.Balance = newBalance
	return nil
}

// SetBalances applies every balance under a single write lock, or none of them
// when any username is unknown.
func (s *AccountStore) SetBalances(balances map[string]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for username := range balances {
		if _, ok := s.accounts[username]; !ok {
			return domain.ErrRecordNotFound
		}
	}
	for username, balance := range balances {
		s.accounts[username].Balance = balance
	}
	return nil
}

func (s *AccountStore) Remove(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, username)
}

// Replace discards the current contents. The first record for a username wins;
// later duplicates are dropped with a warning.
func (s *AccountStore) Replace(accounts []domain.Account) {
	next := make(map[string]*domain.Account, len(accounts))
	for i, account := range accounts {
		if _, exists := next[account.Username]; exists {
			logger.Warn("account store skipped duplicate username", logger.Fields{
				"username": account.Username,
				"index":    i,
			})
			continue
		}
		cp := account.Clone()
		cp.History = nil
		next[account.Username] = &cp
	}

	s.mu.Lock()
	s.accounts = next
	s.mu.Unlock()
}

// Records returns copies of every account sorted by username, without history.
func (s *AccountStore) Records() []domain.Account {
	s.mu.RLock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, domain.Account{
			Username:     account.Username,
			PasswordHash: account.PasswordHash,
			Balance:      account.Balance,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *AccountStore) AllAccounts() []domain.AccountSummary {
	records := s.Records()
	out := make([]domain.AccountSummary, 0, len(records))
	for _, account := range records {
		out = append(out, domain.AccountSummary{Username: account.Username, Balance: account.Balance})
	}
	return out
}
