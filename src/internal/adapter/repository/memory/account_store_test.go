package memory

import (
	"testing"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStoreCreateRejectsDuplicate(t *testing.T) {
	s := NewAccountStore()

	_, err := s.CreateAccount("alice", "h1", decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = s.CreateAccount("alice", "h2", decimal.Zero)
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)

	got, err := s.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))
}

func TestAccountStoreGetReturnsCopy(t *testing.T) {
	s := NewAccountStore()
	_, err := s.CreateAccount("alice", "h", decimal.NewFromInt(5))
	require.NoError(t, err)

	got, err := s.Get("alice")
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(1000)

	again, err := s.Get("alice")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(5)))

	_, err = s.Get("nobody")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestAccountStoreSetBalances(t *testing.T) {
	s := NewAccountStore()
	_, _ = s.CreateAccount("alice", "h", decimal.NewFromInt(100))
	_, _ = s.CreateAccount("bob", "h", decimal.Zero)

	require.NoError(t, s.SetBalances(map[string]decimal.Decimal{
		"alice": decimal.NewFromInt(60),
		"bob":   decimal.NewFromInt(40),
	}))

	err := s.SetBalances(map[string]decimal.Decimal{
		"alice": decimal.Zero,
		"carol": decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	alice, _ := s.Get("alice")
	bob, _ := s.Get("bob")
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(60)))
	assert.True(t, bob.Balance.Equal(decimal.NewFromInt(40)))

	require.ErrorIs(t, s.SetBalance("carol", decimal.Zero), domain.ErrRecordNotFound)
}

func TestAccountStoreAllAccountsSorted(t *testing.T) {
	s := NewAccountStore()
	for _, name := range []string{"zed", "admin", "bob", "alice"} {
		_, err := s.CreateAccount(name, "h", decimal.Zero)
		require.NoError(t, err)
	}

	var names []string
	for _, summary := range s.AllAccounts() {
		names = append(names, summary.Username)
	}
	assert.Equal(t, []string{"admin", "alice", "bob", "zed"}, names)
}

func TestAccountStoreReplaceAndRemove(t *testing.T) {
	s := NewAccountStore()
	_, _ = s.CreateAccount("old", "h", decimal.Zero)

	s.Replace([]domain.Account{
		{Username: "bob", PasswordHash: "hb", Balance: decimal.NewFromInt(2)},
		{Username: "alice", PasswordHash: "ha", Balance: decimal.NewFromInt(1)},
	})

	_, err := s.Get("old")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "ha", records[0].PasswordHash)

	s.Remove("alice")
	assert.Len(t, s.Records(), 1)
}

func TestAccountStoreReplaceKeepsFirstDuplicate(t *testing.T) {
	s := NewAccountStore()
	_, err := s.CreateAccount("stale", "h", decimal.Zero)
	require.NoError(t, err)

	s.Replace([]domain.Account{
		{Username: "alice", PasswordHash: "first", Balance: decimal.NewFromInt(10)},
		{Username: "bob", PasswordHash: "h", Balance: decimal.NewFromInt(1)},
		{Username: "alice", PasswordHash: "second", Balance: decimal.NewFromInt(99)},
	})

	alice, err := s.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "first", alice.PasswordHash)
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(10)))
	assert.Len(t, s.AllAccounts(), 2)

	_, err = s.Get("stale")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}
