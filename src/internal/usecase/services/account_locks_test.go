package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLocksReleaseDropsEntries(t *testing.T) {
	locks := newAccountLocks()

	unlock := locks.lock("bob", "alice", "bob")
	require.Len(t, locks.entries, 2)
	assert.Equal(t, 1, locks.entries["bob"].refs)

	unlock()
	assert.Empty(t, locks.entries)
}

func TestAccountLocksOppositeOrderDoesNotDeadlock(t *testing.T) {
	locks := newAccountLocks()
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 200; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				locks.lock("alice", "bob")()
			}()
			go func() {
				defer wg.Done()
				locks.lock("bob", "alice")()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition deadlocked")
	}
}

func TestAccountLocksExcludeSameName(t *testing.T) {
	locks := newAccountLocks()
	unlock := locks.lock("alice")

	acquired := make(chan struct{})
	go func() {
		locks.lock("alice")()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}
