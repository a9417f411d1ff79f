package services

import (
	"sort"
	"sync"
)

// accountLocks hands out one mutex per username. Entries are reference counted so
// the map only holds names that are currently locked or waited on.
type accountLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{entries: make(map[string]*lockEntry)}
}

// lock acquires every named lock in lexicographic order and returns the release func.
// Two transfers in opposite directions therefore always contend on the same first lock.
func (l *accountLocks) lock(usernames ...string) func() {
	names := make([]string, 0, len(usernames))
	seen := make(map[string]struct{}, len(usernames))
	for _, name := range usernames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	held := make([]*lockEntry, 0, len(names))
	for _, name := range names {
		held = append(held, l.acquire(name))
	}

	return func() {
		for i := len(names) - 1; i >= 0; i-- {
			l.release(names[i], held[i])
		}
	}
}

func (l *accountLocks) acquire(name string) *lockEntry {
	l.mu.Lock()
	entry, ok := l.entries[name]
	if !ok {
		entry = &lockEntry{}
		l.entries[name] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return entry
}

func (l *accountLocks) release(name string, entry *lockEntry) {
	entry.mu.Unlock()

	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, name)
	}
	l.mu.Unlock()
}
