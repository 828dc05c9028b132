package ledger

import "sync"

// accountLocks hands out one mutex per account id. Entries are refcounted
// and removed once no caller holds or waits on them.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

// lock blocks until the account is held and returns the release func.
func (l *accountLocks) lock(accountId string) func() {
	l.mu.Lock()
	al, exists := l.locks[accountId]
	if !exists {
		al = &accountLock{}
		l.locks[accountId] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()
	return func() {
		al.mu.Unlock()

		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, accountId)
		}
		l.mu.Unlock()
	}
}

func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
