package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// accountLocks serializes mutations per account. Concurrent mutations to the
// same user's ledger must not interleave their read-recompute-write cycles;
// mutations to different accounts stay fully parallel, so there is no global
// lock. Entries are never removed: the lock set is bounded by the number of
// employees.
//
// The serialization is in-process only. Running more than one server
// instance against the same database requires row locks on the account
// table instead.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// forUser returns the mutex guarding the given user's account
func (l *accountLocks) forUser(userID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
