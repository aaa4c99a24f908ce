package locker

import (
	"sync"

	"libslack/slackerr"
)

// mutexLock is the lock value behind NewMutex: a plain exclusive lock with
// no distinction between readers and writers.
type mutexLock struct {
	mu sync.Mutex
}

func (m *mutexLock) lock() error {
	m.mu.Lock()
	return nil
}

func (m *mutexLock) tryLock() error {
	if m.mu.TryLock() {
		return nil
	}
	return errBusy
}

func (m *mutexLock) unlock() error {
	m.mu.Unlock()
	return nil
}

// errBusy is returned by a try-lock operation that would otherwise block.
var errBusy = slackerr.New(slackerr.Timeout, "locker", "trylock", "lock held, would block")
