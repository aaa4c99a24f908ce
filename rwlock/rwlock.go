// Package rwlock implements a portable readers/writer lock: a mutex plus
// two condition variables, for platforms that lack a native readers/writer
// primitive (here it is used unconditionally, in place of sync.RWMutex).
// Writers have priority over readers: once a writer is queued,
// new readers wait behind it, preventing writer starvation under a steady
// stream of readers.
package rwlock

import (
	"context"
	"sync"

	"libslack/slackerr"
)

// RWLock allows any number of concurrent readers, or a single writer, never
// both at once. The zero value is not usable; construct with New.
type RWLock struct {
	mu      sync.Mutex
	readers *sync.Cond // signaled when a reader may proceed
	writers *sync.Cond // signaled when a writer may proceed
	waiters int        // writers currently queued (not yet holding the lock)
	state   int         // -1 = a writer holds the lock, 0 = idle, >0 = active readers
}

// New returns a ready-to-use RWLock.
func New() *RWLock {
	l := &RWLock{}
	l.readers = sync.NewCond(&l.mu)
	l.writers = sync.NewCond(&l.mu)
	return l
}

// RLock claims a read lock, blocking while a writer holds the lock or any
// writer is queued.
func (l *RWLock) RLock() {
	l.mu.Lock()
	for l.state == -1 || l.waiters > 0 {
		l.readers.Wait()
	}
	l.state++
	l.mu.Unlock()
}

// TryRLock claims a read lock without blocking, reporting whether it
// succeeded.
func (l *RWLock) TryRLock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != -1 && l.waiters == 0 {
		l.state++
		return true
	}
	return false
}

// RLockContext is RLock, but returns a *slackerr.Error of Kind
// slackerr.Timeout if ctx is done before the lock is acquired. Cancelling
// ctx wakes the goroutines waiting for a read lock on this lock, so the
// cancellation is observed promptly rather than only on the next
// legitimate unlock.
func (l *RWLock) RLockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return slackerr.Wrap(slackerr.Timeout, "rwlock", "RLockContext", err)
	}

	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.readers.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	for l.state == -1 || l.waiters > 0 {
		if err := ctx.Err(); err != nil {
			return slackerr.Wrap(slackerr.Timeout, "rwlock", "RLockContext", err)
		}
		l.readers.Wait()
	}
	l.state++
	return nil
}

// Lock claims a write lock, blocking until no reader or other writer holds
// the lock.
func (l *RWLock) Lock() {
	l.mu.Lock()
	l.waiters++
	for l.state != 0 {
		l.writers.Wait()
	}
	l.waiters--
	l.state = -1
	l.mu.Unlock()
}

// TryLock claims a write lock without blocking, reporting whether it
// succeeded.
func (l *RWLock) TryLock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == 0 && l.waiters == 0 {
		l.state = -1
		return true
	}
	return false
}

// LockContext is Lock, but returns a *slackerr.Error of Kind
// slackerr.Timeout if ctx is done before the lock is acquired. On
// cancellation the writer's place in the queue is released: waiters is
// decremented and, if this was the last queued writer, readers waiting
// behind it are woken — the same bookkeeping the uncancelled path performs,
// just taken on the cancellation branch instead of the success branch, so
// state/waiters are never left corrupted by a cancelled wait.
func (l *RWLock) LockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return slackerr.Wrap(slackerr.Timeout, "rwlock", "LockContext", err)
	}

	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.writers.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.waiters++
	for l.state != 0 {
		if err := ctx.Err(); err != nil {
			l.waiters--
			if l.waiters == 0 {
				l.readers.Broadcast()
			}
			return slackerr.Wrap(slackerr.Timeout, "rwlock", "LockContext", err)
		}
		l.writers.Wait()
	}
	l.waiters--
	l.state = -1
	return nil
}

// Unlock releases a lock held by either RLock/RLockContext or
// Lock/LockContext. It infers reader-vs-writer from internal state, so the
// caller need not say which kind of lock it holds: unlike sync.RWMutex,
// no separate RUnlock call is required, matching the original
// pthread_rwlock_unlock(3) this is ported from.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	if l.state == -1 {
		l.state = 0
		if l.waiters > 0 {
			l.writers.Signal()
		} else {
			l.readers.Broadcast()
		}
	} else {
		l.state--
		if l.state == 0 {
			l.writers.Signal()
		}
	}
	l.mu.Unlock()
}

// RUnlock is an alias for Unlock, provided so call sites can express reader
// release intent even though the two are interchangeable here.
func (l *RWLock) RUnlock() { l.Unlock() }
