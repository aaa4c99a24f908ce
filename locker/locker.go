// Package locker implements the Locker abstraction: a thread synchronisation
// strategy decoupled from the code that uses it. An object that wants to be
// usable safely from multiple goroutines, but doesn't want to pay for
// synchronisation when the caller knows it's only ever touched by one,
// stores a *Locker and calls through it. A nil *Locker means "no
// synchronisation" and costs nothing beyond a nil check.
package locker

import (
	"github.com/google/uuid"

	"libslack/rwlock"
	"libslack/slacklog"
)

// Locker bundles an opaque lock value with the five operations needed to
// drive it: try-read-lock, read-lock, try-write-lock, write-lock, unlock.
// Arbitrary objects hold a *Locker to synchronise themselves without
// knowing or caring whether it's backed by a mutex, a readers/writer lock,
// or nothing at all.
type Locker struct {
	lock      any
	tryRDLock func(any) error
	rdLock    func(any) error
	tryWRLock func(any) error
	wrLock    func(any) error
	unlock    func(any) error
}

// New builds a fully custom Locker around lock, driven by the five
// supplied operations.
func New(lock any, tryRDLock, rdLock, tryWRLock, wrLock, unlock func(any) error) *Locker {
	return &Locker{
		lock:      lock,
		tryRDLock: tryRDLock,
		rdLock:    rdLock,
		tryWRLock: tryWRLock,
		wrLock:    wrLock,
		unlock:    unlock,
	}
}

// wrap is the dispatch helper every public method below funnels through:
// a nil Locker performs no synchronisation and never errors.
func wrap(l *Locker, op func(*Locker) func(any) error) error {
	if l == nil {
		return nil
	}
	f := op(l)
	if f == nil {
		return nil
	}
	return f(l.lock)
}

// TryRDLock attempts a non-blocking read lock.
func (l *Locker) TryRDLock() error {
	return wrap(l, func(l *Locker) func(any) error { return l.tryRDLock })
}

// RDLock blocks until a read lock is held.
func (l *Locker) RDLock() error {
	return wrap(l, func(l *Locker) func(any) error { return l.rdLock })
}

// TryWRLock attempts a non-blocking write lock.
func (l *Locker) TryWRLock() error {
	return wrap(l, func(l *Locker) func(any) error { return l.tryWRLock })
}

// WRLock blocks until a write lock is held.
func (l *Locker) WRLock() error {
	return wrap(l, func(l *Locker) func(any) error { return l.wrLock })
}

// Unlock releases whichever lock is currently held.
func (l *Locker) Unlock() error {
	return wrap(l, func(l *Locker) func(any) error { return l.unlock })
}

// NewMutex returns a Locker backed by a plain exclusive lock: both the
// read and write operations map to the same exclusive acquisition, since a
// mutex has no concept of shared read access. This matches the C source's
// locker_create_mutex, whose rdlock and wrlock function pointers both point
// at the same pthread_mutex_lock wrapper.
func NewMutex() *Locker {
	mu := &mutexLock{}
	return New(mu,
		func(a any) error { return a.(*mutexLock).tryLock() },
		func(a any) error { return a.(*mutexLock).lock() },
		func(a any) error { return a.(*mutexLock).tryLock() },
		func(a any) error { return a.(*mutexLock).lock() },
		func(a any) error { return a.(*mutexLock).unlock() },
	)
}

// NewRWLock returns a Locker backed by a rwlock.RWLock, giving genuine
// concurrent-reader semantics.
func NewRWLock() *Locker {
	rw := rwlock.New()
	return New(rw,
		func(a any) error { return tryRDLockOp(a.(*rwlock.RWLock)) },
		func(a any) error { a.(*rwlock.RWLock).RLock(); return nil },
		func(a any) error { return tryWRLockOp(a.(*rwlock.RWLock)) },
		func(a any) error { a.(*rwlock.RWLock).Lock(); return nil },
		func(a any) error { a.(*rwlock.RWLock).Unlock(); return nil },
	)
}

func tryRDLockOp(rw *rwlock.RWLock) error {
	if rw.TryRLock() {
		return nil
	}
	return errBusy
}

func tryWRLockOp(rw *rwlock.RWLock) error {
	if rw.TryLock() {
		return nil
	}
	return errBusy
}

// NewDebug wraps inner, logging a line before and after every operation via
// log, tagged with a uuid minted once at construction so every line from
// this wrapped locker's lifetime is greppable by that tag.
func NewDebug(inner *Locker, log slacklog.Logger) *Locker {
	if log == nil {
		log = slacklog.NewNop()
	}
	tag := uuid.NewString()
	traced := func(name string, f func(any) error) func(any) error {
		return func(a any) error {
			log.Debug(name+" start", map[string]any{"locker": tag})
			err := f(a)
			fields := map[string]any{"locker": tag}
			if err != nil {
				fields["err"] = err.Error()
				log.Error(name+" done", fields)
			} else {
				log.Debug(name+" done", fields)
			}
			return err
		}
	}
	return New(inner,
		traced("tryrdlock", func(any) error { return inner.TryRDLock() }),
		traced("rdlock", func(any) error { return inner.RDLock() }),
		traced("trywrlock", func(any) error { return inner.TryWRLock() }),
		traced("wrlock", func(any) error { return inner.WRLock() }),
		traced("unlock", func(any) error { return inner.Unlock() }),
	)
}
