package sequence

import "libslack/slackerr"

// Cursor is an external iterator: a caller-owned handle that holds the
// sequence's lock for its entire lifetime, so a scan through it is atomic
// with respect to any other locked user of the same Locker. Release the
// cursor to drop the lock.
type Cursor[T any] struct {
	seq      *Sequence[T]
	index    int // index of the item Next last returned, or -1 before the first
	write    bool
	locked   bool // set by ReadCursor/WriteCursor, which hold the sequence's lock
	current  bool // Next has returned an item that RemoveCurrent has not removed
	released bool
}

// ReadCursor acquires the sequence's read lock and returns a cursor over
// it; the lock is held until Release is called.
func (s *Sequence[T]) ReadCursor() *Cursor[T] {
	_ = s.lk.RDLock()
	return &Cursor[T]{seq: s, index: -1, write: false, locked: true}
}

// WriteCursor acquires the sequence's write lock and returns a cursor over
// it, so the iteration may also call RemoveCurrent.
func (s *Sequence[T]) WriteCursor() *Cursor[T] {
	_ = s.lk.WRLock()
	return &Cursor[T]{seq: s, index: -1, write: true, locked: true}
}

// CursorUnlocked returns a cursor that acquires no lock; the caller must
// already hold whatever lock discipline the sequence requires.
func (s *Sequence[T]) CursorUnlocked() *Cursor[T] {
	return &Cursor[T]{seq: s, index: -1, write: false}
}

// HasNext reports whether Next would succeed.
func (c *Cursor[T]) HasNext() bool {
	return c.index+1 < c.seq.length
}

// Next advances the cursor and returns the item at the new position, or an
// iterator-misuse error if the sequence is exhausted.
func (c *Cursor[T]) Next() (T, error) {
	var zero T
	if !c.HasNext() {
		return zero, slackerr.New(slackerr.IteratorMisuse, "sequence", "cursor.next", "no more items")
	}
	c.index++
	c.current = true
	return c.seq.items[c.index], nil
}

// RemoveCurrent deletes the item Next most recently returned, adjusting
// the cursor so the following Next call visits the item that used to
// follow it. Calling it before any Next call, or twice in a row without an
// intervening Next, is iterator misuse.
func (c *Cursor[T]) RemoveCurrent() error {
	if c.index < 0 || !c.current {
		return slackerr.New(slackerr.IteratorMisuse, "sequence", "cursor.remove", "no current item")
	}
	if err := c.seq.RemoveRangeUnlocked(c.index, 1); err != nil {
		return err
	}
	c.index--
	c.current = false
	return nil
}

// Release drops whatever lock this cursor holds. Calling it more than
// once is a no-op.
func (c *Cursor[T]) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.locked {
		_ = c.seq.lk.Unlock()
	}
}

// internalCursor is the single built-in iteration anchor a sequence may
// host at a time (spec.md §4.1 "internal iteration"). It is deliberately
// not synchronised: suitable only for a sequence confined to a single
// activity.
type internalCursor[T any] struct {
	index int // index of the item Next last returned, or -1 before the first
}

// HasNext lazily creates the internal cursor on first call (if none is
// active) and reports whether the sequence has a next item; it destroys
// the cursor once the iteration is exhausted.
func (s *Sequence[T]) HasNext() bool {
	if s.cursor == nil {
		s.cursor = &internalCursor[T]{index: -1}
	}
	if s.cursor.index+1 < s.length {
		return true
	}
	s.cursor = nil
	return false
}

// Next advances the internal cursor and returns the item at the new
// position. Calling Next without a prior successful HasNext is iterator
// misuse.
func (s *Sequence[T]) Next() (T, error) {
	var zero T
	if s.cursor == nil {
		return zero, slackerr.New(slackerr.IteratorMisuse, "sequence", "next", "no active iteration")
	}
	s.cursor.index++
	return s.items[s.cursor.index], nil
}

// RemoveCurrent deletes the item Next most recently returned from the
// internal iteration, adjusting the cursor so the next HasNext/Next call
// visits the item that used to follow it.
func (s *Sequence[T]) RemoveCurrent() error {
	if s.cursor == nil || s.cursor.index < 0 {
		return slackerr.New(slackerr.IteratorMisuse, "sequence", "remove_current", "no current item")
	}
	if err := s.RemoveRangeUnlocked(s.cursor.index, 1); err != nil {
		return err
	}
	s.cursor.index--
	return nil
}

// BreakIteration ends the internal iteration early, discarding the cursor.
func (s *Sequence[T]) BreakIteration() {
	s.cursor = nil
}
