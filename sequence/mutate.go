package sequence

import "libslack/slackerr"

// Item returns the item at logical index i (negative indices relative to
// the end, per spec.md §4.1).
func (s *Sequence[T]) Item(i int) (T, error) {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return s.ItemUnlocked(i)
}

// ItemUnlocked is Item without acquiring the sequence's lock.
func (s *Sequence[T]) ItemUnlocked(i int) (T, error) {
	var zero T
	idx, err := normalizeAccessIndex(i, s.length)
	if err != nil {
		return zero, err
	}
	return s.items[idx], nil
}

// removeSlice shifts items left over [idx, idx+n), optionally invoking the
// sequence's destructor on the removed items, and shrinks capacity if the
// shrink rule applies.
func (s *Sequence[T]) removeSlice(idx, n int, destroyItems bool) {
	if n == 0 {
		return
	}
	if destroyItems && s.destroy != nil {
		for j := idx; j < idx+n; j++ {
			s.destroy(s.items[j])
		}
	}
	copy(s.items[idx:], s.items[idx+n:s.length])
	var zero T
	for j := s.length - n; j < s.length; j++ {
		s.items[j] = zero
	}
	s.length -= n
	s.shrinkIfNeeded()
}

// Insert shifts [i, length) right by one and stores item at i.
func (s *Sequence[T]) Insert(i int, item T) error {
	return s.withWriteLockErr(func() error { return s.InsertUnlocked(i, item) })
}

// InsertUnlocked is Insert without acquiring the sequence's lock.
func (s *Sequence[T]) InsertUnlocked(i int, item T) error {
	idx, err := normalizeInsertIndex(i, s.length)
	if err != nil {
		return err
	}
	s.reserve(s.length + 1)
	copy(s.items[idx+1:s.length+1], s.items[idx:s.length])
	s.items[idx] = item
	s.length++
	return nil
}

// InsertRange shifts by src.Length() and fills the gap at i from src, via
// copyFn if non-nil. A destination that owns its items (non-nil destroy)
// requires a non-nil copyFn; a non-owning destination requires a nil
// copyFn — violating either is an invalid-argument error, since mixing the
// two would leave ownership ambiguous.
func (s *Sequence[T]) InsertRange(i int, src *Sequence[T], copyFn func(T) T) error {
	return s.withWriteLockErr(func() error {
		_ = src.lk.RDLock()
		defer src.lk.Unlock()
		return s.InsertRangeUnlocked(i, src, copyFn)
	})
}

// InsertRangeUnlocked is InsertRange without acquiring either sequence's
// lock; the caller must hold src's read lock (or own it exclusively) for
// the duration of the call.
func (s *Sequence[T]) InsertRangeUnlocked(i int, src *Sequence[T], copyFn func(T) T) error {
	if s.destroy != nil && copyFn == nil {
		return slackerr.New(slackerr.Invalid, "sequence", "insert_range", "owning destination requires a copy function")
	}
	if s.destroy == nil && copyFn != nil {
		return slackerr.New(slackerr.Invalid, "sequence", "insert_range", "non-owning destination must not receive a copy function")
	}
	idx, err := normalizeInsertIndex(i, s.length)
	if err != nil {
		return err
	}
	n := src.length
	if n == 0 {
		return nil
	}
	s.reserve(s.length + n)
	copy(s.items[idx+n:s.length+n], s.items[idx:s.length])
	for j := 0; j < n; j++ {
		if copyFn != nil {
			s.items[idx+j] = copyFn(src.items[j])
		} else {
			s.items[idx+j] = src.items[j]
		}
	}
	s.length += n
	return nil
}

// RemoveRange destroys the owned items in [i, i+r) and shifts the tail
// left. remove_range(i, 0) is a no-op.
func (s *Sequence[T]) RemoveRange(i, r int) error {
	return s.withWriteLockErr(func() error { return s.RemoveRangeUnlocked(i, r) })
}

// RemoveRangeUnlocked is RemoveRange without acquiring the sequence's lock.
func (s *Sequence[T]) RemoveRangeUnlocked(i, r int) error {
	idx, err := normalizeInsertIndex(i, s.length)
	if err != nil {
		return err
	}
	rn, err := normalizeRange(r, idx, s.length)
	if err != nil {
		return err
	}
	s.removeSlice(idx, rn, true)
	return nil
}

// Replace destroys [i, i+r), grows or shrinks the gap to size 1, and
// stores item there.
func (s *Sequence[T]) Replace(i, r int, item T) error {
	return s.withWriteLockErr(func() error { return s.ReplaceUnlocked(i, r, item) })
}

// ReplaceUnlocked is Replace without acquiring the sequence's lock.
func (s *Sequence[T]) ReplaceUnlocked(i, r int, item T) error {
	idx, err := normalizeInsertIndex(i, s.length)
	if err != nil {
		return err
	}
	rn, err := normalizeRange(r, idx, s.length)
	if err != nil {
		return err
	}
	if s.destroy != nil {
		for j := idx; j < idx+rn; j++ {
			s.destroy(s.items[j])
		}
	}
	delta := 1 - rn
	if delta > 0 {
		s.reserve(s.length + delta)
	}
	copy(s.items[idx+1:s.length+delta], s.items[idx+rn:s.length])
	s.items[idx] = item
	s.length += delta
	if delta < 0 {
		var zero T
		for j := s.length; j < s.length-delta; j++ {
			s.items[j] = zero
		}
		s.shrinkIfNeeded()
	}
	return nil
}

// Extract returns a new sequence containing copies of [i, i+r) (via copyFn,
// if non-nil) or the same item values if copyFn is nil. The destructor is
// inherited from s when copying; otherwise the extracted sequence is
// non-owning, since it shares item values with s.
func (s *Sequence[T]) Extract(i, r int, copyFn func(T) T) (*Sequence[T], error) {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return s.ExtractUnlocked(i, r, copyFn)
}

// ExtractUnlocked is Extract without acquiring the sequence's lock.
func (s *Sequence[T]) ExtractUnlocked(i, r int, copyFn func(T) T) (*Sequence[T], error) {
	idx, err := normalizeInsertIndex(i, s.length)
	if err != nil {
		return nil, err
	}
	rn, err := normalizeRange(r, idx, s.length)
	if err != nil {
		return nil, err
	}
	var destroy func(T)
	if copyFn != nil {
		destroy = s.destroy
	}
	out := Create[T](destroy, nil)
	if rn == 0 {
		return out, nil
	}
	out.reserve(rn)
	for j := 0; j < rn; j++ {
		if copyFn != nil {
			out.items[j] = copyFn(s.items[idx+j])
		} else {
			out.items[j] = s.items[idx+j]
		}
	}
	out.length = rn
	return out, nil
}

// Splice is Extract(i, r, copyFn) followed by RemoveRange(i, r).
func (s *Sequence[T]) Splice(i, r int, copyFn func(T) T) (*Sequence[T], error) {
	return s.withWriteLockValErr(func() (*Sequence[T], error) {
		return s.SpliceUnlocked(i, r, copyFn)
	})
}

// SpliceUnlocked is Splice without acquiring the sequence's lock.
func (s *Sequence[T]) SpliceUnlocked(i, r int, copyFn func(T) T) (*Sequence[T], error) {
	out, err := s.ExtractUnlocked(i, r, copyFn)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveRangeUnlocked(i, r); err != nil {
		return nil, err
	}
	return out, nil
}

// Push appends item, equivalent to Insert(-1, item).
func (s *Sequence[T]) Push(item T) error {
	return s.withWriteLockErr(func() error { return s.PushUnlocked(item) })
}

// PushUnlocked is Push without acquiring the sequence's lock.
func (s *Sequence[T]) PushUnlocked(item T) error {
	return s.InsertUnlocked(-1, item)
}

// Pop removes and returns the last item. Per spec.md §4.1/§9, the returned
// handle is detached from the backing array (its slot zeroed) before the
// structural shrink runs, so it is never passed to the sequence's
// destructor even when the sequence owns its items: ownership of the
// popped item transfers to the caller.
func (s *Sequence[T]) Pop() (T, error) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	return s.PopUnlocked()
}

// PopUnlocked is Pop without acquiring the sequence's lock.
func (s *Sequence[T]) PopUnlocked() (T, error) {
	var zero T
	if s.length == 0 {
		return zero, slackerr.New(slackerr.Invalid, "sequence", "pop", "sequence is empty")
	}
	idx := s.length - 1
	item := s.items[idx]
	s.items[idx] = zero
	s.removeSlice(idx, 1, false)
	return item, nil
}

// Unshift prepends item, equivalent to Insert(0, item).
func (s *Sequence[T]) Unshift(item T) error {
	return s.withWriteLockErr(func() error { return s.UnshiftUnlocked(item) })
}

// UnshiftUnlocked is Unshift without acquiring the sequence's lock.
func (s *Sequence[T]) UnshiftUnlocked(item T) error {
	return s.InsertUnlocked(0, item)
}

// Shift removes and returns the first item, with the same
// detach-before-destroy guarantee as Pop.
func (s *Sequence[T]) Shift() (T, error) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	return s.ShiftUnlocked()
}

// ShiftUnlocked is Shift without acquiring the sequence's lock.
func (s *Sequence[T]) ShiftUnlocked() (T, error) {
	var zero T
	if s.length == 0 {
		return zero, slackerr.New(slackerr.Invalid, "sequence", "shift", "sequence is empty")
	}
	item := s.items[0]
	s.items[0] = zero
	s.removeSlice(0, 1, false)
	return item, nil
}

func (s *Sequence[T]) withWriteLockValErr(f func() (*Sequence[T], error)) (*Sequence[T], error) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	return f()
}
