package sequence

import (
	"sort"

	"libslack/heapsort"
	"libslack/locker"
	"libslack/slackerr"
)

// heapSortThreshold is the length at and above which Sort switches from the
// platform sort to the heap sort, per spec.md §4.1.
const heapSortThreshold = 10_000

// Sort orders the sequence in place using cmp; stability is not
// guaranteed. Sequences shorter than 10,000 items use sort.Slice; those of
// 10,000 items or more use the heap sort in package heapsort.
func (s *Sequence[T]) Sort(cmp func(a, b T) int) {
	s.withWriteLockVoid(func() { s.SortUnlocked(cmp) })
}

// SortUnlocked is Sort without acquiring the sequence's lock.
func (s *Sequence[T]) SortUnlocked(cmp func(a, b T) int) {
	items := s.items[:s.length]
	if s.length < heapSortThreshold {
		sort.Slice(items, func(i, j int) bool { return cmp(items[i], items[j]) < 0 })
		return
	}
	heapsort.Sort(items, cmp)
}

// Apply invokes action(item, index) for each item in order. The read-
// locked, write-locked, and unlocked variants below differ only in which
// lock, if any, is held for the duration.
func (s *Sequence[T]) Apply(action func(item T, index int)) {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	s.ApplyUnlocked(action)
}

// ApplyWrite is Apply, but acquires the write lock — for an action that
// also mutates the sequence's items in place (not its structure).
func (s *Sequence[T]) ApplyWrite(action func(item T, index int)) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	s.ApplyUnlocked(action)
}

// ApplyUnlocked is Apply without acquiring any lock.
func (s *Sequence[T]) ApplyUnlocked(action func(item T, index int)) {
	for i := 0; i < s.length; i++ {
		action(s.items[i], i)
	}
}

// Map builds and returns a new sequence containing f(item, index) for
// every item in s, in order. destroy becomes the new sequence's
// destructor. Go methods cannot introduce a type parameter beyond their
// receiver's, so — unlike Apply/Grep/Query — Map is a package-level
// function rather than a method.
func Map[T, U any](s *Sequence[T], destroy func(U), f func(item T, index int) U, lk *locker.Locker) *Sequence[U] {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return MapUnlocked(s, destroy, f, lk)
}

// MapUnlocked is Map without acquiring s's lock.
func MapUnlocked[T, U any](s *Sequence[T], destroy func(U), f func(item T, index int) U, lk *locker.Locker) *Sequence[U] {
	out := Create[U](destroy, lk)
	if s.length == 0 {
		return out
	}
	out.reserve(s.length)
	for i := 0; i < s.length; i++ {
		out.items[i] = f(s.items[i], i)
	}
	out.length = s.length
	return out
}

// Grep builds and returns a new, non-owning sequence of the items in s for
// which pred(item, index) is true. A nil pred is invalid-argument: the
// source's list_grep_with_locker checks both its list and its predicate
// argument for null (a redundant `!list || !list` in the original, almost
// certainly meant `!list || !grep`), so both required inputs are checked
// here too.
func (s *Sequence[T]) Grep(pred func(item T, index int) bool) (*Sequence[T], error) {
	if pred == nil {
		return nil, slackerr.New(slackerr.Invalid, "sequence", "grep", "predicate must not be nil")
	}
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return s.GrepUnlocked(pred)
}

// GrepUnlocked is Grep without acquiring the sequence's lock.
func (s *Sequence[T]) GrepUnlocked(pred func(item T, index int) bool) (*Sequence[T], error) {
	if pred == nil {
		return nil, slackerr.New(slackerr.Invalid, "sequence", "grep", "predicate must not be nil")
	}
	out := Create[T](nil, nil)
	for i := 0; i < s.length; i++ {
		if pred(s.items[i], i) {
			_ = out.PushUnlocked(s.items[i])
		}
	}
	return out, nil
}

// Query advances cursor from its current value until pred(item, index) is
// satisfied, starting the scan at *cursor if it is within bounds. On
// success it sets *cursor to the found index and returns it; on
// exhaustion it sets *cursor to -1 and returns -1.
func (s *Sequence[T]) Query(cursor *int, pred func(item T, index int) bool) int {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return s.QueryUnlocked(cursor, pred)
}

// QueryUnlocked is Query without acquiring the sequence's lock.
func (s *Sequence[T]) QueryUnlocked(cursor *int, pred func(item T, index int) bool) int {
	start := *cursor
	if start < 0 {
		start = 0
	}
	for i := start; i < s.length; i++ {
		if pred(s.items[i], i) {
			*cursor = i
			return i
		}
	}
	*cursor = -1
	return -1
}
