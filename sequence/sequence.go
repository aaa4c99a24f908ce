// Package sequence implements a generic, indexable, dynamically resizable
// container of items, with optional ownership (destructor-driven disposal)
// and an optional Locker for thread safety. It is the base container type;
// package hashmap builds its chained hash table on top of it.
package sequence

import (
	"libslack/locker"
	"libslack/slackerr"
)

const minCapacity = 4

// Sequence holds items in insertion order with O(1) indexed access.
// The zero value is not usable; construct with Create, Make, or Copy.
type Sequence[T any] struct {
	items   []T // len(items) == capacity; logical items live in items[:length]
	length  int
	destroy func(T) // nil means the sequence does not own its items
	lk      *locker.Locker
	cursor  *internalCursor[T] // at most one built-in iteration in flight
}

// Create returns an empty sequence. destroy, if non-nil, makes the sequence
// own its items: every item removed from it is passed to destroy exactly
// once. lk, if non-nil, is used to synchronise every locked operation.
func Create[T any](destroy func(T), lk *locker.Locker) *Sequence[T] {
	return &Sequence[T]{destroy: destroy, lk: lk}
}

// Make builds a sequence pre-populated with items, in order.
func Make[T any](destroy func(T), lk *locker.Locker, items ...T) *Sequence[T] {
	s := Create[T](destroy, lk)
	if len(items) == 0 {
		return s
	}
	s.reserve(len(items))
	copy(s.items, items)
	s.length = len(items)
	return s
}

// Copy returns a new sequence with the same locker as src and items built
// by calling copyFn on each of src's items in order; if copyFn is nil, the
// identical item values are reused. The result owns its items (destroy) iff
// destroy is non-nil.
func Copy[T any](src *Sequence[T], destroy func(T), copyFn func(T) T) *Sequence[T] {
	return src.withReadLock(func() *Sequence[T] {
		return src.copyUnlocked(destroy, copyFn)
	})
}

func (s *Sequence[T]) copyUnlocked(destroy func(T), copyFn func(T) T) *Sequence[T] {
	out := Create[T](destroy, s.lk)
	if s.length == 0 {
		return out
	}
	out.reserve(s.length)
	for i := 0; i < s.length; i++ {
		if copyFn != nil {
			out.items[i] = copyFn(s.items[i])
		} else {
			out.items[i] = s.items[i]
		}
	}
	out.length = s.length
	return out
}

// Length returns the number of items currently in the sequence.
func (s *Sequence[T]) Length() int {
	return s.withReadLockVal(func() int { return s.length })
}

// LengthUnlocked is Length without acquiring the sequence's lock.
func (s *Sequence[T]) LengthUnlocked() int { return s.length }

// IsEmpty reports whether the sequence has no items.
func (s *Sequence[T]) IsEmpty() bool { return s.Length() == 0 }

// Own installs destroy as the sequence's destructor, replacing any
// previous one. Legal on a non-empty sequence; future removals use the new
// destructor.
func (s *Sequence[T]) Own(destroy func(T)) {
	s.withWriteLockVoid(func() { s.destroy = destroy })
}

// OwnUnlocked is Own without acquiring the sequence's lock.
func (s *Sequence[T]) OwnUnlocked(destroy func(T)) { s.destroy = destroy }

// Disown clears the destructor and returns the previous one, so the caller
// can re-install it elsewhere (used by hashmap during bucket growth to hand
// ownership to the rebuilt table without double-destroying in-flight
// mappings).
func (s *Sequence[T]) Disown() func(T) {
	return s.withWriteLockVal(func() func(T) {
		return s.disownUnlocked()
	})
}

// DisownUnlocked is Disown without acquiring the sequence's lock.
func (s *Sequence[T]) DisownUnlocked() func(T) {
	return s.disownUnlocked()
}

func (s *Sequence[T]) disownUnlocked() func(T) {
	prev := s.destroy
	s.destroy = nil
	return prev
}

// normalizeIndex maps a possibly-negative index onto a non-negative one, per
// spec.md §4.1: i' = length+1+i when i is negative. It rejects only a
// result that is still negative; the upper bound is checked by
// normalizeInsertIndex (i' may equal length) or normalizeAccessIndex (i'
// must be < length).
func normalizeIndex(i, length int) (int, error) {
	if i < 0 {
		i = length + 1 + i
	}
	if i < 0 {
		return 0, slackerr.New(slackerr.Invalid, "sequence", "index", "index %d out of range for length %d", i, length)
	}
	return i, nil
}

// normalizeInsertIndex validates an index used as an insertion point:
// 0 <= i' <= length.
func normalizeInsertIndex(i, length int) (int, error) {
	idx, err := normalizeIndex(i, length)
	if err != nil {
		return 0, err
	}
	if idx > length {
		return 0, slackerr.New(slackerr.Invalid, "sequence", "index", "insert index %d out of range for length %d", i, length)
	}
	return idx, nil
}

// normalizeAccessIndex validates an index used to retrieve a single
// existing item: 0 <= i' < length.
func normalizeAccessIndex(i, length int) (int, error) {
	idx, err := normalizeIndex(i, length)
	if err != nil {
		return 0, err
	}
	if idx >= length {
		return 0, slackerr.New(slackerr.Invalid, "sequence", "index", "access index %d out of range for length %d", i, length)
	}
	return idx, nil
}

// normalizeRange maps a possibly-negative range length onto a non-negative
// count, relative to an already-normalized start index i', per spec.md
// §4.1: r' = length+1+r-i'.
func normalizeRange(r, i, length int) (int, error) {
	if r < 0 {
		r = length + 1 + r - i
	}
	if r < 0 || i+r > length {
		return 0, slackerr.New(slackerr.Invalid, "sequence", "range", "range %d at index %d out of bounds for length %d", r, i, length)
	}
	return r, nil
}

// growCapacity returns the smallest power of two >= minCapacity that is
// also >= needed, doubling current repeatedly (spec.md §4.1 growth rule).
func growCapacity(current, needed int) int {
	if current < minCapacity {
		current = minCapacity
	}
	for current < needed {
		current *= 2
	}
	return current
}

// shrinkCapacity halves current repeatedly while needed stays below half
// of it, never going below minCapacity (spec.md §4.1 shrink rule).
func shrinkCapacity(current, needed int) int {
	for current > minCapacity && needed < current/2 {
		current /= 2
	}
	if current < minCapacity {
		current = minCapacity
	}
	return current
}

// reserve grows the backing buffer, if necessary, so it can hold needed
// items without moving logical items relative to their position.
func (s *Sequence[T]) reserve(needed int) {
	current := len(s.items)
	if current >= needed {
		return
	}
	newCap := growCapacity(current, needed)
	grown := make([]T, newCap)
	copy(grown, s.items[:s.length])
	s.items = grown
}

// shrinkIfNeeded shrinks the backing buffer after a removal, never moving
// logical items relative to their position.
func (s *Sequence[T]) shrinkIfNeeded() {
	current := len(s.items)
	if current <= minCapacity {
		return
	}
	newCap := shrinkCapacity(current, s.length)
	if newCap == current {
		return
	}
	shrunk := make([]T, newCap)
	copy(shrunk, s.items[:s.length])
	s.items = shrunk
}

// withReadLock/withWriteLock/etc. centralise the locked-vs-unlocked
// dispatch every public method needs; see spec.md §5 lock discipline.

func (s *Sequence[T]) withReadLock(f func() *Sequence[T]) *Sequence[T] {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return f()
}

func (s *Sequence[T]) withReadLockVal(f func() int) int {
	_ = s.lk.RDLock()
	defer s.lk.Unlock()
	return f()
}

func (s *Sequence[T]) withWriteLockVoid(f func()) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	f()
}

func (s *Sequence[T]) withWriteLockVal(f func() func(T)) func(T) {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	return f()
}

func (s *Sequence[T]) withWriteLockErr(f func() error) error {
	_ = s.lk.WRLock()
	defer s.lk.Unlock()
	return f()
}
