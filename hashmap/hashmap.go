// Package hashmap implements a generic, chained hash table layered on
// package sequence: each bucket is a Sequence of mapping records. Growth,
// ownership, and locking follow the same model as sequence.
package hashmap

import (
	"libslack/internal/primes"
	"libslack/locker"
	"libslack/sequence"
	"libslack/slackerr"
)

// growthLoadFactor is the average chain length that triggers a grow.
const growthLoadFactor = 2.0

// mapping is one (key, value) record stored inside a chain. It carries its
// own destructor pointers so they remain valid across map growth, when
// mappings are reconstructed in the new table.
type mapping[K comparable, V any] struct {
	key          K
	value        V
	keyDestroy   func(K)
	valueDestroy func(V)
}

func destroyMapping[K comparable, V any](m mapping[K, V]) {
	if m.keyDestroy != nil {
		m.keyDestroy(m.key)
	}
	if m.valueDestroy != nil {
		m.valueDestroy(m.value)
	}
}

// Map is a hash table of (key, value) pairs, chained on sequence.Sequence.
type Map[K comparable, V any] struct {
	buckets      []*sequence.Sequence[mapping[K, V]]
	bucketCount  int
	count        int
	hash         func(bucketCount int, key K) int
	copyKey      func(K) K
	cmp          func(a, b K) bool
	keyDestroy   func(K)
	valueDestroy func(V)
	lk           *locker.Locker
	loadFactor   float64
}

// New builds a generic map. sizeHint seeds the initial bucket count
// (rounded up to the nearest prime in the bucket-size table). hash must
// return a value in [0, bucketCount). copyKey copies a key on insertion
// (use an identity function if copying is unnecessary). cmp compares two
// keys for equality. keyDestroy/valueDestroy, if non-nil, make the map own
// keys/values respectively.
func New[K comparable, V any](
	sizeHint int,
	hash func(bucketCount int, key K) int,
	copyKey func(K) K,
	cmp func(a, b K) bool,
	keyDestroy func(K),
	valueDestroy func(V),
	lk *locker.Locker,
) *Map[K, V] {
	bucketCount := primes.NextSize(sizeHint)
	return &Map[K, V]{
		buckets:      make([]*sequence.Sequence[mapping[K, V]], bucketCount),
		bucketCount:  bucketCount,
		hash:         hash,
		copyKey:      copyKey,
		cmp:          cmp,
		keyDestroy:   keyDestroy,
		valueDestroy: valueDestroy,
		lk:           lk,
		loadFactor:   growthLoadFactor,
	}
}

// NewStrings builds a string-keyed map using the TPOP rolling hash
// (h = h*31 + byte, reduced modulo the bucket count) from Kernighan & Pike,
// The Practice of Programming — the same hash the original C map module
// uses for its default string-keyed construction. Go strings are
// immutable, so copyKey is the identity function: unlike C's strdup, no
// allocation is needed to "own" a copy of the key.
func NewStrings[V any](sizeHint int, valueDestroy func(V), lk *locker.Locker) *Map[string, V] {
	return New[string, V](sizeHint, tpopHash, func(s string) string { return s }, func(a, b string) bool { return a == b }, nil, valueDestroy, lk)
}

func tpopHash(bucketCount int, key string) int {
	h := uint64(0)
	for i := 0; i < len(key); i++ {
		h = h*31 + uint64(key[i])
	}
	return int(h % uint64(bucketCount))
}

// SetLoadFactor overrides the default 2.0 growth threshold, primarily so
// tests can force growth without inserting thousands of keys.
func (m *Map[K, V]) SetLoadFactor(factor float64) {
	if factor <= 0 {
		factor = growthLoadFactor
	}
	m.loadFactor = factor
}

// Count returns the number of live mappings.
func (m *Map[K, V]) Count() int {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	return m.count
}

// BucketCount returns the current number of buckets.
func (m *Map[K, V]) BucketCount() int {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	return m.bucketCount
}

func (m *Map[K, V]) bucketFor(key K) int {
	return m.hash(m.bucketCount, key)
}

func (m *Map[K, V]) chain(b int) *sequence.Sequence[mapping[K, V]] {
	if m.buckets[b] == nil {
		m.buckets[b] = sequence.Create[mapping[K, V]](destroyMapping[K, V], nil)
	}
	return m.buckets[b]
}

// findInChain scans a bucket's chain under cmp, returning the index of a
// matching mapping or -1.
func (m *Map[K, V]) findInChain(chain *sequence.Sequence[mapping[K, V]], key K) int {
	if chain == nil {
		return -1
	}
	idx := -1
	chain.ApplyUnlocked(func(item mapping[K, V], i int) {
		if idx == -1 && m.cmp(item.key, key) {
			idx = i
		}
	})
	return idx
}

// Insert adds key->value. If key is already present and replace is false,
// Insert fails with an Invalid-kind "already exists" error and leaves
// the map unchanged; if replace is true, the existing mapping (and its
// owned key/value) is destroyed first. Growth (see growUnlocked, below) runs
// before the bucket is touched, per spec.md §4.2 step 1.
func (m *Map[K, V]) Insert(key K, value V, replace bool) error {
	return m.withWriteLockErr(func() error { return m.InsertUnlocked(key, value, replace) })
}

// InsertUnlocked is Insert without acquiring the map's lock.
func (m *Map[K, V]) InsertUnlocked(key K, value V, replace bool) error {
	if float64(m.count)/float64(m.bucketCount) >= m.loadFactor {
		m.growUnlocked()
	}
	b := m.bucketFor(key)
	if b < 0 || b >= m.bucketCount {
		return slackerr.New(slackerr.Invalid, "hashmap", "insert", "hash returned out-of-range bucket %d for bucket_count %d", b, m.bucketCount)
	}
	chain := m.chain(b)
	if idx := m.findInChain(chain, key); idx != -1 {
		if !replace {
			return slackerr.New(slackerr.Invalid, "hashmap", "insert", "key already exists")
		}
		if err := chain.RemoveRangeUnlocked(idx, 1); err != nil {
			return err
		}
		m.count--
	}
	var copiedKey K
	if m.copyKey != nil {
		copiedKey = m.copyKey(key)
	} else {
		copiedKey = key
	}
	mp := mapping[K, V]{key: copiedKey, value: value, keyDestroy: m.keyDestroy, valueDestroy: m.valueDestroy}
	if err := chain.PushUnlocked(mp); err != nil {
		return err
	}
	m.count++
	return nil
}

// Get returns the value stored under key, or a NotFound error if key is
// absent.
func (m *Map[K, V]) Get(key K) (V, error) {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	return m.GetUnlocked(key)
}

// GetUnlocked is Get without acquiring the map's lock.
func (m *Map[K, V]) GetUnlocked(key K) (V, error) {
	var zero V
	b := m.bucketFor(key)
	chain := m.buckets[b]
	idx := m.findInChain(chain, key)
	if idx == -1 {
		return zero, slackerr.New(slackerr.NotFound, "hashmap", "get", "key not found")
	}
	mp, err := chain.ItemUnlocked(idx)
	if err != nil {
		return zero, err
	}
	return mp.value, nil
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, err := m.Get(key)
	return err == nil
}

// Remove deletes key's mapping, destroying the owned key and value, and
// decrements count. Removing an absent key fails with NotFound.
func (m *Map[K, V]) Remove(key K) error {
	return m.withWriteLockErr(func() error { return m.RemoveUnlocked(key) })
}

// RemoveUnlocked is Remove without acquiring the map's lock.
func (m *Map[K, V]) RemoveUnlocked(key K) error {
	b := m.bucketFor(key)
	chain := m.buckets[b]
	idx := m.findInChain(chain, key)
	if idx == -1 {
		return slackerr.New(slackerr.NotFound, "hashmap", "remove", "key not found")
	}
	if err := chain.RemoveRangeUnlocked(idx, 1); err != nil {
		return err
	}
	m.count--
	return nil
}

// growUnlocked grows the table to the next prime size, per spec.md §4.2
// Growth: rebuild every mapping into a freshly-sized table (re-copying
// each key via copyKey), then disown the old chains so their destructors
// never fire for mappings that now live in the new table, then adopt the
// new table's buckets/size. Growth past the largest prime is a no-op.
func (m *Map[K, V]) growUnlocked() {
	if primes.IsMaxSize(m.bucketCount) {
		return
	}
	newCount := primes.GrowthSize(m.bucketCount)
	fresh := &Map[K, V]{
		buckets:      make([]*sequence.Sequence[mapping[K, V]], newCount),
		bucketCount:  newCount,
		hash:         m.hash,
		copyKey:      m.copyKey,
		cmp:          m.cmp,
		keyDestroy:   m.keyDestroy,
		valueDestroy: m.valueDestroy,
		lk:           nil,
		loadFactor:   m.loadFactor,
	}
	for _, chain := range m.buckets {
		if chain == nil {
			continue
		}
		chain.ApplyUnlocked(func(mp mapping[K, V], _ int) {
			_ = fresh.InsertUnlocked(mp.key, mp.value, true)
		})
	}
	for _, chain := range m.buckets {
		if chain != nil {
			chain.DisownUnlocked()
		}
	}
	m.buckets = fresh.buckets
	m.bucketCount = fresh.bucketCount
}

// cursor is the map's iteration anchor: it visits mappings in bucket-index
// then intra-bucket-index order, per spec.md §4.2 "Iteration". Exported as
// Cursor so callers can hold one across a bounded scan.
type Cursor[K comparable, V any] struct {
	m          *Map[K, V]
	bucket     int
	index      int // index within buckets[bucket] last returned by Next, or -1
	nextBucket int
	nextIndex  int
	primed     bool
	locked     bool // set by ReadCursor/WriteCursor, which hold m's lock
	released   bool
}

// ReadCursor acquires m's read lock and returns a cursor over it; the lock
// is held until Release is called, giving the scan the atomic
// bounded-iteration guarantee spec.md §5 requires ("iterator creation
// acquires the lock... iterator release drops it").
func (m *Map[K, V]) ReadCursor() *Cursor[K, V] {
	_ = m.lk.RDLock()
	return &Cursor[K, V]{m: m, bucket: -1, index: -1, locked: true}
}

// WriteCursor acquires m's write lock and returns a cursor over it, so the
// iteration may also call RemoveCurrent.
func (m *Map[K, V]) WriteCursor() *Cursor[K, V] {
	_ = m.lk.WRLock()
	return &Cursor[K, V]{m: m, bucket: -1, index: -1, locked: true}
}

// Cursor returns a cursor that acquires no lock; the caller must already
// hold whatever lock discipline m requires. Equivalent to sequence's
// CursorUnlocked.
func (m *Map[K, V]) Cursor() *Cursor[K, V] {
	return &Cursor[K, V]{m: m, bucket: -1, index: -1}
}

// Release drops whatever lock this cursor holds (a no-op for a cursor
// obtained via Cursor()). Calling it more than once is a no-op.
func (c *Cursor[K, V]) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.locked {
		_ = c.m.lk.Unlock()
	}
}

// HasNext reports whether Next would succeed, advancing past empty
// buckets and pre-computing the next (bucket, index) pair that Next will
// consume.
func (c *Cursor[K, V]) HasNext() bool {
	b, idx := c.bucket, c.index+1
	if b < 0 {
		b = 0
	}
	for b < len(c.m.buckets) {
		chain := c.m.buckets[b]
		if chain != nil && idx < chain.LengthUnlocked() {
			c.nextBucket, c.nextIndex = b, idx
			c.primed = true
			return true
		}
		b++
		idx = 0
	}
	c.primed = false
	return false
}

// Next consumes the pair HasNext pre-computed and returns that mapping's
// key and value.
func (c *Cursor[K, V]) Next() (K, V, error) {
	var zeroK K
	var zeroV V
	if !c.primed {
		return zeroK, zeroV, slackerr.New(slackerr.IteratorMisuse, "hashmap", "cursor.next", "call HasNext first")
	}
	c.primed = false
	c.bucket, c.index = c.nextBucket, c.nextIndex
	mp, err := c.m.buckets[c.bucket].ItemUnlocked(c.index)
	if err != nil {
		return zeroK, zeroV, err
	}
	return mp.key, mp.value, nil
}

// RemoveCurrent removes the mapping Next most recently returned from its
// chain and decrements the map's count. The cursor's intra-bucket index is
// decremented so the following HasNext revisits the same slot, now
// occupied (if anything) by the mapping that slid into it.
func (c *Cursor[K, V]) RemoveCurrent() error {
	if c.bucket < 0 || c.index < 0 {
		return slackerr.New(slackerr.IteratorMisuse, "hashmap", "cursor.remove", "no current item")
	}
	chain := c.m.buckets[c.bucket]
	if err := chain.RemoveRangeUnlocked(c.index, 1); err != nil {
		return err
	}
	c.m.count--
	c.index--
	return nil
}

// Apply invokes action(key, value) for every mapping, in cursor order. The
// read-locked, write-locked, and unlocked variants differ only in which
// lock, if any, is held for the duration.
func (m *Map[K, V]) Apply(action func(key K, value V)) {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	m.ApplyUnlocked(action)
}

// ApplyWrite is Apply, but acquires the write lock — for an action that
// also mutates values in place.
func (m *Map[K, V]) ApplyWrite(action func(key K, value V)) {
	_ = m.lk.WRLock()
	defer m.lk.Unlock()
	m.ApplyUnlocked(action)
}

// ApplyUnlocked is Apply without acquiring any lock.
func (m *Map[K, V]) ApplyUnlocked(action func(key K, value V)) {
	c := m.Cursor()
	for c.HasNext() {
		k, v, err := c.Next()
		if err != nil {
			return
		}
		action(k, v)
	}
}

// Keys returns a new, non-owning sequence of every key, in iteration
// order. The returned sequence borrows from m: its lifetime must not
// exceed m's.
func (m *Map[K, V]) Keys() *sequence.Sequence[K] {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	return m.KeysUnlocked()
}

// KeysUnlocked is Keys without acquiring the map's lock.
func (m *Map[K, V]) KeysUnlocked() *sequence.Sequence[K] {
	out := sequence.Create[K](nil, nil)
	m.ApplyUnlocked(func(key K, _ V) { _ = out.PushUnlocked(key) })
	return out
}

// Values returns a new, non-owning sequence of every value, in iteration
// order. The returned sequence borrows from m: its lifetime must not
// exceed m's.
func (m *Map[K, V]) Values() *sequence.Sequence[V] {
	_ = m.lk.RDLock()
	defer m.lk.Unlock()
	return m.ValuesUnlocked()
}

// ValuesUnlocked is Values without acquiring the map's lock.
func (m *Map[K, V]) ValuesUnlocked() *sequence.Sequence[V] {
	out := sequence.Create[V](nil, nil)
	m.ApplyUnlocked(func(_ K, value V) { _ = out.PushUnlocked(value) })
	return out
}

func (m *Map[K, V]) withWriteLockErr(f func() error) error {
	_ = m.lk.WRLock()
	defer m.lk.Unlock()
	return f()
}
