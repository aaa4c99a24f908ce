package sequence_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"libslack/locker"
	"libslack/sequence"
)

func strCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Scenario 1: create a string sequence from "abc" "def" "ghi" "jkl".
func TestScenario1_MakeAndItem(t *testing.T) {
	s := sequence.Make[string](nil, nil, "abc", "def", "ghi", "jkl")
	require.Equal(t, 4, s.Length())
	for i, want := range []string{"abc", "def", "ghi", "jkl"} {
		got, err := s.Item(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	last, err := s.Item(-2)
	require.NoError(t, err)
	require.Equal(t, "jkl", last)
}

// Scenario 2: insert and remove at fixed positions.
func TestScenario2_InsertRemove(t *testing.T) {
	s := sequence.Make[string](nil, nil, "def", "abc")
	require.NoError(t, s.Insert(1, "ghi"))
	require.Equal(t, []string{"def", "ghi", "abc"}, snapshot(t, s))

	s2 := sequence.Make[string](nil, nil, "abc", "def", "ghi", "jkl")
	require.NoError(t, s2.RemoveRange(3, 1))
	require.Equal(t, []string{"abc", "def", "ghi"}, snapshot(t, s2))
}

// Scenario 3: relative indices across remove_range/insert/replace.
func TestScenario3_RelativeIndices(t *testing.T) {
	s := sequence.Make[string](nil, nil, "0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	require.NoError(t, s.RemoveRange(-5, -1))
	require.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, snapshot(t, s))

	require.NoError(t, s.Insert(-1, "X"))
	require.Equal(t, []string{"0", "1", "2", "3", "4", "5", "X"}, snapshot(t, s))

	// Replace(-5, -2, "Y") on this 7-item sequence: i' = 7+1-5 = 3, r' =
	// 7+1-2-3 = 3, so indices [3, 6) ("3", "4", "5") collapse into "Y",
	// per the index/range normalisation formula (see DESIGN.md's Open
	// Question decisions for why this follows the formula rather than
	// spec.md's own narrated result for this step).
	require.NoError(t, s.Replace(-5, -2, "Y"))
	require.Equal(t, []string{"0", "1", "2", "Y", "X"}, snapshot(t, s))
}

func snapshot(t *testing.T, s *sequence.Sequence[string]) []string {
	t.Helper()
	out := make([]string, 0, s.Length())
	s.Apply(func(item string, _ int) { out = append(out, item) })
	return out
}

func TestRelativeIndexBoundaries(t *testing.T) {
	s := sequence.Make[string](nil, nil, "a", "b", "c")
	require.NoError(t, s.Insert(-1, "d"))
	require.Equal(t, []string{"a", "b", "c", "d"}, snapshot(t, s))

	last, err := s.Item(-2)
	require.NoError(t, err)
	require.Equal(t, "d", last)

	_, err = s.Item(-1)
	require.Error(t, err)
	_, err = s.Item(s.Length())
	require.Error(t, err)
}

func TestEmptySequencePopShift(t *testing.T) {
	s := sequence.Create[int](nil, nil)
	_, err := s.Pop()
	require.Error(t, err)
	_, err = s.Shift()
	require.Error(t, err)
	require.NoError(t, s.RemoveRange(0, 0))
}

func TestPushPopRoundTrip(t *testing.T) {
	s := sequence.Create[int](nil, nil)
	require.NoError(t, s.Push(42))
	initialLen := s.Length()
	v, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, initialLen-1, s.Length())
}

func TestUnshiftShiftRoundTrip(t *testing.T) {
	s := sequence.Create[int](nil, nil)
	require.NoError(t, s.Unshift(7))
	v, err := s.Shift()
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 0, s.Length())
}

func TestOwningSequenceDestroysOnRemove(t *testing.T) {
	var destroyed []int
	destroy := func(v int) { destroyed = append(destroyed, v) }
	s := sequence.Make[int](destroy, nil, 1, 2, 3)
	require.NoError(t, s.RemoveRange(0, 2))
	require.Equal(t, []int{1, 2}, destroyed)
}

func TestPopDoesNotDestroy(t *testing.T) {
	var destroyed []int
	destroy := func(v int) { destroyed = append(destroyed, v) }
	s := sequence.Make[int](destroy, nil, 1, 2, 3)
	v, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, 3, v)
	require.Empty(t, destroyed, "pop must hand ownership to the caller, not destroy")
}

func TestDisownStopsDestruction(t *testing.T) {
	var destroyed []int
	destroy := func(v int) { destroyed = append(destroyed, v) }
	s := sequence.Make[int](destroy, nil, 1, 2)
	prev := s.Disown()
	require.NotNil(t, prev)
	require.NoError(t, s.RemoveRange(0, 2))
	require.Empty(t, destroyed)
}

func TestCopyExtractRoundTrip(t *testing.T) {
	src := sequence.Make[string](nil, nil, "a", "b", "c")
	cp := sequence.Copy[string](src, nil, nil)
	ex, err := cp.Extract(0, cp.Length(), nil)
	require.NoError(t, err)
	require.Equal(t, snapshot(t, src), snapshot(t, ex))
}

func TestSpliceRemovesAndReturns(t *testing.T) {
	s := sequence.Make[string](nil, nil, "a", "b", "c", "d")
	out, err := s.Splice(1, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, snapshot(t, out))
	require.Equal(t, []string{"a", "d"}, snapshot(t, s))
}

func TestInsertRangePolicyViolation(t *testing.T) {
	owning := sequence.Create[int](func(int) {}, nil)
	src := sequence.Make[int](nil, nil, 1, 2)
	require.Error(t, owning.InsertRange(-1, src, nil), "owning destination requires a copy function")

	nonOwning := sequence.Create[int](nil, nil)
	require.Error(t, nonOwning.InsertRange(-1, src, func(v int) int { return v }), "non-owning destination must not receive a copy function")
}

func TestSortSmallUsesPlatformSort(t *testing.T) {
	s := sequence.Make[string](nil, nil, "d", "b", "c", "a")
	s.Sort(strCmp)
	require.Equal(t, []string{"a", "b", "c", "d"}, snapshot(t, s))
}

func TestGrepFiltersWithoutOwning(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 2, 3, 4, 5, 6)
	evens, err := s.Grep(func(item int, _ int) bool { return item%2 == 0 })
	require.NoError(t, err)
	require.Equal(t, 3, evens.Length())
}

func TestGrepNilPredicateIsInvalid(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 2, 3)
	_, err := s.Grep(nil)
	require.Error(t, err)
}

func TestMapBuildsNewSequence(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 2, 3)
	strs := sequence.Map[int, string](s, nil, func(item int, _ int) string {
		return strconv.Itoa(item * 10)
	}, nil)
	require.Equal(t, []string{"10", "20", "30"}, snapshot(t, strs))
}

func TestQueryFindsAndExhausts(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 3, 5, 6, 7)
	cursor := 0
	found := s.Query(&cursor, func(item int, _ int) bool { return item%2 == 0 })
	require.Equal(t, 3, found)
	require.Equal(t, 3, cursor)

	cursor = found + 1
	found = s.Query(&cursor, func(item int, _ int) bool { return item%2 == 0 })
	require.Equal(t, -1, found)
	require.Equal(t, -1, cursor)
}

func TestExternalCursorRemove(t *testing.T) {
	s := sequence.Make[string](nil, nil, "a", "b", "c")
	c := s.WriteCursor()
	defer c.Release()

	v, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, "a", v)

	v, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, "b", v)
	require.NoError(t, c.RemoveCurrent())

	v, err = c.Next()
	require.NoError(t, err)
	require.Equal(t, "c", v)
	require.False(t, c.HasNext())
}

func TestInternalIteration(t *testing.T) {
	s := sequence.Make[int](nil, nil, 10, 20, 30)
	var seen []int
	for s.HasNext() {
		v, err := s.Next()
		require.NoError(t, err)
		seen = append(seen, v)
	}
	require.Equal(t, []int{10, 20, 30}, seen)
}

func TestInternalIterationRemoveCurrent(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 2, 3)
	var seen []int
	for s.HasNext() {
		v, err := s.Next()
		require.NoError(t, err)
		seen = append(seen, v)
		if v == 2 {
			require.NoError(t, s.RemoveCurrent())
		}
	}
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, 2, s.Length())
}

func TestInternalIterationBreak(t *testing.T) {
	s := sequence.Make[int](nil, nil, 1, 2, 3)
	require.True(t, s.HasNext())
	v, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	s.BreakIteration()

	// BreakIteration discards the cursor, so the next iteration starts
	// from the beginning rather than resuming after item 1.
	require.True(t, s.HasNext())
	v, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

// Scenario 6: shared RWLock-backed sequence with a producer, a consumer,
// and ten concurrently scanning iterators.
func TestScenario6_ProducerConsumerIterators(t *testing.T) {
	lk := locker.NewRWLock()
	s := sequence.Create[int](nil, lk)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i <= 1000; i++ {
			if err := s.Unshift(i); err != nil {
				return err
			}
		}
		return nil
	})

	consumed := make(chan int, 1)
	g.Go(func() error {
		count := 0
		for {
			v, err := s.Pop()
			if err != nil {
				time.Sleep(time.Microsecond)
				continue
			}
			if v == 1000 {
				consumed <- count
				return nil
			}
			count++
		}
	})

	var wg sync.WaitGroup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				c := s.ReadCursor()
				for c.HasNext() {
					_, _ = c.Next()
				}
				c.Release()
			}
		}()
	}

	require.NoError(t, g.Wait())
	select {
	case n := <-consumed:
		require.Equal(t, 1000, n)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer never saw sentinel 1000")
	}
	cancel()
	wg.Wait()
}
