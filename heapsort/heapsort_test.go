package heapsort_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"libslack/heapsort"
)

func strcmp(a, b string) int { return strings.Compare(a, b) }

func TestSortStrings(t *testing.T) {
	cases := [][]string{
		{"abc", "def", "ghi", "jkl"},
		{"jkl", "ghi", "def", "abc"},
		{"def", "abc", "jkl", "ghi"},
	}
	for _, c := range cases {
		got := append([]string(nil), c...)
		heapsort.Sort(got, strcmp)
		require.Equal(t, []string{"abc", "def", "ghi", "jkl"}, got)
	}
}

func TestSortWithClosure(t *testing.T) {
	data := "arbitrary"
	cmp := func(a, b string, d string) int {
		require.Equal(t, "arbitrary", d)
		return strings.Compare(a, b)
	}
	got := []string{"jkl", "ghi", "def", "abc"}
	heapsort.SortWith(got, data, cmp)
	require.Equal(t, []string{"abc", "def", "ghi", "jkl"}, got)
}

func TestSortNoOpBelowTwo(t *testing.T) {
	var empty []int
	heapsort.Sort(empty, func(a, b int) int { return a - b })
	require.Empty(t, empty)

	one := []int{42}
	heapsort.Sort(one, func(a, b int) int { return a - b })
	require.Equal(t, []int{42}, one)
}

func TestSortIsPermutationAndOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(200)
		items := make([]int, n)
		for i := range items {
			items[i] = rng.Intn(1000)
		}
		want := append([]int(nil), items...)
		sort.Ints(want)

		got := append([]int(nil), items...)
		heapsort.Sort(got, func(a, b int) int { return a - b })

		require.Equal(t, want, got)
	}
}

func TestSortEvenAndOddLengths(t *testing.T) {
	for n := 0; n < 12; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = n - i
		}
		heapsort.Sort(items, func(a, b int) int { return a - b })
		for i := 1; i < len(items); i++ {
			require.LessOrEqual(t, items[i-1], items[i])
		}
	}
}
