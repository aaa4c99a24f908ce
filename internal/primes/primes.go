// Package primes holds the ascending bucket-size sequence hashmap.Map grows
// through: each step is a prime roughly double the last, so
// growth roughly doubles capacity while keeping chain lengths spread across
// a prime modulus.
package primes

// Sizes is the fixed growth sequence. Growth past the last entry is a
// no-op: subsequent inserts still succeed, they just push the load factor
// higher.
var Sizes = []int{
	11, 23, 47, 101, 199, 401, 797, 1601, 3203, 6397,
	12799, 25601, 51199, 102397, 204803, 409597, 819187,
	1638431, 3276799, 6553621, 13107197, 26214401,
}

// NextSize returns the smallest entry in Sizes that is >= hint, or the
// largest entry if hint exceeds every size. hint <= 0 yields the smallest
// size.
func NextSize(hint int) int {
	for _, size := range Sizes {
		if size >= hint {
			return size
		}
	}
	return Sizes[len(Sizes)-1]
}

// GrowthSize returns the next entry in Sizes strictly greater than current,
// or current unchanged if current is already at or past the last entry
// (the documented no-op-past-maximum behaviour).
func GrowthSize(current int) int {
	for _, size := range Sizes {
		if size > current {
			return size
		}
	}
	return current
}

// IsMaxSize reports whether current is already the largest size in Sizes,
// i.e. further growth would be a no-op.
func IsMaxSize(current int) bool {
	return current >= Sizes[len(Sizes)-1]
}
