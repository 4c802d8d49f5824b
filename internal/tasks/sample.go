package tasks

import "math/rand/v2"

// Sample returns min(n, len(items)) items drawn uniformly without replacement.
//
// It shuffles a copy of items with Fisher–Yates and truncates; items is not modified.
// A nil rng uses a randomly seeded PCG source.
func Sample[T any](items []T, n int, rng *rand.Rand) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	shuffled := append([]T(nil), items...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
