package exercise

import "math/rand"

// shuffledIndices returns 0..n-1 in uniform random order (Fisher–Yates).
// The random source is explicit so tests can inject a deterministic one.
func shuffledIndices(r *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}
