// Package alias implements Walker's alias method: O(n) table build,
// O(1) sampling from a discrete distribution with non-negative weights.
package alias

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var ErrNoWeights = errors.New("alias: no usable weights")

// Table is an immutable sampling table. Index i is drawn with probability
// weights[i] / sum(weights).
type Table struct {
	prob  []float64
	alias []int
}

// New builds a table from the given weights. Weights must be finite and
// non-negative, and at least one must be positive.
func New(weights []float32) (*Table, error) {
	n := len(weights)
	if n == 0 {
		return nil, ErrNoWeights
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			return nil, fmt.Errorf("alias: weight %d is %v", i, w)
		}
		total += float64(w)
	}
	if total <= 0 || math.IsInf(total, 0) {
		return nil, ErrNoWeights
	}

	t := &Table{
		prob:  make([]float64, n),
		alias: make([]int, n),
	}

	// Scale weights so the average column height is exactly 1, then pair
	// each under-full column with an over-full one.
	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = float64(w) * float64(n) / total
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		t.prob[s] = scaled[s]
		t.alias[s] = l
		scaled[l] -= 1 - scaled[s]
		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// Whatever remains is full up to floating-point error.
	for _, i := range large {
		t.prob[i] = 1
	}
	for _, i := range small {
		t.prob[i] = 1
	}
	return t, nil
}

// Sample draws one index with probability proportional to its weight.
func (t *Table) Sample(rng *rand.Rand) int {
	i := rng.Intn(len(t.prob))
	if rng.Float64() < t.prob[i] {
		return i
	}
	return t.alias[i]
}

// Len returns the number of weights the table was built from.
func (t *Table) Len() int {
	return len(t.prob)
}
