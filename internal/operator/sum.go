package operator

import (
	"sort"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// Summer computes the n-ary Z-set sum (spec.md §4.I): the union of its
// inputs' tuples with diffs added, equal (key, value, time) duplicates
// consolidated. Rust's add_assign_by_ref/add_by_ref split — accumulate
// into a borrowed accumulator versus start fresh from one that can't be
// stolen — carries no information in Go, where every input is copied by
// value through the same Batcher.Absorb path regardless of role; see
// internal/algebra/weight.go for the same collapse at the diff-type
// level. What Summer does keep faithfully is the stated traversal
// order (inputs visited largest-first by shallow entry count) and the
// scratch-slice reuse ("the input vector is recycled across ticks,
// capacity retained").
type Summer[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	scratch []*batch.Batch[K, V, T, R]
}

// NewSummer returns a Summer with no preallocated scratch capacity.
func NewSummer[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]]() *Summer[K, V, T, R] {
	return &Summer[K, V, T, R]{}
}

// Sum drains every input into one Batcher, largest (by KeyCount) first, and
// seals the result with the given bounds.
func (s *Summer[K, V, T, R]) Sum(lower, upper algebra.Antichain[T], inputs ...*batch.Batch[K, V, T, R]) *batch.Batch[K, V, T, R] {
	s.scratch = append(s.scratch[:0], inputs...)
	sort.Slice(s.scratch, func(i, j int) bool {
		return s.scratch[i].KeyCount() > s.scratch[j].KeyCount()
	})

	out := batch.NewBatcher[K, V, T, R](lower)
	for _, b := range s.scratch {
		out.Absorb(b)
	}
	return out.Seal(upper)
}
