// Package consolidate implements the sort-and-sum kernels spec.md §4.D
// describes: consolidate, consolidate_from, consolidate_paired_slices,
// and the offset-aware dedup_starting_at / retain_starting_at helpers.
// The column layer (module B) builds ConsolidateRange on
// ConsolidatePairedSlices; the batch's recede_to (module E) uses none of
// them and re-consolidates through a Batcher. None of it owns storage of
// its own.
package consolidate

import (
	"sort"

	"github.com/dreamware/flowcore/internal/algebra"
)

// Pair is a single (key, diff) tuple, the unit consolidate operates over.
type Pair[K algebra.Key[K], R algebra.Weight[R]] struct {
	Key  K
	Diff R
}

// Consolidate sorts v by key, sums adjacent equal keys, drops zero sums,
// and shrinks v to the result — the vector is rewritten in place and
// truncated rather than reallocated. It is idempotent: calling it twice
// in a row is a no-op the second time (spec.md §8 property 1).
func Consolidate[K algebra.Key[K], R algebra.Weight[R]](v *[]Pair[K, R]) {
	n := ConsolidateFrom(*v, 0)
	*v = (*v)[:n]
}

// ConsolidateFrom consolidates only v[start:], leaving v[:start] exactly
// as it was. It returns the new overall length of v (prefix length plus
// the consolidated run's length), but does not itself truncate v — the
// caller decides whether to reslice.
func ConsolidateFrom[K algebra.Key[K], R algebra.Weight[R]](v []Pair[K, R], start int) int {
	tail := v[start:]
	sort.Slice(tail, func(i, j int) bool { return tail[i].Key.Compare(tail[j].Key) < 0 })

	write := 0
	for read := 0; read < len(tail); {
		run := tail[read]
		sum := run.Diff
		j := read + 1
		for j < len(tail) && tail[j].Key.Compare(run.Key) == 0 {
			sum = sum.Add(tail[j].Diff)
			j++
		}
		if !sum.IsZero() {
			tail[write] = Pair[K, R]{Key: run.Key, Diff: sum}
			write++
		}
		read = j
	}
	return start + write
}

// ConsolidatePairedSlices consolidates a pair of parallel (keys, diffs)
// slices in place, used by recede_to after the per-key time column has
// had its timestamps collapsed and re-sorting by time may now produce
// colliding keys. scratch is a caller-owned permutation buffer reused
// across calls to avoid an allocation per recede_to invocation; its
// contents on entry are ignored and it is resized as needed.
//
// The sort is stable (built from a stable index permutation, not an
// in-place unstable sort on the keys themselves) so that diffs are
// permuted consistently with their keys: keys and diffs are independent
// slices, so only an index-based permutation keeps them in lock-step.
func ConsolidatePairedSlices[K algebra.Key[K], R algebra.Weight[R]](keys []K, diffs []R, scratch *[]int) int {
	FillIndices(len(keys), scratch)
	idx := *scratch
	sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]].Compare(keys[idx[j]]) < 0 })

	sortedKeys := make([]K, len(keys))
	sortedDiffs := make([]R, len(diffs))
	for i, p := range idx {
		sortedKeys[i] = keys[p]
		sortedDiffs[i] = diffs[p]
	}

	write := 0
	for read := 0; read < len(sortedKeys); {
		k := sortedKeys[read]
		sum := sortedDiffs[read]
		j := read + 1
		for j < len(sortedKeys) && sortedKeys[j].Compare(k) == 0 {
			sum = sum.Add(sortedDiffs[j])
			j++
		}
		if !sum.IsZero() {
			keys[write] = k
			diffs[write] = sum
			write++
		}
		read = j
	}
	return write
}

// FillIndices sets *out to the identity permutation [0, n), reusing the
// backing array when it already has enough capacity.
func FillIndices(n int, out *[]int) {
	if cap(*out) < n {
		*out = make([]int, n)
	} else {
		*out = (*out)[:n]
	}
	for i := range *out {
		(*out)[i] = i
	}
}

// DedupStartingAt removes adjacent duplicates from v[start:] according to
// eq, leaving v[:start] untouched, and returns the new total length.
func DedupStartingAt[T any](v []T, start int, eq func(a, b T) bool) int {
	if start >= len(v) {
		return len(v)
	}
	write := start + 1
	for read := start + 1; read < len(v); read++ {
		if !eq(v[write-1], v[read]) {
			if write != read {
				v[write] = v[read]
			}
			write++
		}
	}
	return write
}

// RetainStartingAt keeps only the elements of v[start:] for which pred
// holds, leaving v[:start] untouched, and returns the new total length.
func RetainStartingAt[T any](v []T, start int, pred func(v T) bool) int {
	write := start
	for read := start; read < len(v); read++ {
		if pred(v[read]) {
			v[write] = v[read]
			write++
		}
	}
	return write
}
