package column

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/errz"
)

// Builder accepts tuples in non-decreasing key order, summing diffs for
// equal adjacent keys on the fly and eliding zero sums (spec.md §4.B
// "Builder contract"). with_capacity is a hint, not a cap — pushing
// beyond it simply grows the backing slices.
type Builder[V algebra.Key[V], R algebra.Weight[R]] struct {
	keys  []V
	diffs []R
	has   bool
}

// WithCapacity returns a builder whose backing slices are pre-sized for
// n tuples.
func WithCapacity[V algebra.Key[V], R algebra.Weight[R]](n int) *Builder[V, R] {
	return &Builder[V, R]{keys: make([]V, 0, n), diffs: make([]R, 0, n)}
}

// PushTuple appends (key, diff). key must be >= the last pushed key; a
// strictly smaller key is a precondition violation (spec.md §7) since it
// breaks the column's sorted-run invariant and every downstream cursor
// that assumes it.
func (b *Builder[V, R]) PushTuple(key V, diff R) {
	if b.has {
		last := b.keys[len(b.keys)-1]
		switch {
		case last.Compare(key) > 0:
			panic(errz.Precondition("column builder: key went backward"))
		case last.Compare(key) == 0:
			sum := b.diffs[len(b.diffs)-1].Add(diff)
			if sum.IsZero() {
				b.keys = b.keys[:len(b.keys)-1]
				b.diffs = b.diffs[:len(b.diffs)-1]
				b.has = len(b.keys) > 0
			} else {
				b.diffs[len(b.diffs)-1] = sum
			}
			return
		}
	}
	if diff.IsZero() {
		return
	}
	b.keys = append(b.keys, key)
	b.diffs = append(b.diffs, diff)
	b.has = true
}

// Done finalizes the column. The builder must not be reused afterward.
func (b *Builder[V, R]) Done() *Col[V, R] {
	return &Col[V, R]{keys: b.keys, diffs: b.diffs}
}

// Len reports how many tuples have been pushed so far (post-consolidation).
func (b *Builder[V, R]) Len() int { return len(b.keys) }

// CopyRange appends src.keys[lo:hi]/src.diffs[lo:hi] verbatim. The range
// comes from an already-consolidated column and is known by the caller
// (the Ordered layer's merge, spec.md §4.C copy_range) to sort after
// everything already in this builder, so no per-element consolidation
// check is needed.
func (b *Builder[V, R]) CopyRange(src *Col[V, R], lo, hi int) {
	if hi <= lo {
		return
	}
	b.keys = append(b.keys, src.keys[lo:hi]...)
	b.diffs = append(b.diffs, src.diffs[lo:hi]...)
	b.has = len(b.keys) > 0
}

// PushMerge merge-sorts a[aLo:aHi] and b[bLo:bHi] by key, summing equal
// keys and eliding zero sums, through PushTuple so the new run also
// consolidates against whatever this builder already holds at the
// boundary. Returns the number of tuples produced (the Ordered layer
// uses this to decide whether the enclosing key survives compaction).
func (b *Builder[V, R]) PushMerge(a *Col[V, R], aLo, aHi int, bb *Col[V, R], bLo, bHi int) int {
	before := len(b.keys)
	i, j := aLo, bLo
	for i < aHi && j < bHi {
		switch c := a.keys[i].Compare(bb.keys[j]); {
		case c == 0:
			b.PushTuple(a.keys[i], a.diffs[i].Add(bb.diffs[j]))
			i++
			j++
		case c < 0:
			b.PushTuple(a.keys[i], a.diffs[i])
			i++
		default:
			b.PushTuple(bb.keys[j], bb.diffs[j])
			j++
		}
	}
	for ; i < aHi; i++ {
		b.PushTuple(a.keys[i], a.diffs[i])
	}
	for ; j < bHi; j++ {
		b.PushTuple(bb.keys[j], bb.diffs[j])
	}
	return len(b.keys) - before
}
