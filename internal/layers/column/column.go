// Package column implements the leaf layer of every trie the storage
// engine builds: two parallel vectors (keys, diffs) with element-wise
// sorted-run semantics (spec.md §3 "Column layer", §4.B). It is the
// Col<V, R> type every Ordered layer (module C) eventually bottoms out
// in, whether V is a value type (indexed batches) or a time type
// (key-only batches, where Col<T, R> holds a key's sorted run of
// (time, diff) pairs).
package column

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/consolidate"
)

// Col is the column layer: two equal-length slices, keys weakly sorted
// with equal runs already consolidated and no zero diff present
// (spec.md §3 invariant).
type Col[V algebra.Key[V], R algebra.Weight[R]] struct {
	keys  []V
	diffs []R
}

// Len returns the number of (key, diff) tuples.
func (c *Col[V, R]) Len() int { return len(c.keys) }

// Tuples satisfies ordered.Child: a Col is always the innermost leaf, so
// its tuple count is simply its length.
func (c *Col[V, R]) Tuples() int { return len(c.keys) }

// Keys exposes the key vector. Callers must not grow or shrink it —
// ColumnsMut is the supported way to mutate both vectors together.
func (c *Col[V, R]) Keys() []V { return c.keys }

// Diffs exposes the diff vector, parallel to Keys.
func (c *Col[V, R]) Diffs() []R { return c.diffs }

// ColumnsMut returns both backing slices for in-place mutation (spec.md
// §4.B). Batch.RecedeTo does not use it; it rebuilds its layer through a
// Batcher.
func (c *Col[V, R]) ColumnsMut() ([]V, []R) { return c.keys, c.diffs }

// Truncate drops every tuple from index n onward.
func (c *Col[V, R]) Truncate(n int) {
	c.keys = c.keys[:n]
	c.diffs = c.diffs[:n]
}

// CursorFrom returns a cursor over the [lo, hi) sub-range of this column
// — the view an Ordered layer's offset array addresses into its child.
func (c *Col[V, R]) CursorFrom(lo, hi int) *Cursor[V, R] {
	return &Cursor[V, R]{col: c, lo: lo, hi: hi, pos: lo}
}

// Neg consumes this column and returns one with every diff negated,
// reusing the same backing arrays (the spec's "ownership" negation: the
// receiver must not be used afterward).
func Neg[V algebra.Key[V], R algebra.SignedWeight[R]](c *Col[V, R]) *Col[V, R] {
	for i, d := range c.diffs {
		c.diffs[i] = d.Neg()
	}
	return c
}

// NegByRef returns a new column with every diff negated, leaving c
// untouched.
func NegByRef[V algebra.Key[V], R algebra.SignedWeight[R]](c *Col[V, R]) *Col[V, R] {
	keys := make([]V, len(c.keys))
	diffs := make([]R, len(c.diffs))
	copy(keys, c.keys)
	for i, d := range c.diffs {
		diffs[i] = d.Neg()
	}
	return &Col[V, R]{keys: keys, diffs: diffs}
}

// ConsolidateRange re-sorts and sums keys[lo:hi]/diffs[lo:hi] in place
// (sharing scratch across calls), returning the new end offset of that
// range. Batch.RecedeTo does not use it; it re-consolidates through a
// Batcher.
func ConsolidateRange[V algebra.Key[V], R algebra.Weight[R]](keys []V, diffs []R, lo, hi int, scratch *[]int) int {
	n := consolidate.ConsolidatePairedSlices(keys[lo:hi], diffs[lo:hi], scratch)
	return lo + n
}
