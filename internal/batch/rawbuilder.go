package batch

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/column"
	"github.com/dreamware/flowcore/internal/layers/ordered"
)

// RawBuilder accumulates (key, val, time, diff) tuples that arrive
// already in strictly increasing (key, val) lexicographic order but,
// unlike Builder, may carry any timestamp rather than one fixed time
// stamped onto every push. The shard exchange operator (spec.md §4.J)
// is the motivating caller: walking a source batch's cursor in key
// order and re-pushing each key's run into its destination shard's
// builder produces a strictly increasing subsequence per destination,
// so re-sorting (what Batcher does for arbitrary unordered input) would
// be wasted work.
type RawBuilder[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	leafB  *leafBuilder[T, R]
	innerB *innerBuilder[V, T, R]
	ob     *outerBuilder[K, V, T, R]

	hasKey bool
	curKey K
	hasVal bool
	curVal V
}

// NewRawBuilder returns an empty RawBuilder.
func NewRawBuilder[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]]() *RawBuilder[K, V, T, R] {
	leafB := column.WithCapacity[T, R](0)
	innerB := ordered.NewBuilder[V, *leaf[T, R], *leafBuilder[T, R]](leafB)
	ob := ordered.NewBuilder[K, *inner[V, T, R], *innerBuilder[V, T, R]](innerB)
	return &RawBuilder[K, V, T, R]{leafB: leafB, innerB: innerB, ob: ob}
}

// Push appends (key, val, time, diff). key must be greater than every
// previously pushed key, except for repeats of the currently open key;
// within a key, val is subject to the same rule. Any number of times may
// be pushed under one (key, val) pair, in non-decreasing order under T's
// Compare: equal adjacent times are summed, and a time that sorts before
// the previous one panics in the leaf column builder.
func (b *RawBuilder[K, V, T, R]) Push(key K, val V, time T, diff R) {
	if !b.hasKey || b.curKey.Compare(key) != 0 {
		if b.hasVal {
			b.innerB.CloseKey()
			b.hasVal = false
		}
		if b.hasKey {
			b.ob.CloseKey()
		}
		b.ob.OpenKey(key)
		b.curKey, b.hasKey = key, true
	}
	if !b.hasVal || b.curVal.Compare(val) != 0 {
		if b.hasVal {
			b.innerB.CloseKey()
		}
		b.innerB.OpenKey(val)
		b.curVal, b.hasVal = val, true
	}
	b.leafB.PushTuple(time, diff)
}

// Done finalizes the batch with caller-supplied bounds — unlike
// Builder.Done, which derives {time} / {time.Advance(0)} from its single
// fixed time, a RawBuilder's tuples may span whatever bounds the caller
// already knows apply (e.g. a shard's source batch's own Lower/Upper,
// since partitioning never changes which times are present). The
// builder must not be reused afterward.
func (b *RawBuilder[K, V, T, R]) Done(lower, upper algebra.Antichain[T]) *Batch[K, V, T, R] {
	if b.hasVal {
		b.innerB.CloseKey()
	}
	if b.hasKey {
		b.ob.CloseKey()
	}
	layer := b.ob.Done()
	return &Batch[K, V, T, R]{layer: layer, lower: lower, upper: upper}
}
