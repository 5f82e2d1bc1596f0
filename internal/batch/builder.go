package batch

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/column"
	"github.com/dreamware/flowcore/internal/layers/ordered"
)

// Builder constructs a batch from already-ordered input, stamping every
// pushed diff with the builder's fixed time (spec.md §4.E "Builder").
// Push's (key, val) pairs must arrive in strictly increasing
// lexicographic order; out-of-order input panics the same way the
// underlying layer builders do.
type Builder[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	time   T
	leafB  *leafBuilder[T, R]
	innerB *innerBuilder[V, T, R]
	ob     *outerBuilder[K, V, T, R]

	hasKey bool
	curKey K
	hasVal bool
	curVal V
}

// NewBuilder returns a builder for tuples all stamped with time.
func NewBuilder[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]](time T) *Builder[K, V, T, R] {
	return WithCapacity[K, V, T, R](time, 0)
}

// WithCapacity is NewBuilder with a size hint for the leaf column.
func WithCapacity[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]](time T, n int) *Builder[K, V, T, R] {
	leafB := column.WithCapacity[T, R](n)
	innerB := ordered.NewBuilder[V, *leaf[T, R], *leafBuilder[T, R]](leafB)
	ob := ordered.NewBuilder[K, *inner[V, T, R], *innerBuilder[V, T, R]](innerB)
	return &Builder[K, V, T, R]{time: time, leafB: leafB, innerB: innerB, ob: ob}
}

// Push appends (key, val, diff) at the builder's fixed time.
func (b *Builder[K, V, T, R]) Push(key K, val V, diff R) {
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
	b.leafB.PushTuple(b.time, diff)
}

// Done finalizes the batch. lower and upper are set to the tightest
// antichains bounding the single stamped time: {time} and
// {time.Advance(0)}. The builder must not be reused afterward.
func (b *Builder[K, V, T, R]) Done() *Batch[K, V, T, R] {
	if b.hasVal {
		b.innerB.CloseKey()
	}
	if b.hasKey {
		b.ob.CloseKey()
	}
	layer := b.ob.Done()
	return &Batch[K, V, T, R]{
		layer: layer,
		lower: algebra.NewAntichain(b.time),
		upper: algebra.NewAntichain(b.time.Advance(0)),
	}
}
