package column

import (
	"github.com/dreamware/flowcore/internal/errz"
	"github.com/dreamware/flowcore/internal/layers/vtable"
)

// ErasedCol is Col's v-table-dispatched counterpart: the same leaf
// layer, but instantiated against vtable.Erased/vtable.ErasedDiff
// instead of a monomorphic key/weight pair (spec.md §4.A: "The column
// layer may be instantiated either monomorphically or against this
// v-table to keep code size bounded in query-plan-generated circuits").
// Every Col invariant still holds — weakly sorted keys, consolidated
// equal runs, no zero diff — only the dispatch mechanism differs.
type ErasedCol struct {
	keys  []vtable.Erased
	diffs []vtable.ErasedDiff
}

// Len returns the number of (key, diff) tuples.
func (c *ErasedCol) Len() int { return len(c.keys) }

// Tuples satisfies ordered.Child, same as Col.Tuples.
func (c *ErasedCol) Tuples() int { return len(c.keys) }

// Keys exposes the key vector. Callers must not grow or shrink it.
func (c *ErasedCol) Keys() []vtable.Erased { return c.keys }

// Diffs exposes the diff vector, parallel to Keys.
func (c *ErasedCol) Diffs() []vtable.ErasedDiff { return c.diffs }

// ErasedBuilder is Builder's v-table counterpart: the same
// push-sorted-sum-consolidate contract, but every ordering and sum goes
// through a v-table (vtable.Compare, ErasedDiff.AddByRef, IsZero)
// instead of a generic constraint.
type ErasedBuilder struct {
	keys  []vtable.Erased
	diffs []vtable.ErasedDiff
	has   bool
}

// NewErasedBuilder returns an empty v-table-dispatched builder.
func NewErasedBuilder() *ErasedBuilder {
	return &ErasedBuilder{}
}

// PushTuple appends (key, diff). key must compare >= the last pushed
// key under vtable.Compare; a strictly smaller key is a precondition
// violation, mirroring Builder.PushTuple.
func (b *ErasedBuilder) PushTuple(key vtable.Erased, diff vtable.ErasedDiff) {
	if b.has {
		last := b.keys[len(b.keys)-1]
		switch c := vtable.Compare(last, key); {
		case c > 0:
			panic(errz.Precondition("erased column builder: key went backward"))
		case c == 0:
			sum := b.diffs[len(b.diffs)-1].AddByRef(diff)
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

// Len reports how many tuples have been pushed so far (post-consolidation).
func (b *ErasedBuilder) Len() int { return len(b.keys) }

// Done finalizes the column. The builder must not be reused afterward.
func (b *ErasedBuilder) Done() *ErasedCol {
	return &ErasedCol{keys: b.keys, diffs: b.diffs}
}
