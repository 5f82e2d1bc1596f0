// Package batch implements the immutable layered-trie batch (spec.md
// §3 "Batch B<K, V, T, R>", §4.E). The spec mandates two concrete
// shapes, a key-only batch (Ord<K, Col<T, R>>) and an indexed batch
// (Ord<K, Ord<V, Col<T, R>>>). flowcore represents both with a single
// generic Batch[K, V, T, R] always built on the indexed shape: a
// key-only batch is simply Batch[K, algebra.Unit, T, R], where the
// collapsed V level holds exactly one entry per key spanning that key's
// whole time range. This is the same degenerate-type move the spec
// itself uses for untimed batches (T = Unit); applying it to the value
// dimension too means one Builder/Batcher/Cursor/recede_to
// implementation serves both shapes instead of two parallel ones.
package batch

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/column"
	"github.com/dreamware/flowcore/internal/layers/ordered"
)

// TimeKey is the constraint a batch's time parameter must satisfy: the
// partial order every operator reasons about (algebra.Time) plus a
// total order (algebra.Key) the storage layers use to sort and
// binary-search timestamps physically. The two orders needn't agree
// beyond LessEqual(a,b) implying not Compare(a,b) > 0 — Compare exists
// purely so Col<T, R> has something to sort by.
type TimeKey[T any] interface {
	algebra.Time[T]
	algebra.Key[T]
}

type leaf[T TimeKey[T], R algebra.Weight[R]] = column.Col[T, R]
type leafBuilder[T TimeKey[T], R algebra.Weight[R]] = column.Builder[T, R]
type inner[V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] = ordered.Ord[V, *leaf[T, R]]
type innerBuilder[V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] = ordered.Builder[V, *leaf[T, R], *leafBuilder[T, R]]
type outer[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] = ordered.Ord[K, *inner[V, T, R]]
type outerBuilder[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] = ordered.Builder[K, *inner[V, T, R], *innerBuilder[V, T, R]]

// Batch is the immutable layered trie plus the (lower, upper) antichains
// bounding its timestamps (spec.md §3).
type Batch[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	layer *outer[K, V, T, R]
	lower algebra.Antichain[T]
	upper algebra.Antichain[T]
}

// KeyCount returns the number of distinct keys.
func (b *Batch[K, V, T, R]) KeyCount() int { return b.layer.Len() }

// Len returns the total number of (key, value, time, diff) tuples.
func (b *Batch[K, V, T, R]) Len() int { return b.layer.Tuples() }

// IsEmpty reports whether the batch carries no tuples.
func (b *Batch[K, V, T, R]) IsEmpty() bool { return b.Len() == 0 }

// Lower returns the batch's lower antichain.
func (b *Batch[K, V, T, R]) Lower() algebra.Antichain[T] { return b.lower }

// Upper returns the batch's upper antichain.
func (b *Batch[K, V, T, R]) Upper() algebra.Antichain[T] { return b.upper }

// Empty returns a batch with no tuples bounded by the given antichains —
// the "zero" value operators that delay or accumulate batches (Z⁻¹,
// Summer) need as a starting point before anything has arrived.
func Empty[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]](lower, upper algebra.Antichain[T]) *Batch[K, V, T, R] {
	return NewBatcher[K, V, T, R](lower).Seal(upper)
}

// Cursor returns a cursor over the whole batch.
func (b *Batch[K, V, T, R]) Cursor() *Cursor[K, V, T, R] {
	return newCursor(b, 0, b.layer.Len())
}

// Consumer returns an owning, draining view: repeated calls to Next pop
// the next (key, value, time, diff) tuple until the batch is exhausted.
// Unlike Cursor, a Consumer does not support seeking or rewinding — it
// exists for the one-pass "drain everything once" callers (trace
// compaction, append operators) that never need to revisit a tuple.
func (b *Batch[K, V, T, R]) Consumer() *Consumer[K, V, T, R] {
	return &Consumer[K, V, T, R]{cur: b.Cursor()}
}

// Consumer drains a batch's tuples in order exactly once.
type Consumer[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	cur *Cursor[K, V, T, R]
}

// Tuple is one (key, value, time, diff) row.
type Tuple[K any, V any, T any, R any] struct {
	Key  K
	Val  V
	Time T
	Diff R
}

// Next returns the next tuple, or false once the batch is exhausted.
func (c *Consumer[K, V, T, R]) Next() (Tuple[K, V, T, R], bool) {
	for {
		if !c.cur.KeyValid() {
			var zero Tuple[K, V, T, R]
			return zero, false
		}
		if !c.cur.ValValid() {
			c.cur.StepKey()
			continue
		}
		t, d, ok := c.cur.nextLeaf()
		if !ok {
			c.cur.StepVal()
			continue
		}
		tup := Tuple[K, V, T, R]{Key: c.cur.Key(), Val: c.cur.Val(), Time: t, Diff: d}
		return tup, true
	}
}
