// Package ordered implements the trie level of every batch: sorted keys
// plus an offset array indexing into a child layer, recursively (spec.md
// §3 "Ordered layer", §4.C). A child can be the column leaf
// (column.Col[V, R]) for a key-only batch, or another Ord for an indexed
// batch's inner value dimension — the type parameter C carries whichever
// shape the caller instantiates, and the merge algorithm in merge.go
// recurses into it generically rather than special-casing a fixed depth.
package ordered

import "github.com/dreamware/flowcore/internal/algebra"

// Child is the contract an Ordered layer's child must satisfy: report
// how many leaf tuples fall within it. Both column.Col and Ord itself
// implement this, which is what lets Ord<K, Ord<V, Col<T, R>>> compose
// without flowcore needing a separate hand-written type for the indexed
// shape.
type Child[C any] interface {
	Tuples() int
}

// Ord is the ordered layer: keys strictly increasing, offs one longer
// than keys with offs[0] == 0 and each offs[i] <= offs[i+1] <=
// vals.Tuples(), and vals.cursor_from(offs[i], offs[i+1]) non-empty for
// every i (spec.md §3 invariants — empty ranges are never persisted in a
// finished layer, see Builder.WithKey).
type Ord[K algebra.Key[K], C Child[C]] struct {
	keys []K
	offs []int
	vals C
}

// Len returns the number of keys at this level.
func (o *Ord[K, C]) Len() int { return len(o.keys) }

// Tuples reports the total number of leaf tuples reachable through this
// layer — the Child contract every Ord itself also satisfies.
func (o *Ord[K, C]) Tuples() int {
	if len(o.offs) == 0 {
		return 0
	}
	return o.offs[len(o.offs)-1]
}

// KeyAt returns the key at index i.
func (o *Ord[K, C]) KeyAt(i int) K { return o.keys[i] }

// Bounds returns the child-layer [lo, hi) range addressed by key index i.
func (o *Ord[K, C]) Bounds(i int) (int, int) { return o.offs[i], o.offs[i+1] }

// Vals returns the shared child layer every key's bounds index into.
func (o *Ord[K, C]) Vals() C { return o.vals }

// CursorFrom returns a cursor bounded to the key sub-range [lo, hi).
func (o *Ord[K, C]) CursorFrom(lo, hi int) *Cursor[K, C] {
	return &Cursor[K, C]{ord: o, lo: lo, hi: hi, pos: lo}
}
