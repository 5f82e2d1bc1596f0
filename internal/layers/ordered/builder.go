package ordered

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/errz"
)

// ChildBuilder is what a child layer's own builder must expose so the
// Ordered layer can drive it without knowing its concrete shape: append a
// contiguous already-sorted range verbatim (copy_range), merge-sort two
// ranges from existing child instances together (push_merge, spec.md
// §4.C), report progress, and finish. column.Builder implements this for
// the leaf case; Builder (this type) implements it too, which is what
// lets an Ord nest inside another Ord.
type ChildBuilder[C any] interface {
	CopyRange(src C, lo, hi int)
	PushMerge(a C, aLo, aHi int, b C, bLo, bHi int) int
	Len() int
	Done() C
}

// orderResettable is implemented by Builder itself (not by
// column.Builder, which has no further nesting). When a Builder's child
// builder also happens to be a Builder — the indexed-batch shape
// Ord<K, Ord<V, Col<T, R>>> — each new outer key starts the child's
// value run fresh rather than requiring it to continue increasing past
// the previous key's last value: the flat vals child is a concatenation
// of every outer key's own independently-sorted run, and "v1" recurring
// under a later key after a larger value under an earlier one is
// expected, not a broken invariant.
type orderResettable interface{ ResetOrder() }

// Builder accumulates one Ord level on top of a caller-supplied child
// builder (spec.md §4.C "OrderedBuilder"). Keys must be pushed in
// strictly increasing order; WithKey discards a key whose closure pushed
// nothing into the child builder, since an empty value range may never
// be persisted (spec.md §3 invariant).
type Builder[K algebra.Key[K], C Child[C], CB ChildBuilder[C]] struct {
	keys []K
	offs []int
	cb   CB

	keyOpen    bool
	openKey    K
	openAt     int
	orderReset bool
}

// NewBuilder wraps an already-constructed child builder. Callers
// typically build cb fresh (e.g. column.WithCapacity) and hand it here.
func NewBuilder[K algebra.Key[K], C Child[C], CB ChildBuilder[C]](cb CB) *Builder[K, C, CB] {
	return &Builder[K, C, CB]{offs: []int{0}, cb: cb}
}

// Len reports how many keys have been pushed so far.
func (b *Builder[K, C, CB]) Len() int { return len(b.keys) }

// OpenKey begins a value range for k against the shared child builder.
// A key already open must be closed first via CloseKey. Streaming
// callers (batch.Builder) use OpenKey/CloseKey directly instead of
// WithKey's closure when values for one key arrive one at a time rather
// than all at once.
func (b *Builder[K, C, CB]) OpenKey(k K) {
	if b.keyOpen {
		panic(errz.Precondition("ordered builder: OpenKey called while a key is already open"))
	}
	if n := len(b.keys); n > 0 && !b.orderReset && b.keys[n-1].Compare(k) >= 0 {
		panic(errz.Precondition("ordered builder: key went backward or repeated"))
	}
	b.orderReset = false
	b.keyOpen = true
	b.openKey = k
	b.openAt = b.cb.Len()
	if resettable, ok := any(b.cb).(orderResettable); ok {
		resettable.ResetOrder()
	}
}

// ResetOrder tells the next OpenKey call to accept any key regardless of
// what was pushed before, instead of requiring it to be strictly greater
// than the last one recorded. OpenKey calls this automatically on its
// child builder when that child is itself a Builder (see
// orderResettable); callers never need to invoke it directly.
func (b *Builder[K, C, CB]) ResetOrder() { b.orderReset = true }

// CloseKey finishes the range opened by OpenKey. If nothing was pushed
// into the child builder in between, the key is silently dropped (spec.md
// §3: empty value ranges are never persisted).
func (b *Builder[K, C, CB]) CloseKey() {
	if !b.keyOpen {
		panic(errz.Precondition("ordered builder: CloseKey called with no key open"))
	}
	b.keyOpen = false
	after := b.cb.Len()
	if after == b.openAt {
		return
	}
	b.keys = append(b.keys, b.openKey)
	b.offs = append(b.offs, after)
}

// ChildBuilderRef exposes the shared child builder for a streaming caller
// to push leaf data into while a key is open via OpenKey.
func (b *Builder[K, C, CB]) ChildBuilderRef() CB { return b.cb }

// WithKey runs fill against the shared child builder, then records k
// with the child-builder length delta fill produced as its value range.
// If fill pushed nothing, k is silently dropped.
func (b *Builder[K, C, CB]) WithKey(k K, fill func(cb CB)) {
	b.OpenKey(k)
	fill(b.cb)
	b.CloseKey()
}

// CopyRange appends the key range [lo, hi) of src, rebasing each key's
// value range onto this builder's own child builder. Satisfies
// ChildBuilder[*Ord[K, C]] so a Builder can itself serve as the child
// builder one level further up a nested Ord.
func (b *Builder[K, C, CB]) CopyRange(src *Ord[K, C], lo, hi int) {
	for i := lo; i < hi; i++ {
		cLo, cHi := src.Bounds(i)
		b.cb.CopyRange(src.vals, cLo, cHi)
		b.keys = append(b.keys, src.keys[i])
		b.offs = append(b.offs, b.cb.Len())
	}
}

// PushMerge runs the Ordered-layer merge algorithm (merge.go) over
// a[aLo:aHi] and b[bLo:bHi], appending the result into this builder, and
// returns how many keys were produced. Satisfies ChildBuilder[*Ord[K,
// C]] for the same nesting reason as CopyRange.
func (b *Builder[K, C, CB]) PushMerge(a *Ord[K, C], aLo, aHi int, bOrd *Ord[K, C], bLo, bHi int) int {
	before := len(b.keys)
	mergeInto(b, a, aLo, aHi, bOrd, bLo, bHi)
	return len(b.keys) - before
}

// Done finalizes the layer. The builder must not be reused afterward.
func (b *Builder[K, C, CB]) Done() *Ord[K, C] {
	return &Ord[K, C]{keys: b.keys, offs: b.offs, vals: b.cb.Done()}
}
