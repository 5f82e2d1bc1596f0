package batch

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/column"
	"github.com/dreamware/flowcore/internal/layers/ordered"
)

// Cursor is the batch reader's two-level-plus-leaf navigation (spec.md
// §4.E "Cursor"): key_valid/key/step_key/seek_key/last_key/rewind_keys
// at the outer level, val_valid/val/step_val/seek_val/seek_val_with/
// rewind_vals one level in, and fold_times/fold_times_through/weight at
// the leaf. A Cursor borrows its batch and must not outlive it.
type Cursor[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	b     *Batch[K, V, T, R]
	outer *ordered.Cursor[K, *inner[V, T, R]]
	in    *ordered.Cursor[V, *leaf[T, R]]
	lf    *column.Cursor[T, R]
}

func newCursor[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]](b *Batch[K, V, T, R], lo, hi int) *Cursor[K, V, T, R] {
	c := &Cursor[K, V, T, R]{b: b, outer: b.layer.CursorFrom(lo, hi)}
	c.refreshVal()
	return c
}

// refreshVal rebuilds the inner (value-level) cursor for whatever outer
// key the cursor currently sits on, then refreshes the leaf cursor too.
func (c *Cursor[K, V, T, R]) refreshVal() {
	if !c.outer.KeyValid() {
		c.in = nil
		c.lf = nil
		return
	}
	lo, hi := c.outer.ValueBounds()
	c.in = c.b.layer.Vals().CursorFrom(lo, hi)
	c.refreshLeaf()
}

// refreshLeaf rebuilds the leaf (time, diff) cursor for whatever value
// the inner cursor currently sits on.
func (c *Cursor[K, V, T, R]) refreshLeaf() {
	if c.in == nil || !c.in.KeyValid() {
		c.lf = nil
		return
	}
	lo, hi := c.in.ValueBounds()
	c.lf = c.in.ValueLayer().CursorFrom(lo, hi)
}

// KeyValid reports whether the cursor currently addresses a key.
func (c *Cursor[K, V, T, R]) KeyValid() bool { return c.outer.KeyValid() }

// Key returns the current key. KeyValid() must be true.
func (c *Cursor[K, V, T, R]) Key() K { return c.outer.Key() }

// StepKey advances to the next key and repositions the value level onto
// its first value.
func (c *Cursor[K, V, T, R]) StepKey() {
	c.outer.StepKey()
	c.refreshVal()
}

// SeekKey advances to the first key >= target.
func (c *Cursor[K, V, T, R]) SeekKey(target K) {
	c.outer.SeekKey(target)
	c.refreshVal()
}

// RewindKeys resets the cursor to its first key.
func (c *Cursor[K, V, T, R]) RewindKeys() {
	c.outer.RewindKeys()
	c.refreshVal()
}

// LastKey returns the cursor's bound's last key, if any.
func (c *Cursor[K, V, T, R]) LastKey() (K, bool) { return c.outer.LastKey() }

// ValValid reports whether the cursor currently addresses a value within
// the current key.
func (c *Cursor[K, V, T, R]) ValValid() bool { return c.in != nil && c.in.KeyValid() }

// Val returns the current value. ValValid() must be true.
func (c *Cursor[K, V, T, R]) Val() V { return c.in.Key() }

// StepVal advances to the next value within the current key.
func (c *Cursor[K, V, T, R]) StepVal() {
	c.in.StepKey()
	c.refreshLeaf()
}

// SeekVal advances to the first value >= target within the current key.
func (c *Cursor[K, V, T, R]) SeekVal(target V) {
	c.in.SeekKey(target)
	c.refreshLeaf()
}

// SeekValWith advances past values for which pred returns false, landing
// on the first value (if any) for which it returns true — a linear scan
// rather than a binary seek, for predicates that aren't expressed as
// "compare to a target value" (spec.md §4.E "seek_val_with").
func (c *Cursor[K, V, T, R]) SeekValWith(pred func(V) bool) {
	for c.ValValid() && !pred(c.Val()) {
		c.StepVal()
	}
}

// RewindVals resets the cursor to the current key's first value.
func (c *Cursor[K, V, T, R]) RewindVals() {
	if c.outer.KeyValid() {
		lo, hi := c.outer.ValueBounds()
		c.in = c.b.layer.Vals().CursorFrom(lo, hi)
		c.refreshLeaf()
	}
}

// FoldTimes calls fn with every (time, diff) pair in the current value's
// leaf run, in time order.
func (c *Cursor[K, V, T, R]) FoldTimes(fn func(t T, diff R)) {
	if c.lf == nil {
		return
	}
	for lf := c.leafAt(); lf.Valid(); lf.Step() {
		fn(lf.Key(), lf.Weight())
	}
}

// FoldTimesThrough calls fn with every (time, diff) pair in the current
// value's leaf run whose time is <= upper.
func (c *Cursor[K, V, T, R]) FoldTimesThrough(upper T, fn func(t T, diff R)) {
	if c.lf == nil {
		return
	}
	for lf := c.leafAt(); lf.Valid(); lf.Step() {
		t := lf.Key()
		if !t.LessEqual(upper) {
			continue
		}
		fn(t, lf.Weight())
	}
}

// leafAt returns a fresh cursor over the current value's leaf range,
// independent of c.lf so repeated folds don't consume shared state.
func (c *Cursor[K, V, T, R]) leafAt() *column.Cursor[T, R] {
	lo, hi := c.in.ValueBounds()
	return c.in.ValueLayer().CursorFrom(lo, hi)
}

// Weight returns the sole diff for the current value, meaningful only
// when T is the degenerate Unit time (spec.md §4.E: "weight() only when
// T ≡ ()") — an untimed batch's leaf column holds exactly one tuple per
// value.
func (c *Cursor[K, V, T, R]) Weight() R {
	return c.leafAt().Weight()
}

// nextLeaf is Consumer's one-shot draining step through the current
// value's leaf run.
func (c *Cursor[K, V, T, R]) nextLeaf() (T, R, bool) {
	if c.lf == nil || !c.lf.Valid() {
		var zeroT T
		var zeroR R
		return zeroT, zeroR, false
	}
	t, d := c.lf.Key(), c.lf.Weight()
	c.lf.Step()
	return t, d, true
}
