package trace

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// Cursor is the trace's ordered k-way merge of the per-batch cursors
// (spec.md §4.F). It presents every batch currently reachable from the
// trace — including the two operands of any in-flight level merge — as
// one sorted (key, value, time, diff) stream, without materializing the
// merge.
type Cursor[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	cursors []*batch.Cursor[K, V, T, R]

	hasKey bool
	curKey K
	hasVal bool
	curVal V
}

func newCursor[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](batches []*batch.Batch[K, V, T, R]) *Cursor[K, V, T, R] {
	cs := make([]*batch.Cursor[K, V, T, R], len(batches))
	for i, b := range batches {
		cs[i] = b.Cursor()
	}
	c := &Cursor[K, V, T, R]{cursors: cs}
	c.settle()
	return c
}

// settle recomputes the minimal key across every source cursor still
// positioned on one, then the minimal value among those sitting exactly
// on that key.
func (c *Cursor[K, V, T, R]) settle() {
	c.hasKey = false
	for _, cur := range c.cursors {
		if !cur.KeyValid() {
			continue
		}
		k := cur.Key()
		if !c.hasKey || k.Compare(c.curKey) < 0 {
			c.curKey, c.hasKey = k, true
		}
	}
	c.refreshVal()
}

func (c *Cursor[K, V, T, R]) refreshVal() {
	c.hasVal = false
	if !c.hasKey {
		return
	}
	for _, cur := range c.cursors {
		if !c.atCurKey(cur) || !cur.ValValid() {
			continue
		}
		v := cur.Val()
		if !c.hasVal || v.Compare(c.curVal) < 0 {
			c.curVal, c.hasVal = v, true
		}
	}
}

func (c *Cursor[K, V, T, R]) atCurKey(cur *batch.Cursor[K, V, T, R]) bool {
	return cur.KeyValid() && cur.Key().Compare(c.curKey) == 0
}

func (c *Cursor[K, V, T, R]) atCurKeyAndVal(cur *batch.Cursor[K, V, T, R]) bool {
	return c.atCurKey(cur) && cur.ValValid() && cur.Val().Compare(c.curVal) == 0
}

// KeyValid reports whether the cursor currently addresses a key.
func (c *Cursor[K, V, T, R]) KeyValid() bool { return c.hasKey }

// Key returns the current key. KeyValid() must be true.
func (c *Cursor[K, V, T, R]) Key() K { return c.curKey }

// StepKey advances every source cursor sitting on the current key past
// it, then resettles on the next smallest key across all sources.
func (c *Cursor[K, V, T, R]) StepKey() {
	for _, cur := range c.cursors {
		if c.atCurKey(cur) {
			cur.StepKey()
		}
	}
	c.settle()
}

// RewindKeys rewinds every source cursor to its first key and resettles.
func (c *Cursor[K, V, T, R]) RewindKeys() {
	for _, cur := range c.cursors {
		cur.RewindKeys()
	}
	c.settle()
}

// ValValid reports whether the cursor currently addresses a value
// within the current key.
func (c *Cursor[K, V, T, R]) ValValid() bool { return c.hasVal }

// Val returns the current value. ValValid() must be true.
func (c *Cursor[K, V, T, R]) Val() V { return c.curVal }

// StepVal advances every source cursor sitting on the current
// (key, value) pair past it, then resettles on the next smallest value
// within the current key.
func (c *Cursor[K, V, T, R]) StepVal() {
	for _, cur := range c.cursors {
		if c.atCurKeyAndVal(cur) {
			cur.StepVal()
		}
	}
	c.refreshVal()
}

// RewindVals rewinds every source cursor positioned on the current key
// back to its first value and resettles.
func (c *Cursor[K, V, T, R]) RewindVals() {
	for _, cur := range c.cursors {
		if c.atCurKey(cur) {
			cur.RewindVals()
		}
	}
	c.refreshVal()
}

// FoldTimes calls fn with every (time, diff) pair across every source
// batch at the current (key, value), in source order. Times are not
// merged across sources — a consumer that needs one consolidated
// (time, diff) stream per value should fold through a Batcher, the same
// way trace merges themselves do.
func (c *Cursor[K, V, T, R]) FoldTimes(fn func(t T, diff R)) {
	for _, cur := range c.cursors {
		if c.atCurKeyAndVal(cur) {
			cur.FoldTimes(fn)
		}
	}
}

// FoldTimesThrough is FoldTimes restricted to times <= upper.
func (c *Cursor[K, V, T, R]) FoldTimesThrough(upper T, fn func(t T, diff R)) {
	for _, cur := range c.cursors {
		if c.atCurKeyAndVal(cur) {
			cur.FoldTimesThrough(upper, fn)
		}
	}
}
