package ordered

import "github.com/dreamware/flowcore/internal/algebra"

// Cursor walks a bounded key sub-range of an Ord. It only navigates the
// key level — a caller that needs to descend into the child layer reads
// ValueBounds() at the current key and builds a cursor over the
// concrete child type itself (e.g. column.Col.CursorFrom), since the
// child's cursor shape isn't expressible generically here.
type Cursor[K algebra.Key[K], C Child[C]] struct {
	ord *Ord[K, C]
	lo  int
	hi  int
	pos int
}

// KeyValid reports whether the cursor currently addresses a key.
func (c *Cursor[K, C]) KeyValid() bool { return c.pos < c.hi }

// Key returns the key at the cursor's current position. KeyValid() must
// be true.
func (c *Cursor[K, C]) Key() K { return c.ord.keys[c.pos] }

// ValueBounds returns the [lo, hi) child-layer range for the current
// key.
func (c *Cursor[K, C]) ValueBounds() (int, int) { return c.ord.Bounds(c.pos) }

// ValueLayer returns the shared child layer ValueBounds indexes into, so
// a caller can build a cursor over the concrete child type itself.
func (c *Cursor[K, C]) ValueLayer() C { return c.ord.Vals() }

// StepKey advances to the next key.
func (c *Cursor[K, C]) StepKey() { c.pos++ }

// RewindKeys resets the cursor to the start of its bound.
func (c *Cursor[K, C]) RewindKeys() { c.pos = c.lo }

// SeekKey advances to the first key >= target using the same bounded
// exponential-search discipline as the merge algorithm (merge.go).
func (c *Cursor[K, C]) SeekKey(target K) {
	if !c.KeyValid() || c.ord.keys[c.pos].Compare(target) >= 0 {
		return
	}
	end := expSearchBefore(c.ord.keys, c.pos, c.hi, target)
	c.pos = end
}

// LastKey returns the last key in the cursor's bound, or false if empty.
func (c *Cursor[K, C]) LastKey() (K, bool) {
	if c.hi <= c.lo {
		var zero K
		return zero, false
	}
	return c.ord.keys[c.hi-1], true
}
