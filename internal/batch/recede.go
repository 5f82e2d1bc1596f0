package batch

import "github.com/dreamware/flowcore/internal/algebra"

// RecedeTo destructively rewrites every timestamp in the batch to
// time.Meet(frontier), re-consolidates, and drops any value range or key
// that collapses to empty (spec.md §4.E "recede_to"). lower and upper
// are left untouched: the batch's extent still lies within its original
// interval after meeting every timestamp with the frontier.
//
// The specification's own recede_to dedups the offset array in place
// with a plain adjacent-dedup after removing collapsed keys, which is
// only correct when the removed keys are contiguous in offset space —
// an open question the spec resolves by rebuilding the offset array
// unconditionally instead. flowcore takes that resolution at face value
// and rebuilds the whole layer through a Batcher rather than patching
// offsets in place: Batcher already sorts, consolidates, and lays out
// offsets from scratch, so reusing it here gets the unconditional
// rebuild for free instead of reimplementing it.
func (b *Batch[K, V, T, R]) RecedeTo(frontier algebra.Antichain[T]) {
	batcher := NewBatcher[K, V, T, R](b.lower)
	cur := b.Cursor()
	for cur.KeyValid() {
		key := cur.Key()
		for cur.ValValid() {
			val := cur.Val()
			cur.FoldTimes(func(t T, diff R) {
				batcher.Push(key, val, frontier.Meet(t), diff)
			})
			cur.StepVal()
		}
		cur.StepKey()
	}
	b.layer = batcher.Seal(b.upper).layer
}
