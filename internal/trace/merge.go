package trace

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// mergeJob drives one level's pending merge of two batches to
// completion a bounded number of keys at a time, so a single large
// merge never blocks a tick — the same cooperative-scheduling
// discipline the ordered layer's own merge uses at the tuple level
// (internal/layers/ordered/merge.go), applied here at the batch level.
type mergeJob[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	a, b *batch.Batch[K, V, T, R]
	aCur *batch.Cursor[K, V, T, R]
	bCur *batch.Cursor[K, V, T, R]
	out  *batch.Batcher[K, V, T, R]
}

func newMergeJob[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](a, b *batch.Batch[K, V, T, R]) *mergeJob[K, V, T, R] {
	return &mergeJob[K, V, T, R]{
		a:    a,
		b:    b,
		aCur: a.Cursor(),
		bCur: b.Cursor(),
		out:  batch.NewBatcher[K, V, T, R](a.Lower()),
	}
}

// step advances the merge by up to fuel keys, draining whichever side
// currently holds the smaller key (or both, on a tie) into the output
// batcher. Returns true once both input cursors are exhausted.
func (j *mergeJob[K, V, T, R]) step(fuel int) bool {
	for spent := 0; spent < fuel; spent++ {
		aValid, bValid := j.aCur.KeyValid(), j.bCur.KeyValid()
		switch {
		case !aValid && !bValid:
			return true
		case aValid && bValid:
			switch c := j.aCur.Key().Compare(j.bCur.Key()); {
			case c < 0:
				absorbKey(j.out, j.aCur)
				j.aCur.StepKey()
			case c > 0:
				absorbKey(j.out, j.bCur)
				j.bCur.StepKey()
			default:
				absorbKey(j.out, j.aCur)
				absorbKey(j.out, j.bCur)
				j.aCur.StepKey()
				j.bCur.StepKey()
			}
		case aValid:
			absorbKey(j.out, j.aCur)
			j.aCur.StepKey()
		default:
			absorbKey(j.out, j.bCur)
			j.bCur.StepKey()
		}
	}
	return !j.aCur.KeyValid() && !j.bCur.KeyValid()
}

// seal finalizes the merge. The result spans from a's lower bound
// (passed to the batcher at construction) through b's upper bound, the
// standard spine invariant that a and b are time-adjacent (a.upper ==
// b.lower) because they were inserted into the same level in order.
func (j *mergeJob[K, V, T, R]) seal() *batch.Batch[K, V, T, R] {
	return j.out.Seal(j.b.Upper())
}

// absorbKey drains every (value, time, diff) triple under the cursor's
// current key into the batcher.
func absorbKey[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](out *batch.Batcher[K, V, T, R], cur *batch.Cursor[K, V, T, R]) {
	key := cur.Key()
	for cur.ValValid() {
		val := cur.Val()
		cur.FoldTimes(func(t T, diff R) {
			out.Push(key, val, t, diff)
		})
		cur.StepVal()
	}
}
