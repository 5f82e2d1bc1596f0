package operator

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// Neg negates every diff in b, producing a new batch with the same
// bounds. R must support Neg (algebra.SignedWeight) — an unsigned or
// otherwise non-invertible weight type cannot implement this operator
// at all.
func Neg[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]](b *batch.Batch[K, V, T, R]) *batch.Batch[K, V, T, R] {
	out := batch.NewBatcher[K, V, T, R](b.Lower())
	cur := b.Cursor()
	for cur.KeyValid() {
		key := cur.Key()
		for cur.ValValid() {
			val := cur.Val()
			cur.FoldTimes(func(t T, diff R) {
				out.Push(key, val, t, diff.Neg())
			})
			cur.StepVal()
		}
		cur.StepKey()
	}
	return out.Seal(b.Upper())
}
