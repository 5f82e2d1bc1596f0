package exchange

import (
	"go.uber.org/zap"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// HashKey is the constraint a key type must satisfy to be used with
// Partition: ordering (for the batch layers) plus a deterministic hash
// (for the partition function itself).
type HashKey[T any] interface {
	algebra.Key[T]
	algebra.Hasher[T]
}

// Partition splits b into n batches by hash(key) mod n, one per
// destination worker (spec.md §4.J). With n <= 1, sharding is the
// identity — "When the runtime has one worker, .shard() is the
// identity" — and b is returned unchanged as the sole element.
//
// b's cursor is walked in key order; each key's full run of (value,
// time, diff) tuples is pushed as a unit into its destination's
// RawBuilder. Because the source is traversed in global key order, each
// destination sees a strictly increasing subsequence of it and the
// builder's ordering precondition holds without any re-sort.
func Partition[K HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](b *batch.Batch[K, V, T, R], n int) []*batch.Batch[K, V, T, R] {
	if n <= 1 {
		log.Debug("partition: identity at one worker", zap.Int("source_keys", b.KeyCount()))
		return []*batch.Batch[K, V, T, R]{b}
	}

	builders := make([]*batch.RawBuilder[K, V, T, R], n)
	for i := range builders {
		builders[i] = batch.NewRawBuilder[K, V, T, R]()
	}

	cur := b.Cursor()
	for cur.KeyValid() {
		key := cur.Key()
		dest := int(key.Hash() % uint64(n))
		for cur.ValValid() {
			val := cur.Val()
			cur.FoldTimes(func(t T, diff R) {
				builders[dest].Push(key, val, t, diff)
			})
			cur.StepVal()
		}
		cur.StepKey()
	}

	lower, upper := b.Lower(), b.Upper()
	out := make([]*batch.Batch[K, V, T, R], n)
	for i, bld := range builders {
		out[i] = bld.Done(lower, upper)
	}
	log.Debug("partitioned batch across destinations",
		zap.Int("destinations", n),
		zap.Int("source_keys", b.KeyCount()))
	return out
}
