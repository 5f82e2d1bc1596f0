package batch

import (
	"sort"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/layers/column"
	"github.com/dreamware/flowcore/internal/layers/ordered"
)

type record[K, V, T, R any] struct {
	key  K
	val  V
	time T
	diff R
}

// Batcher accepts unordered, possibly duplicate-keyed input and, on
// Seal, returns one sorted and fully-consolidated batch (spec.md §4.E
// "Batcher"). Unlike Builder it does not require a single fixed time or
// pre-sorted input — it is the entry point for arbitrary tuple streams
// (an operator's output, a literal zset construction) that need to
// become a proper batch.
type Batcher[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]] struct {
	lower algebra.Antichain[T]
	recs  []record[K, V, T, R]
}

// NewBatcher starts a batcher whose sealed output carries the given
// lower antichain.
func NewBatcher[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R algebra.Weight[R]](lower algebra.Antichain[T]) *Batcher[K, V, T, R] {
	return &Batcher[K, V, T, R]{lower: lower}
}

// Push appends one (key, val, time, diff) tuple in any order.
func (b *Batcher[K, V, T, R]) Push(key K, val V, time T, diff R) {
	b.recs = append(b.recs, record[K, V, T, R]{key, val, time, diff})
}

// Absorb drains every tuple of an existing batch into the batcher —
// used to fold a just-arrived batch into an in-progress merge rather
// than pushing its tuples one at a time through Push.
func (b *Batcher[K, V, T, R]) Absorb(batch *Batch[K, V, T, R]) {
	cur := batch.Cursor()
	for cur.KeyValid() {
		key := cur.Key()
		for cur.ValValid() {
			val := cur.Val()
			cur.FoldTimes(func(t T, diff R) {
				b.recs = append(b.recs, record[K, V, T, R]{key, val, t, diff})
			})
			cur.StepVal()
		}
		cur.StepKey()
	}
}

// Seal sorts, consolidates, and lays out the accumulated tuples into a
// single batch carrying the given upper antichain. The batcher is empty
// afterward and may be reused for the next round.
func (b *Batcher[K, V, T, R]) Seal(upper algebra.Antichain[T]) *Batch[K, V, T, R] {
	sort.Slice(b.recs, func(i, j int) bool {
		ri, rj := b.recs[i], b.recs[j]
		if c := ri.key.Compare(rj.key); c != 0 {
			return c < 0
		}
		if c := ri.val.Compare(rj.val); c != 0 {
			return c < 0
		}
		return ri.time.Compare(rj.time) < 0
	})

	n := 0
	for i := 0; i < len(b.recs); {
		j := i + 1
		sum := b.recs[i].diff
		for j < len(b.recs) && sameKeyValTime(b.recs[i], b.recs[j]) {
			sum = sum.Add(b.recs[j].diff)
			j++
		}
		if !sum.IsZero() {
			b.recs[n] = record[K, V, T, R]{b.recs[i].key, b.recs[i].val, b.recs[i].time, sum}
			n++
		}
		i = j
	}
	b.recs = b.recs[:n]

	leafB := column.WithCapacity[T, R](0)
	innerB := ordered.NewBuilder[V, *leaf[T, R], *leafBuilder[T, R]](leafB)
	ob := ordered.NewBuilder[K, *inner[V, T, R], *innerBuilder[V, T, R]](innerB)

	hasKey, hasVal := false, false
	var curKey K
	var curVal V
	for _, r := range b.recs {
		if !hasKey || curKey.Compare(r.key) != 0 {
			if hasVal {
				innerB.CloseKey()
				hasVal = false
			}
			if hasKey {
				ob.CloseKey()
			}
			ob.OpenKey(r.key)
			curKey, hasKey = r.key, true
		}
		if !hasVal || curVal.Compare(r.val) != 0 {
			if hasVal {
				innerB.CloseKey()
			}
			innerB.OpenKey(r.val)
			curVal, hasVal = r.val, true
		}
		leafB.PushTuple(r.time, r.diff)
	}
	if hasVal {
		innerB.CloseKey()
	}
	if hasKey {
		ob.CloseKey()
	}

	layer := ob.Done()
	b.recs = nil
	return &Batch[K, V, T, R]{layer: layer, lower: b.lower, upper: upper}
}

func sameKeyValTime[K algebra.Key[K], V algebra.Key[V], T TimeKey[T], R any](a, b record[K, V, T, R]) bool {
	return a.key.Compare(b.key) == 0 && a.val.Compare(b.val) == 0 && a.time.Compare(b.time) == 0
}
