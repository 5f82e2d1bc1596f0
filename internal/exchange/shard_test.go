package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

type str = algebra.Prim[string]

func s(v string) str { return algebra.PrimOf(v) }

func TestPartitionIsIdentityAtOneWorker(t *testing.T) {
	time := algebra.NestedAt(0, 1)
	b := batch.NewBuilder[str, str, algebra.Nested, algebra.ZWeight](time)
	b.Push(s("a"), s("v"), 1)
	b.Push(s("b"), s("v"), 2)
	sealed := b.Done()

	parts := Partition[str, str, algebra.Nested, algebra.ZWeight](sealed, 1)
	require.Len(t, parts, 1)
	assert.Same(t, sealed, parts[0])
}

func TestPartitionRoutesEveryKeyByHashModN(t *testing.T) {
	const n = 4
	time := algebra.NestedAt(0, 1)
	bld := batch.NewBuilder[str, str, algebra.Nested, algebra.ZWeight](time)
	keys := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	for _, k := range keys {
		bld.Push(s(k), s("v"), 1)
	}
	sealed := bld.Done()

	parts := Partition[str, str, algebra.Nested, algebra.ZWeight](sealed, n)
	require.Len(t, parts, n)

	seen := map[string]bool{}
	for i, part := range parts {
		cur := part.Cursor()
		for cur.KeyValid() {
			key := cur.Key()
			want := int(key.Hash() % uint64(n))
			assert.Equal(t, want, i, "key %q landed in the wrong shard", key.Value)
			seen[key.Value] = true
			cur.StepKey()
		}
		assert.Equal(t, part.Lower(), sealed.Lower())
		assert.Equal(t, part.Upper(), sealed.Upper())
	}
	assert.Len(t, seen, len(keys), "every key must appear in exactly one shard")
}

func TestPartitionPreservesDiffsAndMultipleTimesPerKey(t *testing.T) {
	b1 := batch.NewBuilder[str, str, algebra.Nested, algebra.ZWeight](algebra.NestedAt(0, 1))
	b1.Push(s("k"), s("v"), 5)
	first := b1.Done()

	b2 := batch.NewBuilder[str, str, algebra.Nested, algebra.ZWeight](algebra.NestedAt(0, 2))
	b2.Push(s("k"), s("v"), -2)
	second := b2.Done()

	merged := batch.NewBatcher[str, str, algebra.Nested, algebra.ZWeight](first.Lower())
	merged.Absorb(first)
	merged.Absorb(second)
	sealed := merged.Seal(second.Upper())

	parts := Partition[str, str, algebra.Nested, algebra.ZWeight](sealed, 4)

	var total algebra.ZWeight
	var timesSeen int
	for _, part := range parts {
		cur := part.Cursor()
		for cur.KeyValid() {
			for cur.ValValid() {
				cur.FoldTimes(func(_ algebra.Nested, diff algebra.ZWeight) {
					total += diff
					timesSeen++
				})
				cur.StepVal()
			}
			cur.StepKey()
		}
	}
	assert.Equal(t, algebra.ZWeight(3), total)
	assert.Equal(t, 2, timesSeen, "both distinct-time tuples for the key must survive partitioning")
}
