package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/flowcore/internal/algebra"
)

type str = algebra.Prim[string]

func s(v string) str { return algebra.PrimOf(v) }

// buildIndexed builds Batch[str, str, algebra.Nested, algebra.ZWeight]
// tuples at a single nested time via Builder.
func buildIndexed(t *testing.T, time algebra.Nested, kv ...[3]string) *Batch[str, str, algebra.Nested, algebra.ZWeight] {
	t.Helper()
	b := NewBuilder[str, str, algebra.Nested, algebra.ZWeight](time)
	for _, e := range kv {
		b.Push(s(e[0]), s(e[1]), algebra.ZWeight(1))
	}
	return b.Done()
}

func TestBuilderProducesKeysInOrder(t *testing.T) {
	b := buildIndexed(t, algebra.NestedAt(0, 1),
		[3]string{"a", "v1", ""},
		[3]string{"a", "v2", ""},
		[3]string{"b", "v1", ""},
	)
	require.Equal(t, 2, b.KeyCount())
	require.Equal(t, 3, b.Len())

	cur := b.Cursor()
	require.True(t, cur.KeyValid())
	assert.Equal(t, "a", cur.Key().Value)
	assert.True(t, cur.ValValid())
	assert.Equal(t, "v1", cur.Val().Value)
	cur.StepVal()
	assert.Equal(t, "v2", cur.Val().Value)
	cur.StepVal()
	assert.False(t, cur.ValValid())

	cur.StepKey()
	assert.Equal(t, "b", cur.Key().Value)
}

func TestBuilderRejectsOutOfOrderKeys(t *testing.T) {
	b := NewBuilder[str, str, algebra.Nested, algebra.ZWeight](algebra.NestedAt(0, 1))
	b.Push(s("b"), s("v"), 1)
	assert.Panics(t, func() {
		b.Push(s("a"), s("v"), 1)
	})
}

func TestKeyOnlyBatchViaUnitValue(t *testing.T) {
	b := NewBuilder[str, algebra.Unit, algebra.Nested, algebra.ZWeight](algebra.NestedAt(0, 1))
	b.Push(s("a"), algebra.Unit{}, 3)
	b.Push(s("b"), algebra.Unit{}, 5)
	batch := b.Done()

	cur := batch.Cursor()
	require.True(t, cur.KeyValid())
	assert.Equal(t, "a", cur.Key().Value)
	require.True(t, cur.ValValid())
	assert.Equal(t, algebra.ZWeight(3), cur.Weight())
}

func TestBatcherSortsConsolidatesAndDropsZeros(t *testing.T) {
	batcher := NewBatcher[str, str, algebra.Nested, algebra.ZWeight](algebra.NewAntichain(algebra.NestedAt(0, 0)))
	t1 := algebra.NestedAt(0, 1)
	batcher.Push(s("b"), s("v"), t1, 1)
	batcher.Push(s("a"), s("v"), t1, 2)
	batcher.Push(s("a"), s("v"), t1, -2) // cancels with the line above
	batcher.Push(s("a"), s("w"), t1, 4)

	sealed := batcher.Seal(algebra.NewAntichain(t1.Advance(0)))
	require.Equal(t, 2, sealed.KeyCount(), "key a survives through w; only its v-value cancelled to zero")

	cur := sealed.Cursor()
	require.True(t, cur.KeyValid())
	assert.Equal(t, "a", cur.Key().Value)
	var vals []string
	for cur.ValValid() {
		vals = append(vals, cur.Val().Value)
		cur.StepVal()
	}
	assert.Equal(t, []string{"w"}, vals)

	cur.StepKey()
	assert.Equal(t, "b", cur.Key().Value)
}

func TestBatcherAbsorbsExistingBatch(t *testing.T) {
	first := buildIndexed(t, algebra.NestedAt(0, 1), [3]string{"a", "v", ""})
	batcher := NewBatcher[str, str, algebra.Nested, algebra.ZWeight](algebra.NewAntichain(algebra.NestedAt(0, 1)))
	batcher.Absorb(first)
	batcher.Push(s("b"), s("v"), algebra.NestedAt(0, 1), 1)
	sealed := batcher.Seal(algebra.NewAntichain(algebra.NestedAt(0, 2)))
	assert.Equal(t, 2, sealed.KeyCount())
}

func TestRecedeToDropsCollapsedKeysAndRebuildsOffsets(t *testing.T) {
	batcher := NewBatcher[str, str, algebra.Nested, algebra.ZWeight](algebra.NewAntichain(algebra.NestedAt(0, 0)))
	batcher.Push(s("a"), s("v"), algebra.NestedAt(0, 1), 1)
	batcher.Push(s("a"), s("v"), algebra.NestedAt(0, 2), -1) // collides and cancels once receded
	batcher.Push(s("b"), s("v"), algebra.NestedAt(0, 1), 7)
	sealed := batcher.Seal(algebra.NewAntichain(algebra.NestedAt(0, 3)))
	require.Equal(t, 2, sealed.KeyCount())

	frontier := algebra.NewAntichain(algebra.NestedAt(0, 1))
	sealed.RecedeTo(frontier)

	require.Equal(t, 1, sealed.KeyCount(), "key a's only value collapsed to zero weight and must be dropped")
	cur := sealed.Cursor()
	require.True(t, cur.KeyValid())
	assert.Equal(t, "b", cur.Key().Value)
	require.True(t, cur.ValValid())
	var gotTime algebra.Nested
	cur.FoldTimes(func(tm algebra.Nested, diff algebra.ZWeight) {
		gotTime = tm
		assert.Equal(t, algebra.ZWeight(7), diff)
	})
	assert.Equal(t, algebra.NestedAt(0, 1), gotTime)
}

func TestConsumerDrainsAllTuplesOnce(t *testing.T) {
	b := buildIndexed(t, algebra.NestedAt(0, 1),
		[3]string{"a", "v1", ""},
		[3]string{"a", "v2", ""},
		[3]string{"b", "v1", ""},
	)
	consumer := b.Consumer()
	count := 0
	for {
		_, ok := consumer.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
	_, ok := consumer.Next()
	assert.False(t, ok)
}
