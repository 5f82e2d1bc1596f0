package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

func untimedBatch(key, val string, diff algebra.ZWeight) *batch.Batch[str, str, algebra.Unit, algebra.ZWeight] {
	b := batch.NewBuilder[str, str, algebra.Unit, algebra.ZWeight](algebra.Unit{})
	b.Push(s(key), s(val), diff)
	return b.Done()
}

func TestTraceWithClockStampsEachTickWithAnAdvancingNestedTime(t *testing.T) {
	c := New[str, str, algebra.Unit, algebra.ZWeight](0, 1, NewRegistry[str, str, algebra.Unit, algebra.ZWeight]())
	in, handle := c.Input()

	tr := TraceWithClock[str, str, algebra.Nested, algebra.ZWeight](c, in)

	handle.Push(untimedBatch("a", "v", 1))
	c.Step()
	handle.Push(untimedBatch("a", "v", 1))
	c.Step()

	cur := tr.Cursor()
	require.True(t, cur.KeyValid())
	times := map[algebra.Nested]algebra.ZWeight{}
	cur.FoldTimes(func(tm algebra.Nested, diff algebra.ZWeight) {
		times[tm] = diff
	})
	assert.Len(t, times, 2, "each tick's insert must carry its own distinct time, not collapse into one")
	assert.Equal(t, algebra.ZWeight(1), times[algebra.NestedAt(0, 0)])
	assert.Equal(t, algebra.ZWeight(1), times[algebra.NestedAt(0, 1)])
}

func TestTraceWithClockIsIndependentOfTheCircuitsOwnUnitTime(t *testing.T) {
	c := New[str, str, algebra.Unit, algebra.ZWeight](0, 1, NewRegistry[str, str, algebra.Unit, algebra.ZWeight]())
	in, handle := c.Input()

	tr := TraceWithClock[str, str, algebra.Nested, algebra.ZWeight](c, in)

	handle.Push(untimedBatch("a", "v", 2))
	c.Step()

	cur := tr.Cursor()
	require.True(t, cur.KeyValid())
	assert.Equal(t, "a", cur.Key().Value)
}
