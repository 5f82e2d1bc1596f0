package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/flowcore/internal/algebra"
)

func build(t *testing.T, kv ...any) *Col[algebra.Prim[string], algebra.ZWeight] {
	t.Helper()
	b := WithCapacity[algebra.Prim[string], algebra.ZWeight](0)
	for i := 0; i < len(kv); i += 2 {
		b.PushTuple(algebra.PrimOf(kv[i].(string)), algebra.ZWeight(kv[i+1].(int)))
	}
	return b.Done()
}

func TestBuilderConsolidatesAdjacentEqualKeys(t *testing.T) {
	c := build(t, "a", 1, "a", 2, "b", 5)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.Keys()[0].Value)
	assert.Equal(t, algebra.ZWeight(3), c.Diffs()[0])
}

func TestBuilderDropsZeroSum(t *testing.T) {
	c := build(t, "a", 1, "a", -1, "b", 1)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "b", c.Keys()[0].Value)
}

func TestBuilderRejectsOutOfOrder(t *testing.T) {
	b := WithCapacity[algebra.Prim[string], algebra.ZWeight](0)
	b.PushTuple(algebra.PrimOf("b"), 1)
	assert.Panics(t, func() {
		b.PushTuple(algebra.PrimOf("a"), 1)
	})
}

func TestCursorSeekExponential(t *testing.T) {
	c := build(t, "a", 1, "c", 1, "e", 1, "g", 1, "i", 1)
	cur := c.CursorFrom(0, c.Len())
	cur.Seek(algebra.PrimOf("e"))
	require.True(t, cur.Valid())
	assert.Equal(t, "e", cur.Key().Value)

	cur.Rewind()
	cur.Seek(algebra.PrimOf("f"))
	require.True(t, cur.Valid())
	assert.Equal(t, "g", cur.Key().Value, "seek lands on first key >= target")

	cur.Rewind()
	cur.Seek(algebra.PrimOf("z"))
	assert.False(t, cur.Valid(), "seeking past the end invalidates the cursor")
}

func TestNegAndNegByRef(t *testing.T) {
	orig := build(t, "a", 3, "b", -2)
	clone := NegByRef(orig)
	assert.Equal(t, algebra.ZWeight(3), orig.Diffs()[0], "NegByRef leaves the original untouched")
	assert.Equal(t, algebra.ZWeight(-3), clone.Diffs()[0])

	negInPlace := Neg(orig)
	assert.Equal(t, algebra.ZWeight(-3), negInPlace.Diffs()[0])
}

func TestTruncate(t *testing.T) {
	c := build(t, "a", 1, "b", 1, "c", 1)
	c.Truncate(1)
	assert.Equal(t, 1, c.Len())
}
