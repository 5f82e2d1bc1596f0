package algebra

import "testing"

import "github.com/stretchr/testify/assert"

func TestNestedAdvanceResetsInnerScopes(t *testing.T) {
	base := NestedAt(0, 7)
	advanced := base.Advance(1)
	assert.Equal(t, uint64(0), advanced.At(0), "advancing an outer scope resets the inner clock")
	assert.Equal(t, uint64(1), advanced.At(1))
}

func TestNestedRecedeFloorsAtZero(t *testing.T) {
	z := Nested{}
	assert.Equal(t, z, z.Recede(0))
}

func TestNestedEpochEndDominatesEverythingInScope(t *testing.T) {
	base := NestedAt(0, 3)
	end := base.EpochEnd(0)
	for v := uint64(0); v < 1000; v++ {
		assert.True(t, NestedAt(0, v).LessEqual(end))
	}
}

func TestNestedMeetJoinLattice(t *testing.T) {
	a := NestedAt(0, 5)
	b := NestedAt(0, 9)
	assert.True(t, a.Meet(b).LessEqual(a))
	assert.True(t, a.Meet(b).LessEqual(b))
	assert.True(t, a.LessEqual(a.Join(b)))
	assert.True(t, b.LessEqual(a.Join(b)))
}

func TestZWeightGroup(t *testing.T) {
	a, b := ZWeight(3), ZWeight(-3)
	assert.True(t, a.Add(b).IsZero())
	assert.Equal(t, ZWeight(-3), a.Neg())
	assert.True(t, ZWeight(0).IsZero())
}

func TestAntichainMinimality(t *testing.T) {
	var a Antichain[Nested]
	a.Insert(NestedAt(0, 5))
	a.Insert(NestedAt(0, 3)) // dominates the 5, should replace it
	assert.Len(t, a.Elements(), 1)
	assert.Equal(t, uint64(3), a.Elements()[0].At(0))

	changed := a.Insert(NestedAt(0, 10)) // dominated by the 3, no-op
	assert.False(t, changed)
	assert.Len(t, a.Elements(), 1)
}

func TestAntichainLessEqual(t *testing.T) {
	var a Antichain[Nested]
	a.Insert(NestedAt(0, 5))
	assert.True(t, a.LessEqual(NestedAt(0, 5)))
	assert.True(t, a.LessEqual(NestedAt(0, 6)))
	assert.False(t, a.LessEqual(NestedAt(0, 4)))
}
