package column

import (
	"fmt"
	"testing"

	"github.com/dreamware/flowcore/internal/layers/vtable"
)

type erasedStrID struct{}

func (erasedStrID) String() string { return "erasedTestKey" }

// erasedKey is a minimal vtable.Erased key used only to exercise
// ErasedBuilder; its ordering is by the wrapped int.
type erasedKey int

func (k erasedKey) Equal(other vtable.Erased) bool { return k == other.(erasedKey) }
func (k erasedKey) Less(other vtable.Erased) bool  { return k < other.(erasedKey) }
func (k erasedKey) Clone() vtable.Erased           { return k }
func (k erasedKey) TypeID() vtable.TypeID          { return erasedStrID{} }
func (k erasedKey) DebugString() string            { return fmt.Sprintf("erasedKey(%d)", int(k)) }

type erasedWeight int

func (w erasedWeight) Equal(other vtable.Erased) bool { return w == other.(erasedWeight) }
func (w erasedWeight) Less(other vtable.Erased) bool  { return w < other.(erasedWeight) }
func (w erasedWeight) Clone() vtable.Erased           { return w }
func (w erasedWeight) TypeID() vtable.TypeID          { return erasedStrID{} }
func (w erasedWeight) DebugString() string            { return fmt.Sprintf("erasedWeight(%d)", int(w)) }
func (w erasedWeight) IsZero() bool                   { return w == 0 }
func (w erasedWeight) AddByRef(other vtable.ErasedDiff) vtable.ErasedDiff {
	return w + other.(erasedWeight)
}

func TestErasedBuilderConsolidatesEqualAdjacentKeys(t *testing.T) {
	b := NewErasedBuilder()
	b.PushTuple(erasedKey(1), erasedWeight(2))
	b.PushTuple(erasedKey(1), erasedWeight(3))
	b.PushTuple(erasedKey(2), erasedWeight(4))

	col := b.Done()
	if col.Len() != 2 {
		t.Fatalf("expected 2 tuples, got %d", col.Len())
	}
	if col.Keys()[0].(erasedKey) != 1 || col.Diffs()[0].(erasedWeight) != 5 {
		t.Fatalf("expected key 1 consolidated to weight 5, got key=%v diff=%v", col.Keys()[0], col.Diffs()[0])
	}
	if col.Keys()[1].(erasedKey) != 2 || col.Diffs()[1].(erasedWeight) != 4 {
		t.Fatalf("expected key 2 with weight 4, got key=%v diff=%v", col.Keys()[1], col.Diffs()[1])
	}
}

func TestErasedBuilderElidesZeroSum(t *testing.T) {
	b := NewErasedBuilder()
	b.PushTuple(erasedKey(1), erasedWeight(2))
	b.PushTuple(erasedKey(1), erasedWeight(-2))

	col := b.Done()
	if col.Len() != 0 {
		t.Fatalf("expected the zero-summed key to be elided, got %d tuples", col.Len())
	}
}

func TestErasedBuilderPanicsOnKeyGoingBackward(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when pushing a smaller key after a larger one")
		}
	}()
	b := NewErasedBuilder()
	b.PushTuple(erasedKey(2), erasedWeight(1))
	b.PushTuple(erasedKey(1), erasedWeight(1))
}
