package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeColl struct{ n int }

func (f fakeColl) IsEmpty() bool { return f.n == 0 }

func TestZ1StartsAtFixedpointAndDelaysByOneTick(t *testing.T) {
	z := NewZ1[fakeColl](fakeColl{})
	assert.True(t, z.Fixedpoint(), "an untouched delay has nothing stored and no output yet")

	out := z.Step(fakeColl{n: 1})
	assert.Equal(t, fakeColl{}, out, "first output is the initial zero, not this tick's input")
	assert.False(t, z.Fixedpoint(), "buffer now holds a non-empty value")

	out = z.Step(fakeColl{})
	assert.Equal(t, fakeColl{n: 1}, out)
	assert.False(t, z.Fixedpoint(), "buffer is empty but the value just output was not")

	out = z.Step(fakeColl{})
	assert.Equal(t, fakeColl{}, out)
	assert.True(t, z.Fixedpoint(), "buffer empty and last output was also empty")
}

func TestZ1ClockEndResetsState(t *testing.T) {
	z := NewZ1[fakeColl](fakeColl{})
	z.Step(fakeColl{n: 5})
	assert.False(t, z.Fixedpoint())

	z.ClockEnd()
	assert.True(t, z.Fixedpoint())
}

func TestZ1NestedRepeatsLastValueBeyondPriorIterationDepth(t *testing.T) {
	z := NewZ1Nested[fakeColl](fakeColl{})

	// Iteration 1 runs two ticks, converging on {n: 2} at depth 1.
	got0 := z.Step(fakeColl{n: 10})
	got1 := z.Step(fakeColl{n: 2})
	assert.Equal(t, fakeColl{}, got0, "depth 0 had no history yet, so it starts at zero")
	assert.Equal(t, fakeColl{}, got1, "depth 1 had no history yet either")
	z.ClockStart()

	// Iteration 2 runs four ticks — deeper than iteration 1 ever went.
	// Depth 0 replays what iteration 1 stored there (10); depths 1-3 are
	// all beyond iteration 1's length-2 history, so the repeat-last rule
	// should keep surfacing iteration 1's final value (2) at every one
	// of them rather than falling back to zero.
	out0 := z.Step(fakeColl{n: 100})
	out1 := z.Step(fakeColl{n: 101})
	out2 := z.Step(fakeColl{n: 102})
	out3 := z.Step(fakeColl{n: 103})

	assert.Equal(t, fakeColl{n: 10}, out0)
	assert.Equal(t, fakeColl{n: 2}, out1)
	assert.Equal(t, fakeColl{n: 2}, out2)
	assert.Equal(t, fakeColl{n: 2}, out3)
}

func TestZ1NestedFixedpointAndClockEnd(t *testing.T) {
	z := NewZ1Nested[fakeColl](fakeColl{})
	assert.True(t, z.Fixedpoint())

	z.Step(fakeColl{n: 1})
	assert.False(t, z.Fixedpoint())

	z.ClockEnd()
	assert.True(t, z.Fixedpoint())
}
