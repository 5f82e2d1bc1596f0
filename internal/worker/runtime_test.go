package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStepper struct {
	steps int
}

func (c *countingStepper) Step() { c.steps++ }

type fixedpointStepper struct {
	countingStepper
	convergeAt int
}

func (f *fixedpointStepper) Fixedpoint() bool { return f.steps >= f.convergeAt }

func TestRunDrivesEveryWorkerExactlyTicksTimes(t *testing.T) {
	a, b := &countingStepper{}, &countingStepper{}
	rt := New(nil, a, b)
	require.NoError(t, rt.Run(context.Background(), 5))
	assert.Equal(t, 5, a.steps)
	assert.Equal(t, 5, b.steps)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	a := &countingStepper{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rt := New(nil, a)
	err := rt.Run(ctx, 100)
	assert.Error(t, err)
	assert.Less(t, a.steps, 100)
}

func TestRunToFixedpointStopsWhenEveryStepperConverges(t *testing.T) {
	a := &fixedpointStepper{convergeAt: 3}
	b := &fixedpointStepper{convergeAt: 5}
	rt := New(nil, a, b)
	require.NoError(t, rt.RunToFixedpoint(context.Background(), 20))
	assert.Equal(t, 5, a.steps, "a keeps stepping until b also converges")
	assert.Equal(t, 5, b.steps)
}

func TestRunToFixedpointErrorsWhenBudgetExhausted(t *testing.T) {
	a := &fixedpointStepper{convergeAt: 1000}
	rt := New(nil, a)
	err := rt.RunToFixedpoint(context.Background(), 10)
	assert.Error(t, err)
}

func TestRunToFixedpointIgnoresSteppersWithoutFixedpoint(t *testing.T) {
	a := &countingStepper{}
	rt := New(nil, a)
	err := rt.RunToFixedpoint(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, a.steps)
}

type panickingStepper struct{}

func (panickingStepper) Step() { panic("boom") }

// runOne is exercised directly (rather than through Run) since a panic
// in an errgroup-spawned goroutine cannot be recovered from the test's
// own goroutine — it would crash the whole test binary rather than
// fail one test. Calling the unexported method in-process keeps the
// panic and its recover in the same goroutine.
func TestRunOnePanicsWithWorkerIdentityAttached(t *testing.T) {
	rt := New(nil)
	defer func() {
		rec := recover()
		require.NotNil(t, rec, "runOne re-panics after attaching worker identity")
		msg, ok := rec.(string)
		require.True(t, ok)
		assert.Contains(t, msg, "worker 3")
		assert.Contains(t, msg, "boom")
	}()
	_ = rt.runOne(context.Background(), 3, panickingStepper{}, func(int) bool { return false })
	t.Fatal("unreachable: runOne should have panicked")
}

func TestNewDefaultsNilLoggerToNop(t *testing.T) {
	a := &countingStepper{}
	rt := New(nil, a)
	assert.NotNil(t, rt.log)
	require.NoError(t, rt.Run(context.Background(), 1))
}

func TestRunCompletesWithinReasonableTime(t *testing.T) {
	a := &countingStepper{}
	rt := New(nil, a)
	done := make(chan struct{})
	go func() {
		_ = rt.Run(context.Background(), 1000)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not complete in time")
	}
}
