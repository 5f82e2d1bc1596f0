package operator

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/errz"
	"github.com/dreamware/flowcore/internal/trace"
)

// AppendUntimed inserts each arriving batch directly into its trace
// (spec.md §4.H "untimed append").
type AppendUntimed[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	trace *trace.Trace[K, V, T, R]
}

// NewAppendUntimed builds the operator against an owned trace handoff,
// panicking if given a by-reference one.
func NewAppendUntimed[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](input TraceInput[K, V, T, R]) *AppendUntimed[K, V, T, R] {
	requireOwned(input.owned)
	return &AppendUntimed[K, V, T, R]{trace: input.trace}
}

// Insert appends b to the trace as-is.
func (a *AppendUntimed[K, V, T, R]) Insert(b *batch.Batch[K, V, T, R]) {
	a.trace.Insert(b)
}

// AppendTimed rewrites each arriving untimed batch (V dimension intact,
// time collapsed to algebra.Unit) into a batch stamped with the
// operator's current logical time, inserts it, and advances that clock
// by Advance(0) (spec.md §4.H "timed append").
type AppendTimed[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	trace *trace.Trace[K, V, T, R]
	clock T
}

// NewAppendTimed builds the operator against an owned trace handoff,
// panicking if given a by-reference one, with the clock starting at
// start.
func NewAppendTimed[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](input TraceInput[K, V, T, R], start T) *AppendTimed[K, V, T, R] {
	requireOwned(input.owned)
	return &AppendTimed[K, V, T, R]{trace: input.trace, clock: start}
}

// Insert drains untimed (whose every tuple carries the degenerate
// algebra.Unit time), restamps every tuple with the operator's current
// clock value, inserts the result, and advances the clock.
func (a *AppendTimed[K, V, T, R]) Insert(untimed *batch.Batch[K, V, algebra.Unit, R]) {
	b := batch.NewBuilder[K, V, T, R](a.clock)
	consumer := untimed.Consumer()
	for {
		tup, ok := consumer.Next()
		if !ok {
			break
		}
		b.Push(tup.Key, tup.Val, tup.Diff)
	}
	a.trace.Insert(b.Done())
	a.clock = a.clock.Advance(0)
}

// Clock reports the operator's current logical time — the value the
// next Insert will stamp its batch with before advancing. A bridge that
// drives this operator from outside (circuit.TraceWithClock) uses this
// to report clock-end frontiers to the trace it owns, since that clock
// lives here rather than in the untimed stream feeding it.
func (a *AppendTimed[K, V, T, R]) Clock() T { return a.clock }

func requireOwned(owned bool) {
	if !owned {
		panic(errz.Precondition("append operator: trace input must be owned, never by-reference"))
	}
}
