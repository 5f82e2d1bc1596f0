package circuit

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/exchange"
	"github.com/dreamware/flowcore/internal/operator"
	"github.com/dreamware/flowcore/internal/trace"
)

// TraceWithClock bridges an untimed stream (spec.md §2: "operators
// produce untimed batches; trace-append stamps them with the current
// logical time") into a trace carrying its own, independently advancing
// real time TT. It is the counterpart to Stream.Trace/IntegrateTrace for
// the case those two can't reach: every stream belonging to a
// Circuit[K, V, T, R] shares that circuit's own T, so Trace can only ever
// build operator.AppendUntimed (insert as-is) — AppendTimed's restamping
// is only meaningful when the trace's time type differs from the
// driving stream's, which requires a second, independent type parameter
// no Stream method can introduce (Go methods may not add type
// parameters beyond their receiver's). TraceWithClock is a free function
// so it can: it takes an untimed circuit (T = algebra.Unit, spec.md
// §4.H's "most operators output untimed batches") and a caller-chosen
// real clock TT, exactly mirroring the Rust split between
// `.trace::<T>()` (operator::TraceAppend, arbitrary target time) and
// `.integrate_trace()` (operator::UntimedTraceAppend, same time as the
// input).
//
// Unlike Trace/IntegrateTrace/DelayTrace, calls are not memoized — TT is
// not fixed by the circuit's own type, so there is no single cache key
// type to memoize under. Callers that need the same bridge twice should
// keep the returned trace themselves.
func TraceWithClock[K exchange.HashKey[K], V algebra.Key[V], TT batch.TimeKey[TT], R algebra.SignedWeight[R]](
	c *Circuit[K, V, algebra.Unit, R], s *Stream[K, V, algebra.Unit, R],
) *trace.Trace[K, V, TT, R] {
	tr := trace.New[K, V, TT, R]()
	var start TT
	start = start.ClockStart()
	ap := operator.NewAppendTimed[K, V, TT, R](operator.Owned(tr), start)

	c.order = append(c.order, func() { ap.Insert(s.cur) })
	c.clockStarts = append(c.clockStarts, func(scope int) { tr.ClockStart(scope) })
	c.clockEnds = append(c.clockEnds, func(isOuter bool, rootScope int, _ algebra.Unit) {
		tr.ClockEnd(isOuter, rootScope, ap.Clock())
	})
	c.fixedpoints = append(c.fixedpoints, func() bool { return tr.Fixedpoint(0) })
	return tr
}
