package operator

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/trace"
)

// TraceInput tags a trace handed to an append operator with whether the
// circuit transferred it by owned value or merely by reference. Go has
// no borrow checker to enforce the distinction structurally the way the
// source runtime's ownership types do, so flowcore carries it as an
// explicit bit set at the call site that constructed the handoff —
// Owned for a circuit wire that exclusively feeds this operator,
// ByRef for a shared view no well-formed circuit should ever hand to an
// append operator (spec.md §9: "a correctly constructed circuit never
// delivers one").
type TraceInput[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	trace *trace.Trace[K, V, T, R]
	owned bool
}

// Owned wraps tr as an exclusively-owned handoff to an append operator.
func Owned[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](tr *trace.Trace[K, V, T, R]) TraceInput[K, V, T, R] {
	return TraceInput[K, V, T, R]{trace: tr, owned: true}
}

// ByRef wraps tr as a shared-reference handoff — always rejected by the
// append operators, per spec.md §9's open question, which this
// implementation treats as a hard invariant rather than a soft
// precondition.
func ByRef[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](tr *trace.Trace[K, V, T, R]) TraceInput[K, V, T, R] {
	return TraceInput[K, V, T, R]{trace: tr, owned: false}
}
