package vtable

import "os"

// Abort is called when a negation panics partway through a slice,
// leaving some elements negated and others not. Such a slice is not
// safely observable or droppable by user code (spec.md §4.A "Failure &
// safety"), so the only correct response is to take the process down
// before the panic unwinds past this guard. Tests substitute a
// non-exiting stand-in to observe that the canary fired without actually
// killing the test binary.
var Abort = func() { os.Exit(2) }

// NegSliceByRef negates every element of diffs in place (by replacing
// each slot with its Neg()), guarded by a double-panic canary: if an
// element's Neg implementation panics, the deferred recover observes
// that the slice is only partially negated and escalates to Abort rather
// than letting the original panic propagate into code that might catch
// it and continue operating on the half-negated slice.
func NegSliceByRef(diffs []ErasedSignedDiff) {
	cleared := false
	defer func() {
		if r := recover(); r != nil {
			if !cleared {
				Abort()
			}
			panic(r)
		}
	}()
	for i := range diffs {
		diffs[i] = diffs[i].Neg().(ErasedSignedDiff)
	}
	cleared = true
}
