// Package trace implements the log-structured merge trace (spec.md
// §4.F "Trace (spine)"): a sequence of levels, each holding at most one
// pending merge of batches whose size is roughly 2^k, with merges paid
// for out of the fuel carried by whatever batch triggered them ("effort
// is paid by the inserter").
package trace

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// level holds the batches currently resident at one spine level, plus
// an in-progress merge job if two of them are in the process of being
// combined into one batch bound for the level above.
type level[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	batches []*batch.Batch[K, V, T, R]
	job     *mergeJob[K, V, T, R]
}

// Trace is the spine: an append-only log of batches, self-compacting
// via background merges, queryable as a single ordered Cursor (spec.md
// §4.F "The trace cursor is an ordered k-way merge of the per-batch
// cursors").
type Trace[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]] struct {
	levels []*level[K, V, T, R]
	dirty  bool
}

// New returns an empty trace.
func New[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]]() *Trace[K, V, T, R] {
	return &Trace[K, V, T, R]{}
}

// Insert appends b at level 0, marks the trace dirty if b carried any
// tuples, and drives however many levels' worth of cascading merges the
// batch's own size affords fuel for.
func (tr *Trace[K, V, T, R]) Insert(b *batch.Batch[K, V, T, R]) {
	if !b.IsEmpty() {
		tr.dirty = true
	}
	fuel := fuelFor(b)
	tr.ensureLevel(0)
	tr.levels[0].batches = append(tr.levels[0].batches, b)
	tr.cascade(fuel)
}

// fuelFor derives a merge budget proportional to the inserted batch's
// size; an empty batch still buys one step so an all-empty stream of
// inserts eventually drains any merges left over from earlier ticks.
func fuelFor[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](b *batch.Batch[K, V, T, R]) int {
	if n := b.Len(); n > 0 {
		return n
	}
	return 1
}

func (tr *Trace[K, V, T, R]) ensureLevel(k int) {
	for len(tr.levels) <= k {
		tr.levels = append(tr.levels, &level[K, V, T, R]{})
	}
}

// cascade drives every level's outstanding or newly-started merge with
// fuel, promoting any that complete to the next level up — which may in
// turn immediately have two batches to merge, all within this same
// call, bounded only by how many levels exist.
func (tr *Trace[K, V, T, R]) cascade(fuel int) {
	for lvl := 0; lvl < len(tr.levels); lvl++ {
		l := tr.levels[lvl]
		if l.job == nil && len(l.batches) >= 2 {
			a, b := l.batches[0], l.batches[1]
			l.batches = l.batches[2:]
			l.job = newMergeJob(a, b)
		}
		if l.job == nil {
			continue
		}
		if l.job.step(fuel) {
			merged := l.job.seal()
			l.job = nil
			tr.ensureLevel(lvl + 1)
			tr.levels[lvl+1].batches = append(tr.levels[lvl+1].batches, merged)
		}
	}
}

// Dirty reports whether any batch inserted since the last ClockStart
// carried tuples.
func (tr *Trace[K, V, T, R]) Dirty() bool { return tr.dirty }

// Fixedpoint reports whether this trace has reached a fixed point for
// the given scope — spec.md §4.F: "fixedpoint(scope) returns
// !dirty[scope]". flowcore tracks one dirty bit per trace rather than
// one per scope (a trace lives at a single position in the circuit and
// is only ever polled by the scope that owns it), so scope is accepted
// for interface symmetry with the rest of the operator surface but does
// not select among independent bits.
func (tr *Trace[K, V, T, R]) Fixedpoint(scope int) bool { return !tr.dirty }

// ClockStart resets the dirty bit at the start of a new iteration of
// the given scope.
func (tr *Trace[K, V, T, R]) ClockStart(scope int) { tr.dirty = false }

// ClockEnd implements spec.md §4.F's clock_end: at the outer (root)
// clock boundary, recede every contained batch to
// now.EpochEnd(rootScope).Recede(rootScope) — everything strictly
// before the current outer tick becomes indistinguishable, letting
// recede_to discard now-unreachable history. Nested clock boundaries
// are a no-op for the trace.
func (tr *Trace[K, V, T, R]) ClockEnd(isOuterClock bool, rootScope int, now T) {
	if !isOuterClock {
		return
	}
	frontier := algebra.NewAntichain(now.EpochEnd(rootScope).Recede(rootScope))
	tr.RecedeTo(frontier)
}

// RecedeTo propagates to every batch the trace currently holds,
// including the two operands of any in-flight merge — spec.md §4.F:
// "recede_to is propagated to every contained batch".
func (tr *Trace[K, V, T, R]) RecedeTo(frontier algebra.Antichain[T]) {
	for _, l := range tr.levels {
		for _, b := range l.batches {
			b.RecedeTo(frontier)
		}
		if l.job != nil {
			l.job.a.RecedeTo(frontier)
			l.job.b.RecedeTo(frontier)
		}
	}
}

// BatchCount returns how many batches the trace currently holds across
// all levels, including the operands of in-flight merges. Mainly useful
// for tests asserting the spine compacts as expected.
func (tr *Trace[K, V, T, R]) BatchCount() int {
	n := 0
	for _, l := range tr.levels {
		n += len(l.batches)
		if l.job != nil {
			n += 2
		}
	}
	return n
}

// allBatches collects every batch currently reachable from the trace,
// in level order, for the k-way merge cursor to fan out over.
func (tr *Trace[K, V, T, R]) allBatches() []*batch.Batch[K, V, T, R] {
	var out []*batch.Batch[K, V, T, R]
	for _, l := range tr.levels {
		out = append(out, l.batches...)
		if l.job != nil {
			out = append(out, l.job.a, l.job.b)
		}
	}
	return out
}

// Cursor returns a single ordered view over every tuple the trace
// currently holds.
func (tr *Trace[K, V, T, R]) Cursor() *Cursor[K, V, T, R] {
	return newCursor(tr.allBatches())
}
