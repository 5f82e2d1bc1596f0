// Package circuit implements the dataflow graph and its per-operator
// memoization (spec.md §4.L "Circuit cache keys", §6 "Operator
// factories"): Stream is one node in a worker's copy of the graph,
// Circuit owns the node table and the per-tick evaluation order, and
// Registry is the shared, process-wide rendezvous every worker's
// Circuit uses to agree on which exchange.Channel backs a given gather
// node (spec.md §9 "Cross-worker coordination").
package circuit

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/errz"
	"github.com/dreamware/flowcore/internal/exchange"
	"github.com/dreamware/flowcore/internal/operator"
	"github.com/dreamware/flowcore/internal/trace"
)

// Stream is one node of a worker's dataflow graph: cur holds whatever
// batch this node produced on the tick most recently stepped. Reading
// Value() before the first Step (or for an Input node before its
// handle's first Push) returns an empty batch, never nil.
type Stream[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]] struct {
	id      NodeId
	c       *Circuit[K, V, T, R]
	cur     *batch.Batch[K, V, T, R]
	sharded bool
}

// Value returns the batch this node produced on the most recent tick.
func (s *Stream[K, V, T, R]) Value() *batch.Batch[K, V, T, R] { return s.cur }

// ID exposes the node's origin identity, useful for logging and for
// embedders that want to key their own side-tables the same way the
// circuit cache does.
func (s *Stream[K, V, T, R]) ID() NodeId { return s.id }

// MarkSharded marks s as already sharded by construction — the
// compiler-pre-marking case spec.md §4.J describes, where a later
// Shard() call must return s unchanged rather than building a new
// partition.
func (s *Stream[K, V, T, R]) MarkSharded() *Stream[K, V, T, R] {
	s.sharded = true
	return s
}

// HasShardedVersion reports whether s is already known to be sharded.
func (s *Stream[K, V, T, R]) HasShardedVersion() bool { return s.sharded }

// TryShardedVersion returns s if HasShardedVersion, otherwise nil —
// callers that want to avoid a real Shard() call fall back to building
// one explicitly when this returns nil.
func (s *Stream[K, V, T, R]) TryShardedVersion() *Stream[K, V, T, R] {
	if s.sharded {
		return s
	}
	return nil
}

// MarkShardedIf propagates sharded-ness from other onto s, for derived
// streams whose partitioning tracks their source's (spec.md §4.J names
// .neg() as the motivating example: negating diffs never moves a key
// to a different shard).
func (s *Stream[K, V, T, R]) MarkShardedIf(other *Stream[K, V, T, R]) *Stream[K, V, T, R] {
	if other.sharded {
		s.sharded = true
	}
	return s
}

// InputHandle is the embedder-facing write side of a source node
// created by Circuit.Input.
type InputHandle[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]] struct {
	s *Stream[K, V, T, R]
}

// Push supplies this tick's batch for the input. Must be called before
// Circuit.Step for every tick the embedder wants this input to carry
// data; an un-pushed tick reuses whatever was set last.
func (h *InputHandle[K, V, T, R]) Push(b *batch.Batch[K, V, T, R]) {
	h.s.cur = b
}

// Connector is the feedback endpoint a self-referential stream needs
// (spec.md §9 "Self-referential streams"): Circuit.Feedback returns a
// read-side Stream usable immediately, plus a Connector the embedder
// must resolve exactly once, after building the source stream the read
// side delays, by calling Connect.
type Connector[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]] struct {
	circuit  *Circuit[K, V, T, R]
	read     *Stream[K, V, T, R]
	z        *operator.Z1[*batch.Batch[K, V, T, R]]
	resolved bool
}

// Connect resolves the connector with src, the stream the read side
// delays by one tick. Must be called exactly once, after src is fully
// built, and before the first Step.
func (conn *Connector[K, V, T, R]) Connect(src *Stream[K, V, T, R]) {
	if conn.resolved {
		panic(errz.Precondition("circuit: feedback connector already connected"))
	}
	conn.resolved = true
	read, z := conn.read, conn.z
	conn.circuit.order = append(conn.circuit.order, func() {
		read.cur = z.Step(src.cur)
	})
}

// Circuit owns one worker's copy of the dataflow graph: the per-tick
// evaluation order (built in construction order, which is already
// topological since a stream can only be built from streams that exist
// before it) and the origin-node memoization caches spec.md §4.L names.
type Circuit[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]] struct {
	worker  int
	workers int
	reg     *Registry[K, V, T, R]

	order       []func()
	clockStarts []func(scope int)
	clockEnds   []func(isOuterClock bool, rootScope int, now T)
	fixedpoints []func() bool
	pending     []*bool

	traceCache          map[traceId]*trace.Trace[K, V, T, R]
	delayedTraceCache   map[delayedTraceId]*trace.Trace[K, V, T, R]
	integrateTraceCache map[integrateTraceId]*trace.Trace[K, V, T, R]
	delayedCache        map[delayedId]*Stream[K, V, T, R]
	nestedDelayedCache  map[nestedDelayedId]*Stream[K, V, T, R]
	shardedCache        map[shardId][]*Stream[K, V, T, R]
	gatheredCache       map[gatherId]*Stream[K, V, T, R]

	nextGatherSeq uint64
}

// New returns an empty circuit for worker (0-indexed) out of workers
// total, sharing reg with every other worker's circuit in the run.
func New[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]](worker, workers int, reg *Registry[K, V, T, R]) *Circuit[K, V, T, R] {
	return &Circuit[K, V, T, R]{
		worker:  worker,
		workers: workers,
		reg:     reg,

		traceCache:          map[traceId]*trace.Trace[K, V, T, R]{},
		delayedTraceCache:   map[delayedTraceId]*trace.Trace[K, V, T, R]{},
		integrateTraceCache: map[integrateTraceId]*trace.Trace[K, V, T, R]{},
		delayedCache:        map[delayedId]*Stream[K, V, T, R]{},
		nestedDelayedCache:  map[nestedDelayedId]*Stream[K, V, T, R]{},
		shardedCache:        map[shardId][]*Stream[K, V, T, R]{},
		gatheredCache:       map[gatherId]*Stream[K, V, T, R]{},
	}
}

// newNode allocates a node whose cur starts as an empty batch rather
// than nil — every combinator reads upstream .cur unconditionally
// (e.g. Sum folding every input's Lower/Upper), including before the
// node's own producing thunk has ever run (a fresh Input before its
// first Push, a Feedback read side before its first Step).
func (c *Circuit[K, V, T, R]) newNode() *Stream[K, V, T, R] {
	zero := batch.Empty[K, V, T, R](algebra.Antichain[T]{}, algebra.Antichain[T]{})
	return &Stream[K, V, T, R]{id: newNodeId(), c: c, cur: zero}
}

// Input creates a new source node and the handle the embedder uses to
// supply its batch each tick.
func (c *Circuit[K, V, T, R]) Input() (*Stream[K, V, T, R], *InputHandle[K, V, T, R]) {
	s := c.newNode()
	return s, &InputHandle[K, V, T, R]{s: s}
}

// Feedback returns a read-side stream and the connector that must be
// resolved with its source before the circuit is stepped (see
// Connector).
func (c *Circuit[K, V, T, R]) Feedback() (*Stream[K, V, T, R], *Connector[K, V, T, R]) {
	read := c.newNode()
	zero := batch.Empty[K, V, T, R](algebra.Antichain[T]{}, algebra.Antichain[T]{})
	z := operator.NewZ1[*batch.Batch[K, V, T, R]](zero)
	c.clockEnds = append(c.clockEnds, func(bool, int, T) { z.ClockEnd() })
	conn := &Connector[K, V, T, R]{circuit: c, read: read, z: z}
	c.pending = append(c.pending, &conn.resolved)
	return read, conn
}

// Validate panics if any Feedback connector was never Connected. Call
// once after wiring the whole graph, before the first Step.
func (c *Circuit[K, V, T, R]) Validate() {
	for _, resolved := range c.pending {
		if !*resolved {
			panic(errz.Precondition("circuit: a feedback connector was never connected"))
		}
	}
}

// Step evaluates every node once, in construction order.
func (c *Circuit[K, V, T, R]) Step() {
	for _, fn := range c.order {
		fn()
	}
}

// ClockStart notifies every trace and nested delay in the circuit that
// an inner-clock iteration is starting for scope (spec.md §4.F, §4.G).
func (c *Circuit[K, V, T, R]) ClockStart(scope int) {
	for _, fn := range c.clockStarts {
		fn(scope)
	}
}

// ClockEnd notifies every trace and delay operator that a clock has
// ended, per the same (isOuterClock, rootScope, now) triple
// Trace.ClockEnd takes (spec.md §4.F).
func (c *Circuit[K, V, T, R]) ClockEnd(isOuterClock bool, rootScope int, now T) {
	for _, fn := range c.clockEnds {
		fn(isOuterClock, rootScope, now)
	}
}

// Fixedpoint reports whether every trace and delay operator in the
// circuit has reached its fixed point — the scheduler's signal that an
// inner-clock iteration may stop.
func (c *Circuit[K, V, T, R]) Fixedpoint() bool {
	for _, fn := range c.fixedpoints {
		if !fn() {
			return false
		}
	}
	return true
}

// Neg returns the stream of s negated every tick (spec.md §4.I / §6
// "stream.neg()"). Sharded-ness propagates automatically, since
// negating diffs never moves a key to a different shard.
func (s *Stream[K, V, T, R]) Neg() *Stream[K, V, T, R] {
	out := s.c.newNode()
	out.MarkShardedIf(s)
	s.c.order = append(s.c.order, func() {
		out.cur = operator.Neg[K, V, T, R](s.cur)
	})
	return out
}

// Sum returns s summed with others every tick (spec.md §4.I / §6
// "stream.sum(others)"). Passing s among others is legal and simply
// contributes its value twice.
func (s *Stream[K, V, T, R]) Sum(others ...*Stream[K, V, T, R]) *Stream[K, V, T, R] {
	out := s.c.newNode()
	inputs := append([]*Stream[K, V, T, R]{s}, others...)
	summer := operator.NewSummer[K, V, T, R]()
	s.c.order = append(s.c.order, func() {
		parts := make([]*batch.Batch[K, V, T, R], len(inputs))
		for i, in := range inputs {
			parts[i] = in.cur
		}
		out.cur = summer.Sum(s.cur.Lower(), s.cur.Upper(), parts...)
	})
	return out
}

// Delay returns the Z⁻¹ flat delay of s (spec.md §4.G / §6
// "stream.delay()"), memoized per origin node so calling it twice on
// the same stream returns the same node (spec.md §9).
func (s *Stream[K, V, T, R]) Delay() *Stream[K, V, T, R] {
	key := delayedId{origin: s.id}
	if cached, ok := s.c.delayedCache[key]; ok {
		return cached
	}
	out := s.c.newNode()
	out.MarkShardedIf(s)
	zero := batch.Empty[K, V, T, R](algebra.Antichain[T]{}, algebra.Antichain[T]{})
	z := operator.NewZ1[*batch.Batch[K, V, T, R]](zero)
	s.c.order = append(s.c.order, func() { out.cur = z.Step(s.cur) })
	s.c.clockEnds = append(s.c.clockEnds, func(bool, int, T) { z.ClockEnd() })
	s.c.fixedpoints = append(s.c.fixedpoints, z.Fixedpoint)
	s.c.delayedCache[key] = out
	return out
}

// DelayNested returns the nested Z⁻¹ delay of s (spec.md §4.G / §6
// "stream.delay_nested()"), memoized the same way Delay is.
func (s *Stream[K, V, T, R]) DelayNested() *Stream[K, V, T, R] {
	key := nestedDelayedId{origin: s.id}
	if cached, ok := s.c.nestedDelayedCache[key]; ok {
		return cached
	}
	out := s.c.newNode()
	out.MarkShardedIf(s)
	zero := batch.Empty[K, V, T, R](algebra.Antichain[T]{}, algebra.Antichain[T]{})
	zn := operator.NewZ1Nested[*batch.Batch[K, V, T, R]](zero)
	s.c.order = append(s.c.order, func() { out.cur = zn.Step(s.cur) })
	s.c.clockStarts = append(s.c.clockStarts, func(int) { zn.ClockStart() })
	s.c.clockEnds = append(s.c.clockEnds, func(bool, int, T) { zn.ClockEnd() })
	s.c.fixedpoints = append(s.c.fixedpoints, zn.Fixedpoint)
	s.c.nestedDelayedCache[key] = out
	return out
}

// Trace returns the full accumulated history of s (spec.md §4.F / §6
// "stream.trace()"), memoized per origin node under TraceId.
func (s *Stream[K, V, T, R]) Trace() *trace.Trace[K, V, T, R] {
	key := traceId{origin: s.id}
	if cached, ok := s.c.traceCache[key]; ok {
		return cached
	}
	tr := s.c.buildTrace(s)
	s.c.traceCache[key] = tr
	return tr
}

// IntegrateTrace returns the accumulated history of s under
// IntegrateTraceId. This trace implementation has no bounded or
// windowed variant for Trace to integrate away from — its spine
// already retains everything forever — so IntegrateTrace is built
// identically to Trace and kept as a separate cache entry purely for
// fidelity to spec.md §4.L's distinct node name, should a future
// windowed trace need the two to diverge.
func (s *Stream[K, V, T, R]) IntegrateTrace() *trace.Trace[K, V, T, R] {
	key := integrateTraceId{origin: s.id}
	if cached, ok := s.c.integrateTraceCache[key]; ok {
		return cached
	}
	tr := s.c.buildTrace(s)
	s.c.integrateTraceCache[key] = tr
	return tr
}

// DelayTrace returns the accumulated history of s.Delay() (spec.md §6
// "stream.delay_trace()"), memoized under DelayedTraceId.
func (s *Stream[K, V, T, R]) DelayTrace() *trace.Trace[K, V, T, R] {
	key := delayedTraceId{origin: s.id}
	if cached, ok := s.c.delayedTraceCache[key]; ok {
		return cached
	}
	tr := s.c.buildTrace(s.Delay())
	s.c.delayedTraceCache[key] = tr
	return tr
}

// buildTrace wires a fresh trace.Trace to accumulate src's per-tick
// output via operator.AppendUntimed, and registers its ClockStart/
// ClockEnd/Fixedpoint hooks with the circuit.
func (c *Circuit[K, V, T, R]) buildTrace(src *Stream[K, V, T, R]) *trace.Trace[K, V, T, R] {
	tr := trace.New[K, V, T, R]()
	ap := operator.NewAppendUntimed(operator.Owned(tr))
	c.order = append(c.order, func() { ap.Insert(src.cur) })
	c.clockStarts = append(c.clockStarts, func(scope int) { tr.ClockStart(scope) })
	c.clockEnds = append(c.clockEnds, func(isOuter bool, rootScope int, now T) { tr.ClockEnd(isOuter, rootScope, now) })
	c.fixedpoints = append(c.fixedpoints, func() bool { return tr.Fixedpoint(0) })
	return tr
}

// Shard partitions s across the circuit's worker count by key hash
// (spec.md §4.J / §6 "stream.shard()"), memoized per (origin, policy)
// under ShardId. A pre-marked stream (HasShardedVersion) is returned
// unchanged; with one worker, sharding is the identity.
func (s *Stream[K, V, T, R]) Shard() []*Stream[K, V, T, R] {
	if s.sharded {
		return []*Stream[K, V, T, R]{s}
	}
	key := shardId{origin: s.id, policy: hashModNPolicy}
	if cached, ok := s.c.shardedCache[key]; ok {
		return cached
	}

	n := s.c.workers
	if n <= 1 {
		s.sharded = true
		out := []*Stream[K, V, T, R]{s}
		s.c.shardedCache[key] = out
		return out
	}

	outs := make([]*Stream[K, V, T, R], n)
	for i := range outs {
		outs[i] = s.c.newNode()
		outs[i].sharded = true
	}
	s.c.order = append(s.c.order, func() {
		parts := exchange.Partition[K, V, T, R](s.cur, n)
		for i, p := range parts {
			outs[i].cur = p
		}
	})
	s.c.shardedCache[key] = outs
	return outs
}

// Gather collects s from every worker and sums them into one
// consolidated stream at receiver (spec.md §4.K / §6
// "stream.gather(receiver_worker)"), memoized per (origin, receiver)
// under GatherId. Every worker produces into the shared rendezvous
// channel; only receiver's copy actually drains and sums it, the rest
// see an empty stream at this node (spec.md §4.K: "workers other than
// the receiver install an empty consumer").
func (s *Stream[K, V, T, R]) Gather(receiver int) *Stream[K, V, T, R] {
	key := gatherId{origin: s.id, receiver: receiver}
	if cached, ok := s.c.gatheredCache[key]; ok {
		return cached
	}
	if receiver < 0 || receiver >= s.c.workers {
		panic(errz.Construction("circuit: gather receiver %d out of range [0, %d)", receiver, s.c.workers))
	}

	seq := s.c.nextGatherSeq
	s.c.nextGatherSeq++
	ch := s.c.reg.channel(gatherDataId{seq: seq}, s.c.workers)

	out := s.c.newNode()
	worker := s.c.worker
	if worker == receiver {
		// The receiver's copy of this node is the one true suspension
		// point spec.md §5 describes: "the gather consumer is the
		// canonical example" of an operator that marks itself !ready and
		// yields. wake coalesces Channel's notify callback into a single
		// buffered slot the receiver's own goroutine blocks on between
		// Ready checks, instead of busy-spinning — Channel itself stays
		// the lock-free structure spec.md §5 requires; this channel is
		// receiver-local, never shared across workers.
		wake := make(chan struct{}, 1)
		ch.SetNotify(func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		s.c.order = append(s.c.order, func() {
			ch.Produce(worker, s.cur)
			for !ch.Ready() {
				<-wake
			}
			out.cur = exchange.Gather(ch, s.cur.Lower(), s.cur.Upper())
		})
	} else {
		s.c.order = append(s.c.order, func() {
			ch.Produce(worker, s.cur)
			out.cur = batch.Empty[K, V, T, R](algebra.Antichain[T]{}, algebra.Antichain[T]{})
		})
	}
	s.c.gatheredCache[key] = out
	return out
}
