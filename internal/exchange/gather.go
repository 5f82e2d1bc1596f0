package exchange

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/errz"
	"github.com/dreamware/flowcore/internal/operator"
)

// cacheLineSize is the padding unit used to keep each producer's cell on
// its own cache line, so N producers writing concurrently don't
// ping-pong a shared line of memory (spec.md §4.K: "cache-padded").
const cacheLineSize = 64

// cell holds one producer's per-tick contribution: a valid flag and the
// slot it guards, followed by a padding gap so the next producer's cell
// in the slice doesn't share a cache line with this one.
type cell[T any] struct {
	valid atomic.Bool
	val   T
	_pad  [cacheLineSize]byte
}

// Channel is the fixed-size rendezvous a gather operator owns (spec.md
// §4.K): one cell per producer and an atomically-replaceable notify
// callback. Producers and the single receiving worker share one Channel
// instance; a Channel must not be used by more than one receiver.
type Channel[T any] struct {
	cells  []cell[T]
	notify atomic.Pointer[func()]
}

// NewChannel allocates a channel for the given number of producers.
func NewChannel[T any](numProducers int) *Channel[T] {
	return &Channel[T]{cells: make([]cell[T], numProducers)}
}

// EmptyConsumer returns a zero-producer channel: always Ready, Eval
// always empty. Workers other than a gather's receiver install one so
// every worker's circuit still has a node at this position (spec.md
// §4.K: "an empty spine each tick").
func EmptyConsumer[T any]() *Channel[T] {
	return NewChannel[T](0)
}

// SetNotify atomically replaces the callback invoked after every
// producer write (the ArcSwap-style mechanism spec.md §4.K describes).
// A nil fn is valid and simply disables notification.
func (c *Channel[T]) SetNotify(fn func()) {
	c.notify.Store(&fn)
}

// Produce is producer i's write for the current tick: store the value,
// publish validity with a release store, then invoke the notify
// callback if one is installed. Safety precondition: i is unique across
// producers — callers never call Produce concurrently for the same i.
func (c *Channel[T]) Produce(i int, val T) {
	if i < 0 || i >= len(c.cells) {
		log.Error("gather channel: producer index out of range", zap.Int("producer", i), zap.Int("producers", len(c.cells)))
		panic(errz.Construction("gather channel: producer index %d out of range [0, %d)", i, len(c.cells)))
	}
	c.cells[i].val = val
	c.cells[i].valid.Store(true)
	if fn := c.notify.Load(); fn != nil && *fn != nil {
		(*fn)()
	}
}

// Ready reports whether every producer has written for the current
// tick. The scheduler polls this (or waits on the notify callback) to
// decide when the receiver may run.
func (c *Channel[T]) Ready() bool {
	for i := range c.cells {
		if !c.cells[i].valid.Load() {
			return false
		}
	}
	return true
}

// IsAsync reports that this consumer may mark itself not-ready and
// yield the worker rather than spin (spec.md §5: "the gather consumer
// is the canonical example").
func (c *Channel[T]) IsAsync() bool { return true }

// Eval asserts Ready, then drains every producer's cell: each value is
// read out, the cell is zeroed, and the valid flag is cleared. No
// further synchronization is needed on the clear since Ready's acquire
// loads already established happens-before for every write being read
// here.
func (c *Channel[T]) Eval() []T {
	if !c.Ready() {
		panic(errz.Precondition("gather channel: Eval called before Ready"))
	}
	out := make([]T, len(c.cells))
	for i := range c.cells {
		out[i] = c.cells[i].val
		var zero T
		c.cells[i].val = zero
		c.cells[i].valid.Store(false)
	}
	return out
}

// Close tears the channel down. Per spec.md §4.K, drop asserts no slot
// is still valid (a still-valid slot means a produced value was never
// consumed); every still-valid slot's value is zeroed first regardless,
// so nothing is pinned in memory by the panic path.
func (c *Channel[T]) Close() {
	leaked := false
	for i := range c.cells {
		if c.cells[i].valid.Load() {
			leaked = true
			var zero T
			c.cells[i].val = zero
			c.cells[i].valid.Store(false)
		}
	}
	if leaked {
		log.Error("gather channel: closed with a producer slot still valid", zap.Int("producers", len(c.cells)))
		panic(errz.Precondition("gather channel: closed with a producer slot still valid"))
	}
}

// Gather evaluates ch for the current tick and sums every producer's
// batch into one consolidated batch — the receiving worker's half of
// the shard+gather round trip (spec.md §4.K: "The sum of the N batches
// is assembled into a local spine and forwarded.").
func Gather[K algebra.Key[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.Weight[R]](ch *Channel[*batch.Batch[K, V, T, R]], lower, upper algebra.Antichain[T]) *batch.Batch[K, V, T, R] {
	parts := ch.Eval()
	summer := operator.NewSummer[K, V, T, R]()
	return summer.Sum(lower, upper, parts...)
}
