package circuit

import (
	"sync"

	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
	"github.com/dreamware/flowcore/internal/exchange"
)

// Registry is the process-wide store every worker's Circuit shares for
// a run (spec.md §9 "Cross-worker coordination": "a per-worker
// monotonic sequence combined with a shared process-wide store keyed
// by that sequence"). A gather node's producers and its receiver are
// built independently — possibly in different order — on each worker's
// own copy of the graph; they rendezvous on the same exchange.Channel
// only because every worker assigns gather nodes the same sequence
// number (since every worker runs an identical copy of the same
// graph-construction code) and fetches-or-creates through this shared
// map keyed by that sequence.
type Registry[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]] struct {
	mu       sync.Mutex
	channels map[gatherDataId]*exchange.Channel[*batch.Batch[K, V, T, R]]
}

// NewRegistry returns an empty registry. One instance is constructed
// once per run and passed to every worker's circuit.New.
func NewRegistry[K exchange.HashKey[K], V algebra.Key[V], T batch.TimeKey[T], R algebra.SignedWeight[R]]() *Registry[K, V, T, R] {
	return &Registry[K, V, T, R]{channels: map[gatherDataId]*exchange.Channel[*batch.Batch[K, V, T, R]]{}}
}

// channel fetches or lazily creates the exchange.Channel for id, sized
// for numProducers. Every caller for a given id must agree on
// numProducers — the channel is allocated once, by whichever worker
// reaches this gather node first.
func (r *Registry[K, V, T, R]) channel(id gatherDataId, numProducers int) *exchange.Channel[*batch.Batch[K, V, T, R]] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channels[id]; ok {
		return ch
	}
	ch := exchange.NewChannel[*batch.Batch[K, V, T, R]](numProducers)
	r.channels[id] = ch
	return ch
}
