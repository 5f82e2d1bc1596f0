package circuit

import "github.com/google/uuid"

// NodeId is the origin-node identity memoization is keyed by (spec.md
// §4.L). Every stream gets one the moment it is created; uuid.New
// gives each a process-wide-unique token without a shared counter.
// Tokens are random, so corresponding streams in the copies of one graph
// that different workers build carry different ids; the cache only
// needs identity to be stable for the life of one node within one
// circuit, and cross-worker gather rendezvous is keyed by gatherDataId's
// sequence number instead.
type NodeId = uuid.UUID

func newNodeId() NodeId { return uuid.New() }

// traceId, delayedTraceId, integrateTraceId, nestedDelayedId, and
// delayedId each cache one origin node's singleton derived node: calling
// the corresponding Stream method twice on the same origin must return
// the same node (spec.md §9: "the circuit cache stores the read side
// keyed by the feedback-source node so that .delay() called twice on the
// same stream returns the same node").
type traceId struct{ origin NodeId }
type delayedTraceId struct{ origin NodeId }
type integrateTraceId struct{ origin NodeId }
type nestedDelayedId struct{ origin NodeId }
type delayedId struct{ origin NodeId }

// shardId additionally carries the partition policy, since a stream
// could in principle be sharded more than one way; this implementation
// has exactly one policy ("hash-mod-n") but the key still carries it
// per spec.md §4.L's literal `ShardId(origin, policy)` shape.
type shardId struct {
	origin NodeId
	policy string
}

// gatherId carries the receiving worker index: the same origin stream
// gathered to two different receivers is two distinct nodes.
type gatherId struct {
	origin   NodeId
	receiver int
}

// gatherDataId is worker-local and keyed by a per-worker monotonic
// sequence rather than by origin node, so that a shard's senders and a
// gather's receiver — constructed independently, possibly in different
// call order — meet on the same exchange.Channel (spec.md §4.L, §9
// "Cross-worker coordination").
type gatherDataId struct{ seq uint64 }

const hashModNPolicy = "hash-mod-n"
