// Package exchange implements the two cross-worker communication
// primitives of the concurrency model (spec.md §4.J "Shard exchange",
// §4.K "Gather channel"): partitioning a batch by key hash across N
// worker destinations, and the lock-free rendezvous a receiving worker
// uses to collect one contribution from every producer before folding
// them into its local spine.
package exchange
