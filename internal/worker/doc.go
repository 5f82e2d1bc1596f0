// Package worker implements the N-OS-thread scheduling model of
// spec.md §5: one goroutine per worker, each driving an identical copy
// of the dataflow graph (a *circuit.Circuit) through repeated Step
// calls, communicating with its peers only through the exchange
// channels their circuits share. Ordering and suspension within a
// worker are the circuit's own concern (construction-order thunks,
// the gather consumer's blocking wait); this package owns only
// spawning, joining, per-worker panic recovery, and tick-count/
// cancellation policy.
package worker
