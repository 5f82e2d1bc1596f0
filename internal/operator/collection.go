// Package operator implements the circuit's stateful dataflow operators
// (spec.md §4.G–§4.I): the Z⁻¹ delay pair, the trace-append pair, and
// n-ary sum/negation over batches.
package operator

// Collection is the contract the Z⁻¹ operators need from whatever value
// type they delay: a way to tell an empty collection from a non-empty
// one, for the fixedpoint checks spec.md §4.G describes in terms of
// "zero entries". batch.Batch already exposes IsEmpty, so any batch
// instantiation satisfies this with no adapter needed.
type Collection interface {
	IsEmpty() bool
}
