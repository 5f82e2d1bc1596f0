// Package zset implements the batch construction macros of spec.md §6:
// "Z-set literal", "Z-set set literal", and "Indexed Z-set literal". Go
// has no item-literal macro facility, so each is a small functional
// constructor over a map, sealing straight to a Batcher rather than
// asking a caller to hand-sort and consolidate tuples themselves.
//
// All three build untimed batches: T is instantiated at algebra.Unit,
// the one-element time already used throughout the column and ordered
// layers' own untimed tests, so a literal can seed a trace or feed an
// operator directly without a caller ever constructing an antichain by
// hand.
package zset

import (
	"github.com/dreamware/flowcore/internal/algebra"
	"github.com/dreamware/flowcore/internal/batch"
)

// ZSet builds an untimed batch directly from a key-to-weight map (the
// "Z-set literal" of spec.md §6: "{key => weight}"). Duplicate keys are
// impossible by construction since entries is a map; a zero-weight
// entry is pushed and consolidated away by Seal like any other.
func ZSet[K algebra.Key[K], R algebra.Weight[R]](entries map[K]R) *batch.Batch[K, algebra.Unit, algebra.Unit, R] {
	b := batch.NewBatcher[K, algebra.Unit, algebra.Unit, R](algebra.NewAntichain[algebra.Unit]())
	for k, w := range entries {
		b.Push(k, algebra.Unit{}, algebra.Unit{}, w)
	}
	return b.Seal(algebra.NewAntichain[algebra.Unit]())
}

// Set builds the "Z-set set literal" of spec.md §6: every key present
// with weight 1, duplicates in keys simply adding up to their
// multiplicity. Weight 1 has no generic spelling over algebra.Weight[R]
// (the interface exposes Zero/IsZero/Add, not a unit or successor), so
// Set is typed concretely over algebra.ZWeight rather than generic R.
func Set[K algebra.Key[K]](keys ...K) *batch.Batch[K, algebra.Unit, algebra.Unit, algebra.ZWeight] {
	entries := make(map[K]algebra.ZWeight, len(keys))
	for _, k := range keys {
		entries[k] = entries[k].Add(1)
	}
	return ZSet(entries)
}

// Indexed builds the "Indexed Z-set literal" of spec.md §6:
// {key => {value => weight}}, one record per (key, value) pair found
// in the nested map.
func Indexed[K algebra.Key[K], V algebra.Key[V], R algebra.Weight[R]](entries map[K]map[V]R) *batch.Batch[K, V, algebra.Unit, R] {
	b := batch.NewBatcher[K, V, algebra.Unit, R](algebra.NewAntichain[algebra.Unit]())
	for k, vs := range entries {
		for v, w := range vs {
			b.Push(k, v, algebra.Unit{}, w)
		}
	}
	return b.Seal(algebra.NewAntichain[algebra.Unit]())
}
