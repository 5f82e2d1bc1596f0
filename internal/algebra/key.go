package algebra

import (
	"cmp"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key is the ordering contract every layer's key type must satisfy
// (spec.md §3: "keys is weakly sorted", "keys strictly increasing").
// Arbitrary composite keys implement Compare directly; Prim wraps any
// stdlib-ordered scalar so it can be used as a Key without boilerplate.
type Key[T any] interface {
	// Compare returns <0, 0, or >0 as the receiver is less than, equal
	// to, or greater than other.
	Compare(other T) int
}

// Prim adapts a cmp.Ordered scalar (string, int64, float64, ...) into a
// Key, so layers can be instantiated over primitive key types without
// every caller writing a Compare method by hand.
type Prim[T cmp.Ordered] struct{ Value T }

func (p Prim[T]) Compare(o Prim[T]) int { return cmp.Compare(p.Value, o.Value) }

// PrimOf wraps a scalar value as a Prim key.
func PrimOf[T cmp.Ordered](v T) Prim[T] { return Prim[T]{Value: v} }

// Hasher is the partitioning contract the shard exchange operator
// requires of a key type (spec.md §4.J: "hash(key) mod N"). It is kept
// separate from Key since most layers only ever need Compare; only the
// shard operator needs a deterministic hash too.
type Hasher[T any] interface {
	// Hash returns a partition hash for the receiver. It need not
	// relate to Compare in any way beyond both being deterministic
	// functions of the same logical value.
	Hash() uint64
}

// Hash satisfies Hasher for any Prim over a cmp.Ordered scalar. The
// value is formatted to a string and hashed with xxhash rather than
// bit-twiddling each underlying Go type, since Prim is generic over
// whatever ordered scalar the caller chose (string, the various int and
// float widths, ...) and a single textual encoding covers all of them
// uniformly.
func (p Prim[T]) Hash() uint64 {
	return xxhash.Sum64String(fmt.Sprint(p.Value))
}

var _ Hasher[Prim[string]] = Prim[string]{}
