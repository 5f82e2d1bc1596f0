// Package vtable supplies the type-erased value contract described in
// spec.md §4.A. The Rust original builds this as a plain struct of raw
// function pointers operating on unsafe.Pointer slots, because Rust has
// no universal dynamic-dispatch value type. Go already has one — the
// interface — so the idiomatic erasure here is an interface a wrapper
// type implements, not a hand-rolled vtable of unsafe pointers: the two
// are mechanically the same idea (a side table of function pointers keyed
// on a type tag), but the interface form is memory-safe and is what every
// Go column-oriented engine in practice reaches for when it needs to
// support more element types than it wants to monomorphize (see
// DESIGN.md for why plain generics, not reflection-based erasure, are
// still used for the B-L modules; this package exists only for the
// query-plan-generated circuits spec.md §9 calls out as the motivating
// use case).
package vtable

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// TypeID is the identity erased values are grouped and dispatched by:
// a fmt.Stringer whose string form names the dynamic type. TypeIDHash
// hashes that string, serving the role the Rust vtable's raw TypeId
// field does, without needing unsafe pointer casts to recover it.
type TypeID = fmt.Stringer

// Erased is the type-erased value contract: size/align are implicit in
// the concrete Go value (the runtime already tracks them), so what
// remains to erase is equality, ordering, cloning, and debug formatting —
// exactly the vtable fields spec.md §4.A lists minus the ones the Go
// runtime already provides for free (clone_into_slice, drop_in_place,
// drop_slice_in_place have no Go analogue: the GC is the drop vtable).
type Erased interface {
	// Equal reports value equality against another Erased of the same
	// dynamic type. Implementations may panic if the dynamic types
	// differ; callers should compare TypeID first when that is possible.
	Equal(other Erased) bool

	// Less reports a strict weak order against another Erased value.
	Less(other Erased) bool

	// Clone returns an independent copy.
	Clone() Erased

	// TypeID identifies the dynamic type for fast-path dispatch.
	TypeID() TypeID

	// DebugString renders a human-readable form for diagnostics.
	DebugString() string
}

// ErasedDiff extends Erased with the abelian-group operations an erased
// weight column needs: is_zero, add_by_ref, and (for signed weights)
// neg/neg_by_ref.
type ErasedDiff interface {
	Erased
	IsZero() bool
	AddByRef(other ErasedDiff) ErasedDiff
}

// ErasedSignedDiff additionally supports negation.
type ErasedSignedDiff interface {
	ErasedDiff
	Neg() ErasedDiff
}

// TypeIDHash hashes a TypeID's string form with xxhash. Compare uses it
// as an identity fast path: two values whose type_id hashes differ can
// never be Equal, so Equal is only worth calling once the hashes agree.
func TypeIDHash(id TypeID) uint64 {
	return xxhash.Sum64String(id.String())
}

// Compare orders two Erased values: 0 when their TypeIDHash values match
// and a.Equal(b) holds, -1 when a.Less(b), and 1 otherwise. There is no
// further tie-break, so two values that are neither Equal nor Less in
// either direction each compare as greater than the other.
func Compare(a, b Erased) int {
	if TypeIDHash(a.TypeID()) == TypeIDHash(b.TypeID()) && a.Equal(b) {
		return 0
	}
	if a.Less(b) {
		return -1
	}
	return 1
}
