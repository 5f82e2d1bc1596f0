package algebra

// Weight is the abelian group every diff column is generic over
// (spec.md §3 "Weights (diffs)"). Go values are copied rather than
// mutated through a generic interface, so the Rust contract's in-place
// add_assign and by-reference add_by_ref collapse here to an ordinary
// value-returning Add: every diff type flowcore ships (ZWeight, the
// signed-integer Z-set weight) is cheap enough to copy that the
// distinction buys nothing in Go, and the n-ary Sum operator (§4.I)
// still implements the ownership-aware accumulation order the spec
// describes — it just does so over Go values rather than references.
type Weight[R any] interface {
	comparable

	// Zero returns the additive identity.
	Zero() R

	// IsZero reports whether the receiver is the additive identity.
	IsZero() bool

	// Add returns the sum of the receiver and other.
	Add(other R) R
}

// SignedWeight extends Weight with negation, required by operators
// (Neg, retraction-producing joins) that need to invert a diff.
type SignedWeight[R any] interface {
	Weight[R]
	Neg() R
}

// ZWeight is the signed integer weight a Z-set uses: the free abelian
// group over the keys it diffs.
type ZWeight int64

func (z ZWeight) Zero() ZWeight         { return 0 }
func (z ZWeight) IsZero() bool          { return z == 0 }
func (z ZWeight) Add(other ZWeight) ZWeight { return z + other }
func (z ZWeight) Neg() ZWeight          { return -z }

var (
	_ Weight[ZWeight]       = ZWeight(0)
	_ SignedWeight[ZWeight] = ZWeight(0)
)
