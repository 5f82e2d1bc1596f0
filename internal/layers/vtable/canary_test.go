package vtable

import "testing"

// diffOnly satisfies ErasedDiff but not ErasedSignedDiff: its Neg is
// absent, so any value returned by another type's Neg that happens to
// be a diffOnly fails the ErasedSignedDiff assertion in NegSliceByRef.
type diffOnly int

func (e diffOnly) Equal(other Erased) bool { return e == other.(diffOnly) }
func (e diffOnly) Less(other Erased) bool  { return e < other.(diffOnly) }
func (e diffOnly) Clone() Erased           { return e }
func (e diffOnly) TypeID() TypeID          { return intID{} }
func (e diffOnly) DebugString() string     { return "diffOnly" }
func (e diffOnly) IsZero() bool            { return e == 0 }
func (e diffOnly) AddByRef(other ErasedDiff) ErasedDiff {
	return e + other.(diffOnly)
}

// brokenSigned implements ErasedSignedDiff (it has a Neg method, so it
// satisfies the interface) but its Neg returns a diffOnly rather than
// another ErasedSignedDiff, tripping NegSliceByRef's internal assertion.
type brokenSigned int

func (e brokenSigned) Equal(other Erased) bool { return e == other.(brokenSigned) }
func (e brokenSigned) Less(other Erased) bool  { return e < other.(brokenSigned) }
func (e brokenSigned) Clone() Erased           { return e }
func (e brokenSigned) TypeID() TypeID          { return intID{} }
func (e brokenSigned) DebugString() string     { return "brokenSigned" }
func (e brokenSigned) IsZero() bool            { return e == 0 }
func (e brokenSigned) AddByRef(other ErasedDiff) ErasedDiff {
	return e + other.(brokenSigned)
}
func (e brokenSigned) Neg() ErasedDiff { return diffOnly(e) }

func TestNegSliceByRefNegatesEveryWeight(t *testing.T) {
	diffs := []ErasedSignedDiff{erasedInt(3), erasedInt(-5)}
	NegSliceByRef(diffs)
	if diffs[0].(erasedInt) != -3 || diffs[1].(erasedInt) != 5 {
		t.Fatalf("unexpected negation result: %v, %v", diffs[0], diffs[1])
	}
}

func TestNegSliceByRefAbortsBeforeRepanickingOnAssertionFailure(t *testing.T) {
	var aborted bool
	orig := Abort
	Abort = func() { aborted = true }
	defer func() { Abort = orig }()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected NegSliceByRef to panic on the failed type assertion")
		}
		if !aborted {
			t.Fatal("expected Abort to run before the panic propagated")
		}
	}()

	NegSliceByRef([]ErasedSignedDiff{erasedInt(1), brokenSigned(2)})
}
