package ordered

import "github.com/dreamware/flowcore/internal/algebra"

// expStep is the cap spec.md §4.C places on a single exponential-search
// probe during merge: a run of non-matching keys is copied in chunks of
// at most this many elements rather than in one unbounded slice, so a
// merge between a huge and a tiny layer can't stall a worker for an
// unbounded number of steps on the huge side alone.
const expStep = 1000

// mergeInto implements the Ordered layer's merge-by-key algorithm:
// advance whichever side holds the lesser key, exponential-searching
// ahead (capped at expStep per probe) for a run that's entirely less
// than the other side's current key and copying it as one contiguous
// range; when keys are equal, merge the two children via the builder's
// own PushMerge and keep the outer key only if that produced output.
func mergeInto[K algebra.Key[K], C Child[C], CB ChildBuilder[C]](dst *Builder[K, C, CB], a *Ord[K, C], aLo, aHi int, b *Ord[K, C], bLo, bHi int) {
	i, j := aLo, bLo
	for i < aHi && j < bHi {
		switch c := a.keys[i].Compare(b.keys[j]); {
		case c < 0:
			end := expSearchBefore(a.keys, i, aHi, b.keys[j])
			dst.CopyRange(a, i, end)
			i = end
		case c > 0:
			end := expSearchBefore(b.keys, j, bHi, a.keys[i])
			dst.CopyRange(b, j, end)
			j = end
		default:
			aLo2, aHi2 := a.Bounds(i)
			bLo2, bHi2 := b.Bounds(j)
			produced := dst.cb.PushMerge(a.vals, aLo2, aHi2, b.vals, bLo2, bHi2)
			if produced > 0 {
				dst.keys = append(dst.keys, a.keys[i])
				dst.offs = append(dst.offs, dst.cb.Len())
			}
			i++
			j++
		}
	}
	if i < aHi {
		dst.CopyRange(a, i, aHi)
	}
	if j < bHi {
		dst.CopyRange(b, j, bHi)
	}
}

// expSearchBefore returns the smallest index in (lo, hi] that is not
// known to hold a key < bound, searching in exponentially growing
// probes capped at expStep and narrowing the final window with a binary
// search. Every index in [lo, returned) is guaranteed to hold a key <
// bound.
func expSearchBefore[K algebra.Key[K]](keys []K, lo, hi int, bound K) int {
	step := 1
	windowHi := lo
	for windowHi < hi && step <= expStep && keys[windowHi].Compare(bound) < 0 {
		windowHi += step
		if windowHi > hi {
			windowHi = hi
		}
		step *= 2
	}
	if windowHi > lo+expStep {
		windowHi = lo + expStep
	}
	l, h := lo, windowHi
	for l < h {
		mid := l + (h-l)/2
		if keys[mid].Compare(bound) < 0 {
			l = mid + 1
		} else {
			h = mid
		}
	}
	return l
}

// Merge builds a new Ord combining a and b, using newChildBuilder to
// construct the fresh child builder the merge writes into.
func Merge[K algebra.Key[K], C Child[C], CB ChildBuilder[C]](a, b *Ord[K, C], newChildBuilder func() CB) *Ord[K, C] {
	dst := NewBuilder[K, C, CB](newChildBuilder())
	mergeInto(dst, a, 0, a.Len(), b, 0, b.Len())
	return dst.Done()
}
