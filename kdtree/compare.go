package kdtree

// KeyCompare is a per-dimension strict weak ordering over keys of type K.
// Less(dim, a, b) must be a strict weak order on coordinate dim of the
// key for every dim in [0,k). LessDims additionally supports cross-
// dimension comparisons (spec §4.2); no code in this module calls it, and
// the box-layout checks take their own comparison function.
type KeyCompare[K any] interface {
	Less(dim int, a, b K) bool
	LessDims(dimA int, a K, dimB int, b K) bool
}

// Equal reports whether a and b compare equal on every dimension under
// cmp, i.e. !less(d,a,b) && !less(d,b,a) for all d in [0,k).
func Equal[K any](cmp KeyCompare[K], k int, a, b K) bool {
	for d := 0; d < k; d++ {
		if cmp.Less(d, a, b) || cmp.Less(d, b, a) {
			return false
		}
	}
	return true
}

// FuncCompare adapts a plain per-dimension predicate into a KeyCompare.
// Its LessDims only answers same-dimension comparisons; callers needing
// true cross-dimension ordering (box layout checks) should supply their
// own KeyCompare.
type FuncCompare[K any] func(dim int, a, b K) bool

// Less implements KeyCompare.
func (f FuncCompare[K]) Less(dim int, a, b K) bool { return f(dim, a, b) }

// LessDims implements KeyCompare for same-dimension comparisons only:
// it reports false whenever dimA != dimB, claiming no order across
// axes rather than guessing one. That is NOT the strict weak
// cross-dimension order KeyCompare.LessDims promises; callers that
// actually compare across dimensions (box-layout checks order a box's
// low corner against its high corner on paired axes) must supply a
// dedicated KeyCompare. CheckBox takes its own coordinate less and
// never routes through here, which is why the box containers can be
// built on FuncCompare at all.
func (f FuncCompare[K]) LessDims(dimA int, a K, dimB int, b K) bool {
	if dimA == dimB {
		return f(dimA, a, b)
	}
	return false
}

// referenceLess breaks ties between two keys that compare equal under cmp
// on dimension d by the stable order of their arena positions, imposing a
// total order over distinct live nodes even when cmp is only a strict weak
// order (spec §4.2).
func referenceLess[K any](cmp KeyCompare[K], d int, a K, refA int32, b K, refB int32) bool {
	if cmp.Less(d, a, b) {
		return true
	}
	return refA < refB && !cmp.Less(d, b, a)
}
