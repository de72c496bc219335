package kdtree

// EqualPredicate returns a region predicate matching only keys equal to
// target on every dimension, built from ClosedBounds(target, target).
func EqualPredicate[K any](cmp KeyCompare[K], k int, target K) RegionPredicate[K] {
	pred, err := ClosedBounds(cmp, k, target, target)
	if err != nil {
		// lower == upper can never violate ClosedBounds' upper >= lower
		// check for a well-formed KeyCompare.
		panic(err)
	}
	return pred
}

// EqualBegin returns an iterator to the in-order first node whose key
// equals target, or EqualEnd if none match. Unlike Tree.Find, which stops
// at the first match it locates by descent, this walks every duplicate in
// ascending order. The "equal" iterator is the region iterator under the
// degenerate region whose lower and upper bounds coincide at target.
func (t *Tree[K, V]) EqualBegin(target K) RegionIterator[K, V] {
	return t.RegionBegin(EqualPredicate(t.cmp, t.rank.K(), target))
}

// EqualEnd returns the past-the-end iterator for an equal-key region.
func (t *Tree[K, V]) EqualEnd(target K) RegionIterator[K, V] {
	return t.RegionEnd(EqualPredicate(t.cmp, t.rank.K(), target))
}
