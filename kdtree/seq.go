package kdtree

import (
	"iter"

	"github.com/sbougerel/spatial-sub000/internal/xiterseq"
)

// All returns a go1.23 range-over-func sequence over every stored value
// in ascending in-order sequence.
func (t *Tree[K, V]) All() iter.Seq[V] {
	it := t.Begin()
	return xiterseq.FromStep(func() (V, bool) {
		if it.End() {
			var zero V
			return zero, false
		}
		v := it.Value()
		it.Next()
		return v, true
	})
}

// Keys returns a sequence of the keys of every stored value, in the same
// order as All.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	it := t.Begin()
	return xiterseq.FromStep(func() (K, bool) {
		if it.End() {
			var zero K
			return zero, false
		}
		k := it.Key()
		it.Next()
		return k, true
	})
}

// MappingAll returns a sequence over every value ordered by axis.
func (t *Tree[K, V]) MappingAll(axis int) iter.Seq[V] {
	it := t.MappingBegin(axis)
	return xiterseq.FromStep(func() (V, bool) {
		if it.End() {
			var zero V
			return zero, false
		}
		v := it.Value()
		it.Next()
		return v, true
	})
}

// RegionAll returns a sequence over every value matching pred, in
// ascending in-order sequence.
func (t *Tree[K, V]) RegionAll(pred RegionPredicate[K]) iter.Seq[V] {
	it := t.RegionBegin(pred)
	return xiterseq.FromStep(func() (V, bool) {
		if it.End() {
			var zero V
			return zero, false
		}
		v := it.Value()
		it.Next()
		return v, true
	})
}

// NeighborAll returns a sequence over every value in ascending distance
// order from target under m. It is a package-level function, like
// Nearest and KNearest, since D is not a type parameter of Tree[K, V].
func NeighborAll[K any, V any, D any](t *Tree[K, V], m Metric[K, D], target K) iter.Seq[V] {
	it := NeighborBegin(t, m, target)
	return xiterseq.FromStep(func() (V, bool) {
		if it.End() {
			var zero V
			return zero, false
		}
		v := it.Value()
		it.Next()
		return v, true
	})
}
