package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// MappingIterator walks the tree's nodes in non-decreasing order of a
// single fixed axis, independent of the tree's own splitting dimension
// sequence (spec §4.6). Only levels whose splitting dimension equals the
// iterator's axis offer pruning; other levels must be explored on both
// sides, since a k-d tree's invariant says nothing about ordering along an
// axis that isn't the current level's splitting dimension.
//
// Ties on the chosen axis are broken by arena reference order. Rebuilds
// (scapegoat or Rebalance) keep every node's reference, so that order
// survives them; an erased node's slot is reused by a later insert, so
// reference order is not always insertion order (see DESIGN.md).
type MappingIterator[K any, V any] struct {
	cursor[K, V]
	axis int
}

// Axis returns the iterator's fixed ordering axis.
func (it MappingIterator[K, V]) Axis() int { return it.axis }

// Equal reports whether it and other reference the same tree, node and
// axis.
func (it MappingIterator[K, V]) Equal(other MappingIterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node && it.axis == other.axis
}

// mappingBetter returns whichever of a, b has the smaller key on axis,
// breaking ties by arena reference for a deterministic total order.
func (t *Tree[K, V]) mappingBetter(a, b arena.Ref, axis int) arena.Ref {
	ak, bk := t.keyOf(t.arenaA.At(a).value), t.keyOf(t.arenaA.At(b).value)
	if referenceLess(t.cmp, axis, ak, int32(a), bk, int32(b)) {
		return a
	}
	return b
}

func (t *Tree[K, V]) mappingWorse(a, b arena.Ref, axis int) arena.Ref {
	ak, bk := t.keyOf(t.arenaA.At(a).value), t.keyOf(t.arenaA.At(b).value)
	if referenceLess(t.cmp, axis, ak, int32(a), bk, int32(b)) {
		return b
	}
	return a
}

// mappingMin returns the node with the smallest axis coordinate in the
// subtree rooted at ref, pruning the right branch whenever the current
// level splits on axis (the right subtree can hold nothing smaller).
func (t *Tree[K, V]) mappingMin(ref arena.Ref, dim, axis int) arena.Ref {
	if ref == arena.NoRef {
		return arena.NoRef
	}
	n := t.arenaA.At(ref)
	nd := nextDim(dim, t.rank.K())
	if dim == axis {
		if left := t.mappingMin(n.left, nd, axis); left != arena.NoRef {
			return t.mappingBetter(left, ref, axis)
		}
		return ref
	}
	best := ref
	if left := t.mappingMin(n.left, nd, axis); left != arena.NoRef {
		best = t.mappingBetter(left, best, axis)
	}
	if right := t.mappingMin(n.right, nd, axis); right != arena.NoRef {
		best = t.mappingBetter(right, best, axis)
	}
	return best
}

// mappingMax is the dual of mappingMin, pruning the left branch instead.
func (t *Tree[K, V]) mappingMax(ref arena.Ref, dim, axis int) arena.Ref {
	if ref == arena.NoRef {
		return arena.NoRef
	}
	n := t.arenaA.At(ref)
	nd := nextDim(dim, t.rank.K())
	if dim == axis {
		if right := t.mappingMax(n.right, nd, axis); right != arena.NoRef {
			return t.mappingWorse(right, ref, axis)
		}
		return ref
	}
	best := ref
	if left := t.mappingMax(n.left, nd, axis); left != arena.NoRef {
		best = t.mappingWorse(left, best, axis)
	}
	if right := t.mappingMax(n.right, nd, axis); right != arena.NoRef {
		best = t.mappingWorse(right, best, axis)
	}
	return best
}

// mappingNext finds the node whose (axis-key, ref) pair is the smallest
// one strictly greater than curRef's, by an exhaustive recursive scan
// with the same single-axis pruning mappingMin uses. This is a
// deliberately simple O(subtree size) walk rather than the amortized
// logarithmic algorithm a production implementation would use; see
// DESIGN.md.
func (t *Tree[K, V]) mappingNext(axis int, curRef arena.Ref) arena.Ref {
	curKey := t.keyOf(t.arenaA.At(curRef).value)
	k := t.rank.K()
	best := arena.NoRef
	var rec func(ref arena.Ref, dim int)
	rec = func(ref arena.Ref, dim int) {
		if ref == arena.NoRef {
			return
		}
		n := t.arenaA.At(ref)
		key := t.keyOf(n.value)
		if referenceLess(t.cmp, axis, curKey, int32(curRef), key, int32(ref)) {
			if best == arena.NoRef {
				best = ref
			} else {
				best = t.mappingBetter(ref, best, axis)
			}
		}
		nd := nextDim(dim, k)
		if dim == axis && t.cmp.Less(axis, key, curKey) {
			rec(n.right, nd)
			return
		}
		rec(n.left, nd)
		rec(n.right, nd)
	}
	rec(t.rootRef(), 0)
	return best
}

// mappingPrev is the dual of mappingNext, finding the largest node
// strictly smaller than curRef's.
func (t *Tree[K, V]) mappingPrev(axis int, curRef arena.Ref) arena.Ref {
	curKey := t.keyOf(t.arenaA.At(curRef).value)
	k := t.rank.K()
	best := arena.NoRef
	var rec func(ref arena.Ref, dim int)
	rec = func(ref arena.Ref, dim int) {
		if ref == arena.NoRef {
			return
		}
		n := t.arenaA.At(ref)
		key := t.keyOf(n.value)
		if referenceLess(t.cmp, axis, key, int32(ref), curKey, int32(curRef)) {
			if best == arena.NoRef {
				best = ref
			} else {
				best = t.mappingWorse(ref, best, axis)
			}
		}
		nd := nextDim(dim, k)
		if dim == axis && t.cmp.Less(axis, curKey, key) {
			rec(n.left, nd)
			return
		}
		rec(n.left, nd)
		rec(n.right, nd)
	}
	rec(t.rootRef(), 0)
	return best
}

// mappingLowerBound returns the smallest-axis-key node with key >= value.
func (t *Tree[K, V]) mappingLowerBound(ref arena.Ref, dim, axis int, value K) arena.Ref {
	if ref == arena.NoRef {
		return arena.NoRef
	}
	n := t.arenaA.At(ref)
	key := t.keyOf(n.value)
	nd := nextDim(dim, t.rank.K())
	exploreLeft := !(dim == axis && t.cmp.Less(axis, key, value))
	var best arena.Ref = arena.NoRef
	if exploreLeft {
		best = t.mappingLowerBound(n.left, nd, axis, value)
	}
	if !t.cmp.Less(axis, key, value) {
		if best == arena.NoRef {
			best = ref
		} else {
			best = t.mappingBetter(ref, best, axis)
		}
	}
	if right := t.mappingLowerBound(n.right, nd, axis, value); right != arena.NoRef {
		if best == arena.NoRef {
			best = right
		} else {
			best = t.mappingBetter(right, best, axis)
		}
	}
	return best
}

// mappingUpperBound returns the smallest-axis-key node with key > value.
func (t *Tree[K, V]) mappingUpperBound(ref arena.Ref, dim, axis int, value K) arena.Ref {
	if ref == arena.NoRef {
		return arena.NoRef
	}
	n := t.arenaA.At(ref)
	key := t.keyOf(n.value)
	nd := nextDim(dim, t.rank.K())
	exploreLeft := !(dim == axis && !t.cmp.Less(axis, value, key))
	var best arena.Ref = arena.NoRef
	if exploreLeft {
		best = t.mappingUpperBound(n.left, nd, axis, value)
	}
	if t.cmp.Less(axis, value, key) {
		if best == arena.NoRef {
			best = ref
		} else {
			best = t.mappingBetter(ref, best, axis)
		}
	}
	if right := t.mappingUpperBound(n.right, nd, axis, value); right != arena.NoRef {
		if best == arena.NoRef {
			best = right
		} else {
			best = t.mappingBetter(right, best, axis)
		}
	}
	return best
}

// MappingBegin returns an iterator to the node with the smallest
// coordinate on axis, or MappingEnd if the tree is empty.
func (t *Tree[K, V]) MappingBegin(axis int) MappingIterator[K, V] {
	if err := checkDim(axis, t.rank.K()); err != nil {
		panic(err)
	}
	ref := t.mappingMin(t.rootRef(), 0, axis)
	if ref == arena.NoRef {
		return t.MappingEnd(axis)
	}
	return MappingIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, axis}
}

// MappingEnd returns the past-the-end mapping iterator for axis.
func (t *Tree[K, V]) MappingEnd(axis int) MappingIterator[K, V] {
	return MappingIterator[K, V]{cursor[K, V]{tree: t, node: arena.HeaderRef, dim: t.rank.K() - 1}, axis}
}

// MappingRBegin returns an iterator to the node with the largest
// coordinate on axis.
func (t *Tree[K, V]) MappingRBegin(axis int) MappingIterator[K, V] {
	ref := t.mappingMax(t.rootRef(), 0, axis)
	if ref == arena.NoRef {
		return t.MappingEnd(axis)
	}
	return MappingIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, axis}
}

// MappingLowerBound returns an iterator to the first node (in axis order)
// whose axis coordinate is not less than value.
func (t *Tree[K, V]) MappingLowerBound(axis int, value K) MappingIterator[K, V] {
	if err := checkDim(axis, t.rank.K()); err != nil {
		panic(err)
	}
	ref := t.mappingLowerBound(t.rootRef(), 0, axis, value)
	if ref == arena.NoRef {
		return t.MappingEnd(axis)
	}
	return MappingIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, axis}
}

// MappingUpperBound returns an iterator to the first node (in axis order)
// whose axis coordinate is strictly greater than value.
func (t *Tree[K, V]) MappingUpperBound(axis int, value K) MappingIterator[K, V] {
	if err := checkDim(axis, t.rank.K()); err != nil {
		panic(err)
	}
	ref := t.mappingUpperBound(t.rootRef(), 0, axis, value)
	if ref == arena.NoRef {
		return t.MappingEnd(axis)
	}
	return MappingIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, axis}
}

// Next advances to the next node in axis order.
func (it *MappingIterator[K, V]) Next() {
	if it.End() {
		panic("kdtree: increment past mapping end")
	}
	next := it.tree.mappingNext(it.axis, it.node)
	if next == arena.NoRef {
		it.node, it.dim = arena.HeaderRef, it.tree.rank.K()-1
		return
	}
	it.node, it.dim = next, it.tree.recomputeDim(next)
}

// Prev moves to the previous node in axis order.
func (it *MappingIterator[K, V]) Prev() {
	var prevRef arena.Ref
	if it.End() {
		prevRef = it.tree.mappingMax(it.tree.rootRef(), 0, it.axis)
	} else {
		prevRef = it.tree.mappingPrev(it.axis, it.node)
	}
	if prevRef == arena.NoRef {
		panic("kdtree: decrement past mapping begin")
	}
	it.node, it.dim = prevRef, it.tree.recomputeDim(prevRef)
}
