package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// preorderClone copies the subtree rooted at src in t into dst's arena,
// visiting node, then left, then right -- the pre-order walk that a
// structural clone relies on (spec §4.5), since pre-order allocation lets
// every child be attached to an already-cloned parent. Returns the clone's
// ref in dst.
//
// Child refs are captured in locals before being written back: the
// recursive Alloc may grow dst's slot slice, so a pointer obtained from
// dst.arenaA.At before the recursion must not be held across it.
func (t *Tree[K, V]) preorderClone(dst *Tree[K, V], src, dstParent arena.Ref) arena.Ref {
	n := t.arenaA.At(src)
	ref := dst.arenaA.Alloc(node[V]{parent: dstParent, left: arena.NoRef, right: arena.NoRef, weight: n.weight, value: n.value})
	if l := n.left; l != arena.NoRef {
		cl := t.preorderClone(dst, l, ref)
		dst.arenaA.At(ref).left = cl
	}
	if r := n.right; r != arena.NoRef {
		cr := t.preorderClone(dst, r, ref)
		dst.arenaA.At(ref).right = cr
	}
	return ref
}

// Copy returns a structural clone of t: the same multiset of values in
// the same tree shape, with independent storage. Iterators into t remain
// valid for t only; the clone starts with no iterators outstanding.
func (t *Tree[K, V]) Copy() *Tree[K, V] {
	dst := &Tree[K, V]{cmp: t.cmp, keyOf: t.keyOf, rank: t.rank, kind: t.kind, policy: t.policy}
	dst.arenaA = arena.New(node[V]{parent: arena.HeaderRef, left: arena.HeaderRef, right: arena.HeaderRef})
	dst.leftmost = arena.HeaderRef
	if root := t.rootRef(); root != arena.NoRef {
		newRoot := t.preorderClone(dst, root, arena.HeaderRef)
		dst.setRootRef(newRoot)
	}
	dst.size = t.size
	dst.fixExtremes()
	return dst
}

// CopyRebalanced returns a clone holding the same multiset of values,
// rebuilt to a near-optimal (log-depth) shape rather than preserving t's
// structure.
func (t *Tree[K, V]) CopyRebalanced() *Tree[K, V] {
	dst := t.Copy()
	dst.Rebalance()
	return dst
}
