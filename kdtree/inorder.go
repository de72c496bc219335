package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// recomputeDim derives a node's splitting dimension from its depth by
// walking parent links to the header, since no node stores its dimension
// (spec §3). Used whenever a cursor is (re)built without a dimension
// already in hand, e.g. after Find or after an erase-triggered rebuild.
func (t *Tree[K, V]) recomputeDim(ref arena.Ref) int {
	k := t.rank.K()
	if ref == arena.HeaderRef {
		return k - 1
	}
	depth := 0
	for r := ref; r != arena.HeaderRef; r = t.arenaA.At(r).parent {
		depth++
	}
	return ((depth-1)%k + k) % k
}

// succ returns the in-order successor of ref (whose cached dimension is
// dim) and its dimension. Moving to a child always advances the
// dimension by nextDim; moving to a parent always retreats it by
// prevDim, regardless of which direction the walk takes (spec §4.9).
func (t *Tree[K, V]) succ(ref arena.Ref, dim int) (arena.Ref, int) {
	if ref == arena.HeaderRef {
		panic("kdtree: increment past end")
	}
	k := t.rank.K()
	n := t.arenaA.At(ref)
	if n.right != arena.NoRef {
		ref = n.right
		dim = nextDim(dim, k)
		for t.arenaA.At(ref).left != arena.NoRef {
			ref = t.arenaA.At(ref).left
			dim = nextDim(dim, k)
		}
		return ref, dim
	}
	for {
		p := t.arenaA.At(ref).parent
		if p == arena.HeaderRef {
			return arena.HeaderRef, k - 1
		}
		dim = prevDim(dim, k)
		if t.arenaA.At(p).left == ref {
			return p, dim
		}
		ref = p
	}
}

// pred returns the in-order predecessor of ref and its dimension. If ref
// is the header, the predecessor is the rightmost stored node.
func (t *Tree[K, V]) pred(ref arena.Ref, dim int) (arena.Ref, int) {
	k := t.rank.K()
	if ref == arena.HeaderRef {
		rm := t.arenaA.Header().right
		if rm == arena.HeaderRef {
			panic("kdtree: decrement of begin on an empty tree")
		}
		return rm, t.recomputeDim(rm)
	}
	n := t.arenaA.At(ref)
	if n.left != arena.NoRef {
		ref = n.left
		dim = nextDim(dim, k)
		for t.arenaA.At(ref).right != arena.NoRef {
			ref = t.arenaA.At(ref).right
			dim = nextDim(dim, k)
		}
		return ref, dim
	}
	for {
		p := t.arenaA.At(ref).parent
		if p == arena.HeaderRef {
			panic("kdtree: decrement past begin")
		}
		dim = prevDim(dim, k)
		if t.arenaA.At(p).right == ref {
			return p, dim
		}
		ref = p
	}
}
