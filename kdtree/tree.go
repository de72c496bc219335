// Package kdtree implements the relaxed, self-balancing k-d tree engine and
// its idle (non-balancing) sibling, plus the four traversal iterator
// families described in the specification this module realizes: in-order,
// axis-mapping, region, and neighbor (distance-ordered) iteration.
//
// The engine is grounded on geshuning-store's kdtree.go (a biogo/store
// derived k-d tree using pointer-linked Node{Point, Plane, Left, Right}),
// generalized from that teacher's float64-only, insert/nearest-only design
// into a fully generic, erase-and-rebalance-capable engine. Nodes live in a
// slot arena (kdtree/internal/arena) instead of heap pointers, per the
// "re-architecture away from pointer-rich nodes" guidance: children are
// arena.Ref integers, absent children are arena.NoRef, and the header
// sentinel occupies the reserved arena.HeaderRef slot.
package kdtree

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/sbougerel/spatial-sub000/kdtree/internal/arena"
)

// RebalancePolicy decides, given the rank and the weights of a node's left
// and right children, whether that node's subtree should be rebuilt.
type RebalancePolicy func(k, wL, wR int) bool

// LoosePolicy rebalances when the lighter side is less than half the
// heavier side, keeping depth within 2*log(n) of optimum.
func LoosePolicy(_ int, wL, wR int) bool {
	lo, hi := wL, wR
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo < hi/2
}

// TightPolicy rebalances when the two sides differ by more than the rank,
// trading more frequent rotations for a tighter depth bound.
func TightPolicy(k int, wL, wR int) bool {
	d := wL - wR
	if d < 0 {
		d = -d
	}
	return d > k
}

// PerfectPolicy rebalances whenever the two sides differ by more than one,
// maintaining near-optimal depth at the cost of the most frequent rebuilds.
func PerfectPolicy(_ int, wL, wR int) bool {
	d := wL - wR
	if d < 0 {
		d = -d
	}
	return d > 1
}

// Tree is the relaxed, self-balancing k-d tree engine. NewTree replaces a
// nil RebalancePolicy with LoosePolicy; the "idle" variant of spec §4.4,
// which never rebalances on its own and rebuilds only when Rebalance is
// called, is a Tree with no policy at all, built only by NewIdleTree (see
// IdleTree). A Tree is not safe for concurrent use; callers serialize
// externally (spec §5).
type Tree[K any, V any] struct {
	arenaA   *arena.Arena[node[V]]
	cmp      KeyCompare[K]
	keyOf    func(V) K
	rank     Rank
	kind     invariantKind
	policy   RebalancePolicy
	leftmost arena.Ref
	size     int
}

// NewTree constructs a relaxed, self-balancing tree. A nil policy defaults
// to LoosePolicy.
func NewTree[K any, V any](rank Rank, cmp KeyCompare[K], keyOf func(V) K, policy RebalancePolicy) *Tree[K, V] {
	if cmp == nil || keyOf == nil || rank == nil {
		panic("kdtree: NewTree requires a non-nil rank, comparator and key accessor")
	}
	if policy == nil {
		policy = LoosePolicy
	}
	t := &Tree[K, V]{cmp: cmp, keyOf: keyOf, rank: rank, kind: invariantRelaxed, policy: policy}
	t.arenaA = arena.New(node[V]{parent: arena.HeaderRef, left: arena.HeaderRef, right: arena.HeaderRef})
	t.leftmost = arena.HeaderRef
	return t
}

// newIdle constructs the strict-invariant, non-balancing engine backing
// IdleTree.
func newIdle[K any, V any](rank Rank, cmp KeyCompare[K], keyOf func(V) K) *Tree[K, V] {
	if cmp == nil || keyOf == nil || rank == nil {
		panic("kdtree: newIdle requires a non-nil rank, comparator and key accessor")
	}
	t := &Tree[K, V]{cmp: cmp, keyOf: keyOf, rank: rank, kind: invariantStrict, policy: nil}
	t.arenaA = arena.New(node[V]{parent: arena.HeaderRef, left: arena.HeaderRef, right: arena.HeaderRef})
	t.leftmost = arena.HeaderRef
	return t
}

// Rank returns the tree's dimension source.
func (t *Tree[K, V]) Rank() Rank { return t.rank }

// Dimension returns the tree's dimension count, a shorthand for Rank().K().
func (t *Tree[K, V]) Dimension() int { return t.rank.K() }

// KeyComp returns the tree's key comparator.
func (t *Tree[K, V]) KeyComp() KeyCompare[K] { return t.cmp }

func (t *Tree[K, V]) rootRef() arena.Ref {
	p := t.arenaA.Header().parent
	if p == arena.HeaderRef {
		return arena.NoRef
	}
	return p
}

func (t *Tree[K, V]) setRootRef(ref arena.Ref) {
	if ref == arena.NoRef {
		t.arenaA.Header().parent = arena.HeaderRef
		return
	}
	t.arenaA.Header().parent = ref
	t.arenaA.At(ref).parent = arena.HeaderRef
}

func (t *Tree[K, V]) childWeight(ref arena.Ref) int {
	if ref == arena.NoRef {
		return 0
	}
	return t.arenaA.At(ref).weight
}

// fixExtremes recomputes the leftmost tracker and the header's rightmost
// pointer by walking the all-left and all-right spines from the root. It
// is called after every structural mutation rather than maintained
// incrementally, trading a bit of work (bounded by tree depth) for freedom
// from the header-identity bookkeeping the pointer-based teacher needed.
func (t *Tree[K, V]) fixExtremes() {
	root := t.rootRef()
	if root == arena.NoRef {
		t.leftmost = arena.HeaderRef
		t.arenaA.Header().right = arena.HeaderRef
		return
	}
	ref := root
	for t.arenaA.At(ref).left != arena.NoRef {
		ref = t.arenaA.At(ref).left
	}
	t.leftmost = ref
	ref = root
	for t.arenaA.At(ref).right != arena.NoRef {
		ref = t.arenaA.At(ref).right
	}
	t.arenaA.Header().right = ref
}

// Insert creates a node for value and attaches it according to the
// splitting-dimension invariant: at each node N on the descent's current
// dimension d, the new value goes left iff it compares strictly less than
// N on d, right otherwise (spec §4.4's insertion state machine; ties go
// right uniformly for both invariant categories, which is a valid
// specialization of "relaxed invariant permits ties on either side").
// For a weighted (relaxed) tree, ancestor weights are incremented and the
// highest ancestor whose RebalancePolicy reports imbalance is rebuilt.
func (t *Tree[K, V]) Insert(value V) Iterator[K, V] {
	key := t.keyOf(value)
	k := t.rank.K()
	root := t.rootRef()

	var newRef arena.Ref
	if root == arena.NoRef {
		newRef = t.arenaA.Alloc(node[V]{parent: arena.HeaderRef, left: arena.NoRef, right: arena.NoRef, weight: 1, value: value})
		t.setRootRef(newRef)
	} else {
		ref := root
		dim := 0
		var parentRef arena.Ref
		isLeft := false
		for {
			n := t.arenaA.At(ref)
			goLeft := t.cmp.Less(dim, key, t.keyOf(n.value))
			var next arena.Ref
			if goLeft {
				next = n.left
			} else {
				next = n.right
			}
			if next == arena.NoRef {
				parentRef, isLeft = ref, goLeft
				break
			}
			ref = next
			dim = nextDim(dim, k)
		}
		newRef = t.arenaA.Alloc(node[V]{parent: parentRef, left: arena.NoRef, right: arena.NoRef, weight: 1, value: value})
		pn := t.arenaA.At(parentRef)
		if isLeft {
			pn.left = newRef
		} else {
			pn.right = newRef
		}
	}

	t.size++
	t.fixExtremes()
	if t.policy != nil {
		t.adjustWeights(t.arenaA.At(newRef).parent, 1)
	}
	return Iterator[K, V]{cursor[K, V]{tree: t, node: newRef, dim: t.recomputeDim(newRef)}}
}

// InsertAll inserts every value via repeated Insert; no bulk rebalance is
// performed (spec §4.4).
func (t *Tree[K, V]) InsertAll(values []V) {
	for _, v := range values {
		t.Insert(v)
	}
}

// adjustWeights walks from start to the header applying delta to every
// ancestor's weight (used by both Insert, delta=+1, and Erase, delta=-1),
// then rebuilds the highest ancestor for which the policy reports
// imbalance, if any.
func (t *Tree[K, V]) adjustWeights(start arena.Ref, delta int) {
	ref := start
	highest := arena.NoRef
	k := t.rank.K()
	for ref != arena.HeaderRef {
		n := t.arenaA.At(ref)
		n.weight += delta
		if t.policy(k, t.childWeight(n.left), t.childWeight(n.right)) {
			highest = ref
		}
		ref = n.parent
	}
	if highest != arena.NoRef {
		t.rebuildAt(highest)
	}
}

// collectSubtree appends the in-order sequence of refs rooted at ref.
func (t *Tree[K, V]) collectSubtree(ref arena.Ref, out *[]arena.Ref) {
	if ref == arena.NoRef {
		return
	}
	n := t.arenaA.At(ref)
	t.collectSubtree(n.left, out)
	*out = append(*out, ref)
	t.collectSubtree(n.right, out)
}

// buildBalanced builds a near-optimal subtree over the given node refs
// (reusing their arena slots rather than allocating new ones, so values
// and addresses of surviving nodes are untouched by a rebuild) by
// recursively picking the median on the current dimension, the same
// collect-sort-partition strategy spec §4.4/§9 describes for scapegoat
// rebuilds and §4.4 describes for the idle engine's explicit Rebalance.
func (t *Tree[K, V]) buildBalanced(refs []arena.Ref, dim int) arena.Ref {
	if len(refs) == 0 {
		return arena.NoRef
	}
	k := t.rank.K()
	sort.Slice(refs, func(i, j int) bool {
		ai, bi := refs[i], refs[j]
		return referenceLess(t.cmp, dim, t.keyOf(t.arenaA.At(ai).value), int32(ai), t.keyOf(t.arenaA.At(bi).value), int32(bi))
	})
	mid := len(refs) / 2
	rootRef := refs[mid]
	left := t.buildBalanced(refs[:mid], nextDim(dim, k))
	right := t.buildBalanced(refs[mid+1:], nextDim(dim, k))
	n := t.arenaA.At(rootRef)
	n.left, n.right = left, right
	if left != arena.NoRef {
		t.arenaA.At(left).parent = rootRef
	}
	if right != arena.NoRef {
		t.arenaA.At(right).parent = rootRef
	}
	n.weight = 1 + t.childWeight(left) + t.childWeight(right)
	return rootRef
}

// relinkChild attaches child as parent's left or right link (or as the
// tree root, if parent is the header).
func (t *Tree[K, V]) relinkChild(parent arena.Ref, isLeft bool, child arena.Ref) {
	if child != arena.NoRef {
		t.arenaA.At(child).parent = parent
	}
	if parent == arena.HeaderRef {
		t.setRootRef(child)
		return
	}
	pn := t.arenaA.At(parent)
	if isLeft {
		pn.left = child
	} else {
		pn.right = child
	}
}

// rebuildAt replaces the subtree rooted at ref with a balanced subtree
// built from the same node set (a scapegoat rebuild).
func (t *Tree[K, V]) rebuildAt(ref arena.Ref) {
	n := t.arenaA.At(ref)
	parent := n.parent
	isLeft := parent != arena.HeaderRef && t.arenaA.At(parent).left == ref
	dim := t.recomputeDim(ref)
	var refs []arena.Ref
	t.collectSubtree(ref, &refs)
	newRoot := t.buildBalanced(refs, dim)
	t.relinkChild(parent, isLeft, newRoot)
	t.fixExtremes()
}

// Rebalance rebuilds the entire tree into a near-optimal shape via
// collect-sort-partition, as spec §4.4 describes for the idle engine. It
// is exposed on IdleTree; Tree itself rebalances ancestor subtrees on its
// own during Insert/Erase when constructed with a non-nil policy.
func (t *Tree[K, V]) Rebalance() {
	root := t.rootRef()
	if root == arena.NoRef {
		return
	}
	var refs []arena.Ref
	t.collectSubtree(root, &refs)
	newRoot := t.buildBalanced(refs, 0)
	t.setRootRef(newRoot)
	t.fixExtremes()
}

// Erase removes the node at it. Strong exception safety is not a relevant
// concern for Erase in Go (it cannot fail once the iterator is validated,
// per spec §7): it returns ErrInvalidIterator only for a foreign or
// end/zero iterator.
//
// The node's subtree (excluding the erased node itself) is rebuilt in
// place via the same collect-sort-partition routine Rebalance uses, which
// both satisfies every splitting-dimension invariant by construction and
// realizes the documented contract that erase may invalidate iterators
// into the affected subtree (spec §4.10) without requiring a bespoke
// position-swap dance: surviving nodes keep their arena Ref and value,
// only their links move.
func (t *Tree[K, V]) Erase(it Iterator[K, V]) error {
	if it.tree != t {
		return ErrInvalidIterator
	}
	if it.node == arena.HeaderRef || it.node == arena.NoRef {
		return ErrInvalidIterator
	}
	ref := it.node
	n := t.arenaA.At(ref)
	parent := n.parent
	isLeft := parent != arena.HeaderRef && t.arenaA.At(parent).left == ref
	dim := t.recomputeDim(ref)

	var refs []arena.Ref
	t.collectSubtree(n.left, &refs)
	t.collectSubtree(n.right, &refs)
	t.arenaA.Free(ref)

	newRoot := t.buildBalanced(refs, dim)
	t.relinkChild(parent, isLeft, newRoot)
	t.size--
	t.fixExtremes()
	if t.policy != nil {
		t.adjustWeights(parent, -1)
	}
	return nil
}

// EraseKey erases every node whose key compares equal to key under the
// tree's comparator and returns the count removed.
func (t *Tree[K, V]) EraseKey(key K) int {
	count := 0
	for {
		it := t.Find(key)
		if it.End() {
			return count
		}
		_ = t.Erase(it)
		count++
	}
}

// EraseRange erases every node in [first,last) and returns the count
// removed. Because each erase may rebuild a subtree and thereby shift the
// cached splitting dimension of later iterators, the current node's
// dimension is recomputed from the header after every step rather than
// carried forward (spec §4.10).
func (t *Tree[K, V]) EraseRange(first, last Iterator[K, V]) int {
	count := 0
	cur := first
	for !cur.Equal(last) {
		next := cur
		next.Next()
		if err := t.Erase(cur); err != nil {
			return count
		}
		count++
		next.dim = t.recomputeDim(next.node)
		cur = next
	}
	return count
}

// Clear destroys all nodes and reinitializes the header.
func (t *Tree[K, V]) Clear() {
	t.arenaA.Reset(node[V]{parent: arena.HeaderRef, left: arena.HeaderRef, right: arena.HeaderRef})
	t.size = 0
	t.leftmost = arena.HeaderRef
}

// Swap exchanges the entire contents (rank, comparator, allocator/arena,
// root, leftmost/rightmost, size) of t and other. Swapping the arena
// wholesale means each tree's header identity, including header.right and
// the self-referential header.left invariant, travels with its arena and
// needs no special-casing for an empty side (spec §9's open question about
// header.right post-swap bookkeeping does not arise under this
// realization: see DESIGN.md).
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	t.arenaA, other.arenaA = other.arenaA, t.arenaA
	t.cmp, other.cmp = other.cmp, t.cmp
	t.keyOf, other.keyOf = other.keyOf, t.keyOf
	t.rank, other.rank = other.rank, t.rank
	t.kind, other.kind = other.kind, t.kind
	t.policy, other.policy = other.policy, t.policy
	t.leftmost, other.leftmost = other.leftmost, t.leftmost
	t.size, other.size = other.size, t.size
}

// findRec implements the exact-match descent of spec §4.4. A key strictly
// less than the node on the current dimension can only lie in the left
// subtree, and a strictly greater one only in the right. A key that ties
// the node on that dimension may lie on either side (Insert sends ties
// right, but a rebuild's median split can leave them on the left), so the
// search tries the left subtree, then the node, then the right subtree,
// which yields the in-order first match.
func (t *Tree[K, V]) findRec(ref arena.Ref, dim int, key K) arena.Ref {
	if ref == arena.NoRef {
		return arena.NoRef
	}
	n := t.arenaA.At(ref)
	nodeKey := t.keyOf(n.value)
	k := t.rank.K()
	nd := nextDim(dim, k)
	if t.cmp.Less(dim, key, nodeKey) {
		return t.findRec(n.left, nd, key)
	}
	if t.cmp.Less(dim, nodeKey, key) {
		return t.findRec(n.right, nd, key)
	}
	if l := t.findRec(n.left, nd, key); l != arena.NoRef {
		return l
	}
	if Equal(t.cmp, k, key, nodeKey) {
		return ref
	}
	return t.findRec(n.right, nd, key)
}

// Find returns an iterator to the first in-order node whose key compares
// equal to key, or End.
func (t *Tree[K, V]) Find(key K) Iterator[K, V] {
	ref := t.findRec(t.rootRef(), 0, key)
	if ref == arena.NoRef {
		return t.End()
	}
	return Iterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}}
}

// Len returns the number of stored values: the root's weight for a
// weighted (relaxed) tree, or a maintained counter for the idle engine.
func (t *Tree[K, V]) Len() int {
	if t.policy == nil {
		return t.size
	}
	root := t.rootRef()
	if root == arena.NoRef {
		return 0
	}
	return t.arenaA.At(root).weight
}

// Empty reports whether the tree holds no values.
func (t *Tree[K, V]) Empty() bool { return t.Len() == 0 }

// MaxSize returns the largest size representable by this engine's node
// references.
func (t *Tree[K, V]) MaxSize() int { return math.MaxInt32 }

// Equal reports whether t and other have the same size and equal values at
// every position of their axis-0 mapping sequences (spec §4.4). Values that
// tie on axis 0 are visited in each tree's own arena reference order, so
// two trees holding the same multiset can compare unequal when such ties
// were inserted in a different order.
func (t *Tree[K, V]) Equal(other *Tree[K, V]) bool {
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.MappingBegin(0), other.MappingBegin(0)
	for !a.End() && !b.End() {
		if !reflect.DeepEqual(a.Value(), b.Value()) {
			return false
		}
		a.Next()
		b.Next()
	}
	return a.End() == b.End()
}

// Compare returns -1, 0, or 1 comparing t and other first by size, then
// lexicographically over their axis-0 mapping sequences (spec §4.4).
func (t *Tree[K, V]) Compare(other *Tree[K, V]) int {
	if d := t.Len() - other.Len(); d != 0 {
		if d < 0 {
			return -1
		}
		return 1
	}
	a, b := t.MappingBegin(0), other.MappingBegin(0)
	for !a.End() && !b.End() {
		ak, bk := t.keyOf(a.Value()), other.keyOf(b.Value())
		if t.cmp.Less(0, ak, bk) {
			return -1
		}
		if other.cmp.Less(0, bk, ak) {
			return 1
		}
		a.Next()
		b.Next()
	}
	return 0
}

// String implements fmt.Stringer for debugging, printing the in-order
// sequence of keys.
func (t *Tree[K, V]) String() string {
	s := "["
	it := t.Begin()
	first := true
	for !it.End() {
		if !first {
			s += " "
		}
		first = false
		s += fmt.Sprintf("%v", t.keyOf(it.Value()))
		it.Next()
	}
	return s + "]"
}
