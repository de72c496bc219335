package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// Relation describes how a key's coordinate on one dimension sits
// relative to a region predicate's bound on that dimension.
type Relation int

const (
	// RelBelow means the coordinate is entirely below the region on this
	// dimension.
	RelBelow Relation = iota
	// RelMatching means the coordinate falls within the region's bound
	// on this dimension.
	RelMatching
	// RelAbove means the coordinate is entirely above the region on this
	// dimension.
	RelAbove
)

// RegionPredicate evaluates a key's coordinate on dim against an
// orthogonal region. A node matches the region only when every dimension
// reports RelMatching; RelBelow/RelAbove on the tree's current splitting
// dimension let the region iterator prune an entire subtree, since the
// splitting invariant guarantees every descendant on one side shares the
// same relation (spec §4.7).
type RegionPredicate[K any] func(dim int, key K) Relation

// CombineAll intersects predicates: the combination matches only where
// every predicate matches. When any predicate reports Below it reports
// Below (otherwise Above when any reports Above); pruning on that side is
// safe, because every key there lies outside that predicate's region and
// so outside the intersection too.
func CombineAll[K any](preds ...RegionPredicate[K]) RegionPredicate[K] {
	return func(dim int, key K) Relation {
		anyBelow, anyAbove := false, false
		for _, p := range preds {
			switch p(dim, key) {
			case RelBelow:
				anyBelow = true
			case RelAbove:
				anyAbove = true
			}
		}
		switch {
		case anyBelow:
			return RelBelow
		case anyAbove:
			return RelAbove
		default:
			return RelMatching
		}
	}
}

// CombineAny unions predicates: the combination matches if any predicate
// matches. It can only safely report Below/Above when every predicate
// agrees on that side, since pruning a side that another predicate still
// reaches would skip real matches.
func CombineAny[K any](preds ...RegionPredicate[K]) RegionPredicate[K] {
	return func(dim int, key K) Relation {
		anyMatch, allBelow, allAbove := false, true, true
		for _, p := range preds {
			switch p(dim, key) {
			case RelMatching:
				anyMatch = true
				allBelow, allAbove = false, false
			case RelBelow:
				allAbove = false
			case RelAbove:
				allBelow = false
			}
		}
		switch {
		case anyMatch:
			return RelMatching
		case allBelow:
			return RelBelow
		case allAbove:
			return RelAbove
		default:
			return RelMatching
		}
	}
}

// CombineMost matches when at least half the predicates match, falling
// back to Matching (no pruning) whenever the predicates disagree on
// side, mirroring CombineAny's pruning-safety rule.
func CombineMost[K any](preds ...RegionPredicate[K]) RegionPredicate[K] {
	return func(dim int, key K) Relation {
		matches, allBelow, allAbove := 0, true, true
		for _, p := range preds {
			switch p(dim, key) {
			case RelMatching:
				matches++
				allBelow, allAbove = false, false
			case RelBelow:
				allAbove = false
			case RelAbove:
				allBelow = false
			}
		}
		if matches*2 >= len(preds) {
			return RelMatching
		}
		switch {
		case allBelow:
			return RelBelow
		case allAbove:
			return RelAbove
		default:
			return RelMatching
		}
	}
}

// ClosedBounds builds a region predicate for the closed box [lower,upper]
// (both ends included on every dimension). It returns ErrInvalidBounds if
// upper is less than lower on any dimension.
func ClosedBounds[K any](cmp KeyCompare[K], k int, lower, upper K) (RegionPredicate[K], error) {
	for d := 0; d < k; d++ {
		if cmp.Less(d, upper, lower) {
			return nil, ErrInvalidBounds
		}
	}
	return func(dim int, key K) Relation {
		if cmp.Less(dim, key, lower) {
			return RelBelow
		}
		if cmp.Less(dim, upper, key) {
			return RelAbove
		}
		return RelMatching
	}, nil
}

// OpenBounds builds a region predicate for the open box (lower,upper)
// (both ends excluded on every dimension). It returns ErrInvalidBounds
// unless lower is strictly less than upper on every dimension.
func OpenBounds[K any](cmp KeyCompare[K], k int, lower, upper K) (RegionPredicate[K], error) {
	for d := 0; d < k; d++ {
		if !cmp.Less(d, lower, upper) {
			return nil, ErrInvalidBounds
		}
	}
	return func(dim int, key K) Relation {
		if !cmp.Less(dim, lower, key) {
			return RelBelow
		}
		if !cmp.Less(dim, key, upper) {
			return RelAbove
		}
		return RelMatching
	}, nil
}

// HalfOpenBounds builds a region predicate for the half-open box
// [lower,upper) (lower included, upper excluded, on every dimension). It
// returns ErrInvalidBounds if upper is less than lower on any dimension.
func HalfOpenBounds[K any](cmp KeyCompare[K], k int, lower, upper K) (RegionPredicate[K], error) {
	for d := 0; d < k; d++ {
		if cmp.Less(d, upper, lower) {
			return nil, ErrInvalidBounds
		}
	}
	return func(dim int, key K) Relation {
		if cmp.Less(dim, key, lower) {
			return RelBelow
		}
		if !cmp.Less(dim, key, upper) {
			return RelAbove
		}
		return RelMatching
	}, nil
}

// MatchAll reports whether key matches pred on every dimension, i.e. the
// key lies inside the region.
func MatchAll[K any](pred RegionPredicate[K], k int, key K) bool {
	for d := 0; d < k; d++ {
		if pred(d, key) != RelMatching {
			return false
		}
	}
	return true
}

// MatchAny reports whether key matches pred on at least one dimension.
func MatchAny[K any](pred RegionPredicate[K], k int, key K) bool {
	for d := 0; d < k; d++ {
		if pred(d, key) == RelMatching {
			return true
		}
	}
	return false
}

// MatchMost reports whether key matches pred on every dimension except
// possibly excludeDim, whose relation is ignored.
func MatchMost[K any](pred RegionPredicate[K], k, excludeDim int, key K) bool {
	for d := 0; d < k; d++ {
		if d == excludeDim {
			continue
		}
		if pred(d, key) != RelMatching {
			return false
		}
	}
	return true
}

// regionMatches reports whether key matches pred on every dimension.
func (t *Tree[K, V]) regionMatches(pred RegionPredicate[K], key K) bool {
	return MatchAll(pred, t.rank.K(), key)
}

// regionWalk performs a pruned in-order traversal, calling visit on every
// node whose key fully matches pred, stopping early when visit returns
// true.
func (t *Tree[K, V]) regionWalk(ref arena.Ref, dim int, pred RegionPredicate[K], visit func(arena.Ref) bool) bool {
	if ref == arena.NoRef {
		return false
	}
	n := t.arenaA.At(ref)
	key := t.keyOf(n.value)
	rel := pred(dim, key)
	nd := nextDim(dim, t.rank.K())
	if rel != RelBelow {
		if t.regionWalk(n.left, nd, pred, visit) {
			return true
		}
	}
	if t.regionMatches(pred, key) {
		if visit(ref) {
			return true
		}
	}
	if rel != RelAbove {
		if t.regionWalk(n.right, nd, pred, visit) {
			return true
		}
	}
	return false
}

func (t *Tree[K, V]) regionFirst(pred RegionPredicate[K]) arena.Ref {
	first := arena.NoRef
	t.regionWalk(t.rootRef(), 0, pred, func(ref arena.Ref) bool {
		first = ref
		return true
	})
	return first
}

func (t *Tree[K, V]) regionLast(pred RegionPredicate[K]) arena.Ref {
	last := arena.NoRef
	t.regionWalk(t.rootRef(), 0, pred, func(ref arena.Ref) bool {
		last = ref
		return false
	})
	return last
}

func (t *Tree[K, V]) regionNext(pred RegionPredicate[K], curRef arena.Ref) arena.Ref {
	passed := false
	result := arena.NoRef
	t.regionWalk(t.rootRef(), 0, pred, func(ref arena.Ref) bool {
		if passed {
			result = ref
			return true
		}
		if ref == curRef {
			passed = true
		}
		return false
	})
	return result
}

func (t *Tree[K, V]) regionPrev(pred RegionPredicate[K], curRef arena.Ref) arena.Ref {
	last := arena.NoRef
	result := arena.NoRef
	t.regionWalk(t.rootRef(), 0, pred, func(ref arena.Ref) bool {
		if ref == curRef {
			result = last
			return true
		}
		last = ref
		return false
	})
	return result
}

// RegionIterator walks, in ascending in-order sequence, only the nodes
// whose key matches an orthogonal region predicate (spec §4.7). Like
// MappingIterator, each step is a full pruned tree walk rather than an
// amortized-logarithmic resumption; see DESIGN.md.
type RegionIterator[K any, V any] struct {
	cursor[K, V]
	pred RegionPredicate[K]
}

// Equal reports whether it and other reference the same tree and node.
func (it RegionIterator[K, V]) Equal(other RegionIterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

// Predicate returns the region predicate the iterator filters by.
func (it RegionIterator[K, V]) Predicate() RegionPredicate[K] { return it.pred }

// RegionBegin returns an iterator to the in-order first node matching
// pred, or RegionEnd if none match.
func (t *Tree[K, V]) RegionBegin(pred RegionPredicate[K]) RegionIterator[K, V] {
	ref := t.regionFirst(pred)
	if ref == arena.NoRef {
		return t.RegionEnd(pred)
	}
	return RegionIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, pred}
}

// RegionEnd returns the past-the-end region iterator for pred.
func (t *Tree[K, V]) RegionEnd(pred RegionPredicate[K]) RegionIterator[K, V] {
	return RegionIterator[K, V]{cursor[K, V]{tree: t, node: arena.HeaderRef, dim: t.rank.K() - 1}, pred}
}

// RegionRBegin returns an iterator to the in-order last node matching
// pred.
func (t *Tree[K, V]) RegionRBegin(pred RegionPredicate[K]) RegionIterator[K, V] {
	ref := t.regionLast(pred)
	if ref == arena.NoRef {
		return t.RegionEnd(pred)
	}
	return RegionIterator[K, V]{cursor[K, V]{tree: t, node: ref, dim: t.recomputeDim(ref)}, pred}
}

// Next advances to the next matching node.
func (it *RegionIterator[K, V]) Next() {
	if it.End() {
		panic("kdtree: increment past region end")
	}
	next := it.tree.regionNext(it.pred, it.node)
	if next == arena.NoRef {
		it.node, it.dim = arena.HeaderRef, it.tree.rank.K()-1
		return
	}
	it.node, it.dim = next, it.tree.recomputeDim(next)
}

// Prev moves to the previous matching node.
func (it *RegionIterator[K, V]) Prev() {
	var prevRef arena.Ref
	if it.End() {
		prevRef = it.tree.regionLast(it.pred)
	} else {
		prevRef = it.tree.regionPrev(it.pred, it.node)
	}
	if prevRef == arena.NoRef {
		panic("kdtree: decrement past region begin")
	}
	it.node, it.dim = prevRef, it.tree.recomputeDim(prevRef)
}
