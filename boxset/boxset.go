// Package boxset adapts kdtree.Tree to store boxes rather than points,
// supplementing spec.md with the box containers original_source ships
// (boxset.hpp/boxmap.hpp/frozen_boxset.hpp/idle_boxset.hpp, per
// _INDEX.md). A box is a single flat key of 2*half coordinates -- half
// low bounds and half high bounds, arranged per a kdtree.BoxLayout --
// so overlap and containment queries are ordinary kdtree region queries
// over a 2*half-dimensional point.
package boxset

import (
	"iter"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

func identity[C any](k []C) []C { return k }

func cmpFor[C any](less func(a, b C) bool) kdtree.KeyCompare[[]C] {
	return kdtree.FuncCompare[[]C](func(dim int, a, b []C) bool {
		return less(a[dim], b[dim])
	})
}

// Set is a self-balancing box container. half is the number of spatial
// dimensions a box spans (not the tree's rank, which is 2*half); layout
// says where each dimension's low/high coordinate lives in a box's flat
// key.
type Set[C any] struct {
	tree   *kdtree.Tree[[]C, []C]
	half   int
	layout kdtree.BoxLayout
	less   func(a, b C) bool
}

// New builds a Set of boxes spanning half spatial dimensions, arranged
// per layout, ordered by less, rebalanced per policy (nil defaults to
// kdtree.LoosePolicy). Panics if half <= 0 (kdtree.NewStaticRank's
// contract, since the tree's rank is derived as 2*half).
func New[C any](half int, layout kdtree.BoxLayout, less func(a, b C) bool, policy kdtree.RebalancePolicy) *Set[C] {
	rank := kdtree.NewStaticRank(2 * half)
	return &Set[C]{
		tree:   kdtree.NewTree[[]C, []C](rank, cmpFor(less), identity[C], policy),
		half:   half,
		layout: layout,
		less:   less,
	}
}

// Tree exposes the underlying engine for package-level Nearest/KNearest/
// NeighborBegin queries.
func (s *Set[C]) Tree() *kdtree.Tree[[]C, []C] { return s.tree }

// Layout returns the box layout tag this set validates boxes against.
func (s *Set[C]) Layout() kdtree.BoxLayout { return s.layout }

// Insert adds box (a flat slice of 2*half coordinates), returning
// ErrInvalidBox if its low/high bounds are inverted on any dimension.
func (s *Set[C]) Insert(box []C) (kdtree.Iterator[[]C, []C], error) {
	if err := kdtree.CheckBox(s.less, box, s.half, s.layout); err != nil {
		return kdtree.Iterator[[]C, []C]{}, err
	}
	return s.tree.Insert(box), nil
}

// Erase removes the box it points to.
func (s *Set[C]) Erase(it kdtree.Iterator[[]C, []C]) error { return s.tree.Erase(it) }

// Find returns an iterator to a box equal to box, or End.
func (s *Set[C]) Find(box []C) kdtree.Iterator[[]C, []C] { return s.tree.Find(box) }

// Len returns the number of stored boxes.
func (s *Set[C]) Len() int { return s.tree.Len() }

// Empty reports whether the set has no boxes.
func (s *Set[C]) Empty() bool { return s.tree.Empty() }

// Clear removes every box.
func (s *Set[C]) Clear() { s.tree.Clear() }

// Rebalance forces a full rebuild to a perfectly balanced tree.
func (s *Set[C]) Rebalance() { s.tree.Rebalance() }

// All returns every box in ascending in-order sequence.
func (s *Set[C]) All() iter.Seq[[]C] { return s.tree.All() }

// Overlapping returns every stored box whose region (per pred, built
// over the 2*half-dimensional box key) matches the query.
func (s *Set[C]) Overlapping(pred kdtree.RegionPredicate[[]C]) iter.Seq[[]C] {
	return s.tree.RegionAll(pred)
}

// IdleSet is the non-self-balancing counterpart to Set: Insert/Erase
// never rebuild automatically, and Rebalance must be called explicitly.
type IdleSet[C any] struct {
	tree   *kdtree.IdleTree[[]C, []C]
	half   int
	layout kdtree.BoxLayout
	less   func(a, b C) bool
}

// NewIdle builds an IdleSet of boxes spanning half spatial dimensions,
// arranged per layout, ordered by less. Panics if half <= 0.
func NewIdle[C any](half int, layout kdtree.BoxLayout, less func(a, b C) bool) *IdleSet[C] {
	rank := kdtree.NewStaticRank(2 * half)
	return &IdleSet[C]{
		tree:   kdtree.NewIdleTree[[]C, []C](rank, cmpFor(less), identity[C]),
		half:   half,
		layout: layout,
		less:   less,
	}
}

// Tree exposes the underlying engine.
func (s *IdleSet[C]) Tree() *kdtree.Tree[[]C, []C] { return s.tree.Tree }

// Layout returns the box layout tag this set validates boxes against.
func (s *IdleSet[C]) Layout() kdtree.BoxLayout { return s.layout }

// Insert adds box without triggering a rebuild, returning ErrInvalidBox
// if its low/high bounds are inverted on any dimension.
func (s *IdleSet[C]) Insert(box []C) (kdtree.Iterator[[]C, []C], error) {
	if err := kdtree.CheckBox(s.less, box, s.half, s.layout); err != nil {
		return kdtree.Iterator[[]C, []C]{}, err
	}
	return s.tree.Insert(box), nil
}

// Erase removes the box it points to without triggering a rebuild.
func (s *IdleSet[C]) Erase(it kdtree.Iterator[[]C, []C]) error { return s.tree.Erase(it) }

// Find returns an iterator to a box equal to box, or End.
func (s *IdleSet[C]) Find(box []C) kdtree.Iterator[[]C, []C] { return s.tree.Find(box) }

// Rebalance rebuilds the tree to a perfectly balanced shape; call after
// a batch of inserts/erases to restore query performance.
func (s *IdleSet[C]) Rebalance() { s.tree.Rebalance() }

// Len returns the number of stored boxes.
func (s *IdleSet[C]) Len() int { return s.tree.Len() }

// All returns every box in ascending in-order sequence.
func (s *IdleSet[C]) All() iter.Seq[[]C] { return s.tree.All() }

// Frozen is a read-only structural clone of a Set.
type Frozen[C any] struct {
	tree   *kdtree.Tree[[]C, []C]
	half   int
	layout kdtree.BoxLayout
}

// Freeze builds a Frozen clone of s's current boxes, rebuilt to a
// perfectly balanced shape in one pass.
func Freeze[C any](s *Set[C]) *Frozen[C] {
	values := make([][]C, 0, s.tree.Len())
	for v := range s.tree.All() {
		values = append(values, v)
	}
	idle := kdtree.NewIdleTree[[]C, []C](s.tree.Rank(), s.tree.KeyComp(), identity[C])
	idle.InsertAll(values)
	idle.Rebalance()
	return &Frozen[C]{tree: idle.Tree, half: s.half, layout: s.layout}
}

// Tree exposes the underlying engine for read-only queries.
func (f *Frozen[C]) Tree() *kdtree.Tree[[]C, []C] { return f.tree }

// Find returns an iterator to a box equal to box, or End.
func (f *Frozen[C]) Find(box []C) kdtree.Iterator[[]C, []C] { return f.tree.Find(box) }

// Len returns the number of stored boxes.
func (f *Frozen[C]) Len() int { return f.tree.Len() }

// All returns every box in ascending in-order sequence.
func (f *Frozen[C]) All() iter.Seq[[]C] { return f.tree.All() }
