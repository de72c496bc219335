// Package pointset adapts kdtree.Tree into a point-keyed set: a value IS
// its own key, ordered across k dimensions. It is a thin collaborator
// over the engine, not a reimplementation of it (spec.md §1).
package pointset

import (
	"iter"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

func identity[K any](k K) K { return k }

// Set is a self-balancing, point-keyed container: Insert/Erase trigger
// the engine's scapegoat rebuild per its RebalancePolicy.
type Set[K any] struct {
	tree *kdtree.Tree[K, K]
}

// New builds a Set over an arbitrary Rank, comparator and balancing
// policy; policy may be nil to default to kdtree.LoosePolicy.
func New[K any](rank kdtree.Rank, cmp kdtree.KeyCompare[K], policy kdtree.RebalancePolicy) *Set[K] {
	return &Set[K]{tree: kdtree.NewTree[K, K](rank, cmp, identity[K], policy)}
}

// NewStatic builds a Set of known dimension k, panicking if k <= 0 (see
// kdtree.NewStaticRank).
func NewStatic[K any](k int, cmp kdtree.KeyCompare[K]) *Set[K] {
	return New[K](kdtree.NewStaticRank(k), cmp, nil)
}

// NewDynamic builds a Set whose dimension k is validated at runtime.
func NewDynamic[K any](k int, cmp kdtree.KeyCompare[K]) (*Set[K], error) {
	r, err := kdtree.NewDynamicRank(k)
	if err != nil {
		return nil, err
	}
	return New[K](r, cmp, nil), nil
}

// Tree exposes the underlying engine for callers that need the
// package-level Nearest/KNearest/NeighborBegin functions, which cannot
// be methods on Set since their distance type is not one of Set's type
// parameters.
func (s *Set[K]) Tree() *kdtree.Tree[K, K] { return s.tree }

// Insert adds k and returns an iterator to it.
func (s *Set[K]) Insert(k K) kdtree.Iterator[K, K] { return s.tree.Insert(k) }

// InsertAll adds every element of ks.
func (s *Set[K]) InsertAll(ks []K) { s.tree.InsertAll(ks) }

// Erase removes the element it points to.
func (s *Set[K]) Erase(it kdtree.Iterator[K, K]) error { return s.tree.Erase(it) }

// EraseKey removes every element equal to k, returning the count removed.
func (s *Set[K]) EraseKey(k K) int { return s.tree.EraseKey(k) }

// Find returns an iterator to an element equal to k, or End if none.
func (s *Set[K]) Find(k K) kdtree.Iterator[K, K] { return s.tree.Find(k) }

// Contains reports whether k is a member of the set.
func (s *Set[K]) Contains(k K) bool { return !s.tree.Find(k).End() }

// Len returns the number of elements.
func (s *Set[K]) Len() int { return s.tree.Len() }

// Empty reports whether the set has no elements.
func (s *Set[K]) Empty() bool { return s.tree.Empty() }

// Clear removes every element.
func (s *Set[K]) Clear() { s.tree.Clear() }

// Rebalance forces a full rebuild to a perfectly balanced tree.
func (s *Set[K]) Rebalance() { s.tree.Rebalance() }

// All returns every element in ascending in-order sequence.
func (s *Set[K]) All() iter.Seq[K] { return s.tree.All() }

// Region returns every element matching pred.
func (s *Set[K]) Region(pred kdtree.RegionPredicate[K]) iter.Seq[K] { return s.tree.RegionAll(pred) }

// IdleSet is the non-self-balancing counterpart to Set: Insert/Erase
// never rebuild automatically, and Rebalance must be called explicitly
// (spec.md §1's "idle" family, mirrored here the way original_source's
// idle_boxset.hpp mirrors boxset.hpp for boxes).
type IdleSet[K any] struct {
	tree *kdtree.IdleTree[K, K]
}

// NewIdle builds an IdleSet over rank and cmp.
func NewIdle[K any](rank kdtree.Rank, cmp kdtree.KeyCompare[K]) *IdleSet[K] {
	return &IdleSet[K]{tree: kdtree.NewIdleTree[K, K](rank, cmp, identity[K])}
}

// Tree exposes the underlying engine.
func (s *IdleSet[K]) Tree() *kdtree.Tree[K, K] { return s.tree.Tree }

// Insert adds k without triggering a rebuild.
func (s *IdleSet[K]) Insert(k K) kdtree.Iterator[K, K] { return s.tree.Insert(k) }

// InsertAll adds every element of ks without triggering a rebuild.
func (s *IdleSet[K]) InsertAll(ks []K) { s.tree.InsertAll(ks) }

// Erase removes the element it points to without triggering a rebuild.
func (s *IdleSet[K]) Erase(it kdtree.Iterator[K, K]) error { return s.tree.Erase(it) }

// Rebalance rebuilds the tree to a perfectly balanced shape; call after
// a batch of inserts/erases to restore query performance.
func (s *IdleSet[K]) Rebalance() { s.tree.Rebalance() }

// Len returns the number of elements.
func (s *IdleSet[K]) Len() int { return s.tree.Len() }

// All returns every element in ascending in-order sequence.
func (s *IdleSet[K]) All() iter.Seq[K] { return s.tree.All() }

// Frozen is a read-only structural clone of a Set, built once and never
// mutated again (original_source's frozen_pointset.hpp): no Insert or
// Erase method exists on this type.
type Frozen[K any] struct {
	tree *kdtree.Tree[K, K]
}

// Freeze builds a Frozen clone of s's current elements, rebuilt to a
// perfectly balanced shape in one pass (the same construction path
// geshuning-store's New takes from a sort.Interface-like input).
func Freeze[K any](s *Set[K]) *Frozen[K] {
	values := make([]K, 0, s.tree.Len())
	for v := range s.tree.All() {
		values = append(values, v)
	}
	idle := kdtree.NewIdleTree[K, K](s.tree.Rank(), s.tree.KeyComp(), identity[K])
	idle.InsertAll(values)
	idle.Rebalance()
	return &Frozen[K]{tree: idle.Tree}
}

// Tree exposes the underlying engine for read-only queries.
func (f *Frozen[K]) Tree() *kdtree.Tree[K, K] { return f.tree }

// Find returns an iterator to an element equal to k, or End if none.
func (f *Frozen[K]) Find(k K) kdtree.Iterator[K, K] { return f.tree.Find(k) }

// Contains reports whether k is a member of the frozen set.
func (f *Frozen[K]) Contains(k K) bool { return !f.tree.Find(k).End() }

// Len returns the number of elements.
func (f *Frozen[K]) Len() int { return f.tree.Len() }

// All returns every element in ascending in-order sequence.
func (f *Frozen[K]) All() iter.Seq[K] { return f.tree.All() }
