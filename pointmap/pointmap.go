// Package pointmap adapts kdtree.Tree into a point-keyed map: each
// stored value pairs a key with an associated mapped value, ordered by
// key only. A thin collaborator over the engine (spec.md §1).
package pointmap

import (
	"iter"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

// Pair is a stored (key, mapped value) entry.
type Pair[K any, M any] struct {
	Key    K
	Mapped M
}

func keyOf[K any, M any](p Pair[K, M]) K { return p.Key }

// Map is a self-balancing point-to-value container.
type Map[K any, M any] struct {
	tree *kdtree.Tree[K, Pair[K, M]]
}

// New builds a Map over an arbitrary Rank, comparator and balancing
// policy; policy may be nil to default to kdtree.LoosePolicy.
func New[K any, M any](rank kdtree.Rank, cmp kdtree.KeyCompare[K], policy kdtree.RebalancePolicy) *Map[K, M] {
	return &Map[K, M]{tree: kdtree.NewTree[K, Pair[K, M]](rank, cmp, keyOf[K, M], policy)}
}

// NewStatic builds a Map of known dimension k, panicking if k <= 0.
func NewStatic[K any, M any](k int, cmp kdtree.KeyCompare[K]) *Map[K, M] {
	return New[K, M](kdtree.NewStaticRank(k), cmp, nil)
}

// NewDynamic builds a Map whose dimension k is validated at runtime.
func NewDynamic[K any, M any](k int, cmp kdtree.KeyCompare[K]) (*Map[K, M], error) {
	r, err := kdtree.NewDynamicRank(k)
	if err != nil {
		return nil, err
	}
	return New[K, M](r, cmp, nil), nil
}

// Tree exposes the underlying engine for package-level Nearest/KNearest/
// NeighborBegin queries, whose distance type cannot be a Map method
// parameter.
func (m *Map[K, M]) Tree() *kdtree.Tree[K, Pair[K, M]] { return m.tree }

// Insert associates mapped with key, returning an iterator to the pair.
func (m *Map[K, M]) Insert(key K, mapped M) kdtree.Iterator[K, Pair[K, M]] {
	return m.tree.Insert(Pair[K, M]{Key: key, Mapped: mapped})
}

// Erase removes the pair it points to.
func (m *Map[K, M]) Erase(it kdtree.Iterator[K, Pair[K, M]]) error { return m.tree.Erase(it) }

// EraseKey removes every pair whose key equals key, returning the count
// removed.
func (m *Map[K, M]) EraseKey(key K) int {
	return m.tree.EraseKey(key)
}

// Find returns an iterator to a pair whose key equals key, or End.
func (m *Map[K, M]) Find(key K) kdtree.Iterator[K, Pair[K, M]] {
	return m.tree.Find(key)
}

// At returns the mapped value for key and whether key was found.
func (m *Map[K, M]) At(key K) (M, bool) {
	it := m.Find(key)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Len returns the number of pairs.
func (m *Map[K, M]) Len() int { return m.tree.Len() }

// Empty reports whether the map has no pairs.
func (m *Map[K, M]) Empty() bool { return m.tree.Empty() }

// Clear removes every pair.
func (m *Map[K, M]) Clear() { m.tree.Clear() }

// Rebalance forces a full rebuild to a perfectly balanced tree.
func (m *Map[K, M]) Rebalance() { m.tree.Rebalance() }

// All returns every pair in the tree's in-order sequence.
func (m *Map[K, M]) All() iter.Seq[Pair[K, M]] { return m.tree.All() }

// Region returns every pair whose key matches pred.
func (m *Map[K, M]) Region(pred kdtree.RegionPredicate[K]) iter.Seq[Pair[K, M]] {
	return m.tree.RegionAll(pred)
}

// IdleMap is the non-self-balancing counterpart to Map: Insert/Erase
// never rebuild automatically, and Rebalance must be called explicitly.
type IdleMap[K any, M any] struct {
	tree *kdtree.IdleTree[K, Pair[K, M]]
}

// NewIdle builds an IdleMap over rank and cmp.
func NewIdle[K any, M any](rank kdtree.Rank, cmp kdtree.KeyCompare[K]) *IdleMap[K, M] {
	return &IdleMap[K, M]{tree: kdtree.NewIdleTree[K, Pair[K, M]](rank, cmp, keyOf[K, M])}
}

// Tree exposes the underlying engine.
func (m *IdleMap[K, M]) Tree() *kdtree.Tree[K, Pair[K, M]] { return m.tree.Tree }

// Insert associates mapped with key without triggering a rebuild.
func (m *IdleMap[K, M]) Insert(key K, mapped M) kdtree.Iterator[K, Pair[K, M]] {
	return m.tree.Insert(Pair[K, M]{Key: key, Mapped: mapped})
}

// Erase removes the pair it points to without triggering a rebuild.
func (m *IdleMap[K, M]) Erase(it kdtree.Iterator[K, Pair[K, M]]) error { return m.tree.Erase(it) }

// Find returns an iterator to a pair whose key equals key, or End.
func (m *IdleMap[K, M]) Find(key K) kdtree.Iterator[K, Pair[K, M]] { return m.tree.Find(key) }

// At returns the mapped value for key and whether key was found.
func (m *IdleMap[K, M]) At(key K) (M, bool) {
	it := m.Find(key)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Rebalance rebuilds the tree to a perfectly balanced shape; call after
// a batch of inserts/erases to restore query performance.
func (m *IdleMap[K, M]) Rebalance() { m.tree.Rebalance() }

// Len returns the number of pairs.
func (m *IdleMap[K, M]) Len() int { return m.tree.Len() }

// All returns every pair in the tree's in-order sequence.
func (m *IdleMap[K, M]) All() iter.Seq[Pair[K, M]] { return m.tree.All() }

// Frozen is a read-only structural clone of a Map.
type Frozen[K any, M any] struct {
	tree *kdtree.Tree[K, Pair[K, M]]
}

// Freeze builds a Frozen clone of m's current pairs, rebuilt to a
// perfectly balanced shape in one pass.
func Freeze[K any, M any](m *Map[K, M]) *Frozen[K, M] {
	values := make([]Pair[K, M], 0, m.tree.Len())
	for p := range m.tree.All() {
		values = append(values, p)
	}
	idle := kdtree.NewIdleTree[K, Pair[K, M]](m.tree.Rank(), m.tree.KeyComp(), keyOf[K, M])
	idle.InsertAll(values)
	idle.Rebalance()
	return &Frozen[K, M]{tree: idle.Tree}
}

// Tree exposes the underlying engine for read-only queries.
func (f *Frozen[K, M]) Tree() *kdtree.Tree[K, Pair[K, M]] { return f.tree }

// At returns the mapped value for key and whether key was found.
func (f *Frozen[K, M]) At(key K) (M, bool) {
	it := f.tree.Find(key)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Len returns the number of pairs.
func (f *Frozen[K, M]) Len() int { return f.tree.Len() }

// All returns every pair in the tree's in-order sequence.
func (f *Frozen[K, M]) All() iter.Seq[Pair[K, M]] { return f.tree.All() }
