// Package boxmap adapts kdtree.Tree to map boxes to arbitrary values,
// the map counterpart to boxset (original_source's boxmap.hpp/
// frozen_boxmap.hpp, per _INDEX.md).
package boxmap

import (
	"iter"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

// Pair is a stored (box, mapped value) entry. Box is a flat slice of
// 2*half coordinates arranged per a kdtree.BoxLayout.
type Pair[C any, M any] struct {
	Box    []C
	Mapped M
}

func keyOf[C any, M any](p Pair[C, M]) []C { return p.Box }

func cmpFor[C any](less func(a, b C) bool) kdtree.KeyCompare[[]C] {
	return kdtree.FuncCompare[[]C](func(dim int, a, b []C) bool {
		return less(a[dim], b[dim])
	})
}

// Map is a self-balancing box-to-value container.
type Map[C any, M any] struct {
	tree   *kdtree.Tree[[]C, Pair[C, M]]
	half   int
	layout kdtree.BoxLayout
	less   func(a, b C) bool
}

// New builds a Map of boxes spanning half spatial dimensions, arranged
// per layout, ordered by less, rebalanced per policy (nil defaults to
// kdtree.LoosePolicy).
func New[C any, M any](half int, layout kdtree.BoxLayout, less func(a, b C) bool, policy kdtree.RebalancePolicy) *Map[C, M] {
	rank := kdtree.NewStaticRank(2 * half)
	return &Map[C, M]{
		tree:   kdtree.NewTree[[]C, Pair[C, M]](rank, cmpFor(less), keyOf[C, M], policy),
		half:   half,
		layout: layout,
		less:   less,
	}
}

// Tree exposes the underlying engine for package-level Nearest/KNearest/
// NeighborBegin queries.
func (m *Map[C, M]) Tree() *kdtree.Tree[[]C, Pair[C, M]] { return m.tree }

// Layout returns the box layout tag this map validates boxes against.
func (m *Map[C, M]) Layout() kdtree.BoxLayout { return m.layout }

// Insert associates mapped with box, returning ErrInvalidBox if box's
// low/high bounds are inverted on any dimension.
func (m *Map[C, M]) Insert(box []C, mapped M) (kdtree.Iterator[[]C, Pair[C, M]], error) {
	if err := kdtree.CheckBox(m.less, box, m.half, m.layout); err != nil {
		return kdtree.Iterator[[]C, Pair[C, M]]{}, err
	}
	return m.tree.Insert(Pair[C, M]{Box: box, Mapped: mapped}), nil
}

// Erase removes the pair it points to.
func (m *Map[C, M]) Erase(it kdtree.Iterator[[]C, Pair[C, M]]) error { return m.tree.Erase(it) }

// Find returns an iterator to a pair whose box equals box, or End.
func (m *Map[C, M]) Find(box []C) kdtree.Iterator[[]C, Pair[C, M]] { return m.tree.Find(box) }

// At returns the mapped value for box and whether box was found.
func (m *Map[C, M]) At(box []C) (M, bool) {
	it := m.Find(box)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Len returns the number of stored pairs.
func (m *Map[C, M]) Len() int { return m.tree.Len() }

// Empty reports whether the map has no pairs.
func (m *Map[C, M]) Empty() bool { return m.tree.Empty() }

// Clear removes every pair.
func (m *Map[C, M]) Clear() { m.tree.Clear() }

// Rebalance forces a full rebuild to a perfectly balanced tree.
func (m *Map[C, M]) Rebalance() { m.tree.Rebalance() }

// All returns every pair in ascending in-order sequence.
func (m *Map[C, M]) All() iter.Seq[Pair[C, M]] { return m.tree.All() }

// Overlapping returns every stored pair whose box matches pred.
func (m *Map[C, M]) Overlapping(pred kdtree.RegionPredicate[[]C]) iter.Seq[Pair[C, M]] {
	return m.tree.RegionAll(pred)
}

// IdleMap is the non-self-balancing counterpart to Map: Insert/Erase
// never rebuild automatically, and Rebalance must be called explicitly.
type IdleMap[C any, M any] struct {
	tree   *kdtree.IdleTree[[]C, Pair[C, M]]
	half   int
	layout kdtree.BoxLayout
	less   func(a, b C) bool
}

// NewIdle builds an IdleMap of boxes spanning half spatial dimensions,
// arranged per layout, ordered by less.
func NewIdle[C any, M any](half int, layout kdtree.BoxLayout, less func(a, b C) bool) *IdleMap[C, M] {
	rank := kdtree.NewStaticRank(2 * half)
	return &IdleMap[C, M]{
		tree:   kdtree.NewIdleTree[[]C, Pair[C, M]](rank, cmpFor(less), keyOf[C, M]),
		half:   half,
		layout: layout,
		less:   less,
	}
}

// Tree exposes the underlying engine.
func (m *IdleMap[C, M]) Tree() *kdtree.Tree[[]C, Pair[C, M]] { return m.tree.Tree }

// Layout returns the box layout tag this map validates boxes against.
func (m *IdleMap[C, M]) Layout() kdtree.BoxLayout { return m.layout }

// Insert associates mapped with box without triggering a rebuild,
// returning ErrInvalidBox if box's low/high bounds are inverted on any
// dimension.
func (m *IdleMap[C, M]) Insert(box []C, mapped M) (kdtree.Iterator[[]C, Pair[C, M]], error) {
	if err := kdtree.CheckBox(m.less, box, m.half, m.layout); err != nil {
		return kdtree.Iterator[[]C, Pair[C, M]]{}, err
	}
	return m.tree.Insert(Pair[C, M]{Box: box, Mapped: mapped}), nil
}

// Erase removes the pair it points to without triggering a rebuild.
func (m *IdleMap[C, M]) Erase(it kdtree.Iterator[[]C, Pair[C, M]]) error {
	return m.tree.Erase(it)
}

// Find returns an iterator to a pair whose box equals box, or End.
func (m *IdleMap[C, M]) Find(box []C) kdtree.Iterator[[]C, Pair[C, M]] { return m.tree.Find(box) }

// At returns the mapped value for box and whether box was found.
func (m *IdleMap[C, M]) At(box []C) (M, bool) {
	it := m.Find(box)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Rebalance rebuilds the tree to a perfectly balanced shape; call after
// a batch of inserts/erases to restore query performance.
func (m *IdleMap[C, M]) Rebalance() { m.tree.Rebalance() }

// Len returns the number of stored pairs.
func (m *IdleMap[C, M]) Len() int { return m.tree.Len() }

// All returns every pair in ascending in-order sequence.
func (m *IdleMap[C, M]) All() iter.Seq[Pair[C, M]] { return m.tree.All() }

// Frozen is a read-only structural clone of a Map.
type Frozen[C any, M any] struct {
	tree *kdtree.Tree[[]C, Pair[C, M]]
}

// Freeze builds a Frozen clone of m's current pairs, rebuilt to a
// perfectly balanced shape in one pass.
func Freeze[C any, M any](m *Map[C, M]) *Frozen[C, M] {
	values := make([]Pair[C, M], 0, m.tree.Len())
	for p := range m.tree.All() {
		values = append(values, p)
	}
	idle := kdtree.NewIdleTree[[]C, Pair[C, M]](m.tree.Rank(), m.tree.KeyComp(), keyOf[C, M])
	idle.InsertAll(values)
	idle.Rebalance()
	return &Frozen[C, M]{tree: idle.Tree}
}

// Tree exposes the underlying engine for read-only queries.
func (f *Frozen[C, M]) Tree() *kdtree.Tree[[]C, Pair[C, M]] { return f.tree }

// At returns the mapped value for box and whether box was found.
func (f *Frozen[C, M]) At(box []C) (M, bool) {
	it := f.tree.Find(box)
	if it.End() {
		var zero M
		return zero, false
	}
	return it.Value().Mapped, true
}

// Len returns the number of stored pairs.
func (f *Frozen[C, M]) Len() int { return f.tree.Len() }

// All returns every pair in ascending in-order sequence.
func (f *Frozen[C, M]) All() iter.Seq[Pair[C, M]] { return f.tree.All() }
