package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// cursor is the bidirectional-iterator skeleton shared by every iterator
// family (spec §9's "a single cursor primitive shared by all four iterator
// kinds" guidance): a node reference plus its cached splitting dimension.
// The dimension is never stored on the node (node.go); each iterator kind
// keeps the cursor's dim in sync as it moves.
type cursor[K any, V any] struct {
	tree *Tree[K, V]
	node arena.Ref
	dim  int
}

// End reports whether the cursor has reached the header sentinel.
func (c cursor[K, V]) End() bool { return c.node == arena.HeaderRef }

func (c cursor[K, V]) deref() *node[V] {
	return c.tree.arenaA.At(c.node)
}

// Value returns the stored value at the cursor, panicking if End.
func (c cursor[K, V]) Value() V {
	if c.End() {
		panic("kdtree: dereference of end iterator")
	}
	return c.deref().value
}

// Key returns the key of the stored value at the cursor, panicking if End.
func (c cursor[K, V]) Key() K { return c.tree.keyOf(c.Value()) }

// Dim returns the splitting dimension of the cursor's current node.
func (c cursor[K, V]) Dim() int { return c.dim }

// Iterator walks the tree in ascending in-order (spec §4.5): left subtree,
// node, right subtree. It is the type returned by Insert, Find, Begin and
// End.
type Iterator[K any, V any] struct {
	cursor[K, V]
}

// Next advances the iterator to its in-order successor.
func (it *Iterator[K, V]) Next() {
	it.node, it.dim = it.tree.succ(it.node, it.dim)
}

// Prev moves the iterator to its in-order predecessor.
func (it *Iterator[K, V]) Prev() {
	it.node, it.dim = it.tree.pred(it.node, it.dim)
}

// Equal reports whether it and other reference the same tree and node.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

// Begin returns an iterator to the in-order first node, or End if empty.
func (t *Tree[K, V]) Begin() Iterator[K, V] {
	return Iterator[K, V]{cursor[K, V]{tree: t, node: t.leftmost, dim: t.recomputeDim(t.leftmost)}}
}

// End returns the past-the-end iterator.
func (t *Tree[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{cursor[K, V]{tree: t, node: arena.HeaderRef, dim: t.rank.K() - 1}}
}

// RBegin returns a reverse-order iterator to the in-order last node, or
// End if the tree is empty.
func (t *Tree[K, V]) RBegin() Iterator[K, V] {
	if t.Empty() {
		return t.End()
	}
	it := t.End()
	it.Prev()
	return it
}

// REnd is the past-the-beginning sentinel for reverse iteration. The
// header sentinel doubles as both "one past the last node" (End) and "one
// before the first node" (REnd), the same way a circular doubly linked
// list's single header node serves both ends.
func (t *Tree[K, V]) REnd() Iterator[K, V] {
	return t.End()
}
