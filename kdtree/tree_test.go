package kdtree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point2 is a simple 2-d integer key used across this package's tests.
type point2 [2]int

func point2Cmp() KeyCompare[point2] {
	return FuncCompare[point2](func(dim int, a, b point2) bool {
		return a[dim] < b[dim]
	})
}

func newPoint2Tree(policy RebalancePolicy) *Tree[point2, point2] {
	return NewTree[point2, point2](NewStaticRank(2), point2Cmp(), func(p point2) point2 { return p }, policy)
}

func collectInOrder(t *Tree[point2, point2]) []point2 {
	var out []point2
	it := t.Begin()
	for !it.End() {
		out = append(out, it.Value())
		it.Next()
	}
	return out
}

func TestTreeInsertFindLen(t *testing.T) {
	tr := newPoint2Tree(nil)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}}
	tr.InsertAll(pts)

	require.Equal(t, len(pts), tr.Len())
	for _, p := range pts {
		it := tr.Find(p)
		require.False(t, it.End(), "expected to find %v", p)
		assert.Equal(t, p, it.Value())
	}
	assert.True(t, tr.Find(point2{100, 100}).End())
}

// TestTreeInOrderVisitsEveryValueOnce checks that in-order traversal is a
// permutation of the inserted values. It does not assert any single-axis
// sortedness: a multi-dimensional k-d tree's in-order walk only pivots
// around each node's own splitting dimension, so the full sequence is not
// globally sorted on any one axis (only MappingIterator guarantees that).
func TestTreeInOrderVisitsEveryValueOnce(t *testing.T) {
	tr := newPoint2Tree(nil)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}, {2, 0}}
	tr.InsertAll(pts)

	got := collectInOrder(tr)
	require.Len(t, got, len(pts))
	want := append([]point2(nil), pts...)
	sort.Slice(want, func(i, j int) bool { return want[i][0] != want[j][0] && want[i][0] < want[j][0] || (want[i][0] == want[j][0] && want[i][1] < want[j][1]) })
	sort.Slice(got, func(i, j int) bool { return got[i][0] != got[j][0] && got[i][0] < got[j][0] || (got[i][0] == got[j][0] && got[i][1] < got[j][1]) })
	assert.Equal(t, want, got)
}

func TestTreeEraseRemovesValueKeepsOthers(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}, {3, 4}}
	tr.InsertAll(pts)

	it := tr.Find(point2{8, 1})
	require.False(t, it.End())
	require.NoError(t, tr.Erase(it))

	assert.Equal(t, len(pts)-1, tr.Len())
	assert.True(t, tr.Find(point2{8, 1}).End())
	for _, p := range pts {
		if p == (point2{8, 1}) {
			continue
		}
		assert.False(t, tr.Find(p).End(), "expected %v to survive erase", p)
	}
}

func TestTreeEraseAllThenEmpty(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}}
	tr.InsertAll(pts)

	for _, p := range pts {
		n := tr.EraseKey(p)
		assert.Equal(t, 1, n)
	}
	assert.True(t, tr.Empty())
	assert.Equal(t, 0, tr.Len())
	assert.True(t, tr.Begin().End())
}

func TestTreeEraseInvalidIterator(t *testing.T) {
	a := newPoint2Tree(nil)
	b := newPoint2Tree(nil)
	a.Insert(point2{1, 1})

	assert.ErrorIs(t, a.Erase(b.End()), ErrInvalidIterator)
	assert.ErrorIs(t, a.Erase(a.End()), ErrInvalidIterator)
}

func TestTreeEraseRange(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	tr.InsertAll(pts)

	first := tr.Begin()
	last := tr.Begin()
	last.Next()
	last.Next()
	n := tr.EraseRange(first, last)

	assert.Equal(t, 2, n)
	assert.Equal(t, 3, tr.Len())
}

func TestEmptyTreeIteratorFactoriesReturnEnd(t *testing.T) {
	tr := newPoint2Tree(nil)
	assert.True(t, tr.Begin().End())
	assert.True(t, tr.RBegin().End())
	assert.True(t, tr.RBegin().Equal(tr.End()))
}

func TestTreeClear(t *testing.T) {
	tr := newPoint2Tree(nil)
	tr.InsertAll([]point2{{1, 1}, {2, 2}, {3, 3}})
	tr.Clear()
	assert.True(t, tr.Empty())
	assert.True(t, tr.Begin().End())
	tr.Insert(point2{9, 9})
	assert.Equal(t, 1, tr.Len())
}

func TestTreeSwap(t *testing.T) {
	a := newPoint2Tree(nil)
	b := newPoint2Tree(nil)
	a.InsertAll([]point2{{1, 1}, {2, 2}})
	b.Insert(point2{9, 9})

	a.Swap(b)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
	assert.False(t, a.Find(point2{9, 9}).End())
	assert.False(t, b.Find(point2{1, 1}).End())
}

func TestTreeSwapEmptySides(t *testing.T) {
	empty := newPoint2Tree(nil)
	full := newPoint2Tree(nil)
	full.InsertAll([]point2{{1, 1}, {2, 2}, {3, 3}})

	empty.Swap(full)
	assert.Equal(t, 3, empty.Len())
	assert.Equal(t, 0, full.Len())
	assert.True(t, full.Begin().End())
	assert.False(t, empty.Begin().End())

	// round-trip: swap back restores the original shapes.
	empty.Swap(full)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 3, full.Len())
}

func TestTreeEqualAndCompare(t *testing.T) {
	a := newPoint2Tree(nil)
	b := newPoint2Tree(nil)
	pts := []point2{{1, 1}, {2, 2}, {3, 3}}
	a.InsertAll(pts)
	// insert in a different order: Equal/Compare must not depend on shape.
	b.InsertAll([]point2{{3, 3}, {1, 1}, {2, 2}})

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(b))

	b.Insert(point2{4, 4})
	assert.False(t, a.Equal(b))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
}

func TestTreeRebalancePoliciesConvergeToSortedOrder(t *testing.T) {
	for _, policy := range []RebalancePolicy{LoosePolicy, TightPolicy, PerfectPolicy} {
		tr := newPoint2Tree(policy)
		pts := make([]point2, 50)
		for i := range pts {
			// inserted in strictly increasing axis-0 order: an unbalanced
			// naive insert would degenerate to a linked list.
			pts[i] = point2{i, (i * 7) % 50}
		}
		tr.InsertAll(pts)

		got := collectInOrder(tr)
		want := append([]point2(nil), pts...)
		sort.Slice(want, func(i, j int) bool { return tr.cmp.Less(0, want[i], want[j]) })
		require.Len(t, got, len(want))
		assert.Equal(t, want, collectMapping(tr.MappingBegin(0)))
	}
}

func TestTreeStringIsInOrder(t *testing.T) {
	tr := newPoint2Tree(nil)
	tr.InsertAll([]point2{{3, 3}, {1, 1}, {2, 2}})
	s := tr.String()
	assert.Equal(t, "[[1 1] [2 2] [3 3]]", s)
}

func TestIdleTreeRebalance(t *testing.T) {
	idle := NewIdleTree[point2, point2](NewStaticRank(2), point2Cmp(), func(p point2) point2 { return p })
	pts := make([]point2, 30)
	for i := range pts {
		pts[i] = point2{i, 0}
	}
	idle.InsertAll(pts)
	idle.Rebalance()

	assert.Equal(t, len(pts), idle.Len())
	got := collectInOrder(idle.Tree)
	assert.Len(t, got, len(pts))
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1][0] < got[i][0])
	}
}
