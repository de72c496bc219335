package kdtree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectMapping(it MappingIterator[point2, point2]) []point2 {
	var out []point2
	for !it.End() {
		out = append(out, it.Value())
		it.Next()
	}
	return out
}

func TestMappingBeginIsGloballySortedOnAxis(t *testing.T) {
	tr := newPoint2Tree(nil)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}, {2, 0}, {6, 6}}
	tr.InsertAll(pts)

	for axis := 0; axis < 2; axis++ {
		got := collectMapping(tr.MappingBegin(axis))
		require.Len(t, got, len(pts))
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i][axis] < got[i-1][axis], "axis %d not sorted at %d: %v", axis, i, got)
		}
	}
}

func TestMappingRBeginMatchesReversedBegin(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}}
	tr.InsertAll(pts)

	forward := collectMapping(tr.MappingBegin(0))
	var backward []point2
	it := tr.MappingRBegin(0)
	for {
		backward = append(backward, it.Value())
		if it.Equal(tr.MappingBegin(0)) {
			break
		}
		it.Prev()
	}
	sort.Slice(backward, func(i, j int) bool { return backward[i][0] < backward[j][0] })
	assert.Equal(t, forward, backward)
}

func TestMappingLowerUpperBound(t *testing.T) {
	tr := newPoint2Tree(nil)
	pts := []point2{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	tr.InsertAll(pts)

	lb := tr.MappingLowerBound(0, point2{3, 3})
	require.False(t, lb.End())
	assert.Equal(t, point2{3, 3}, lb.Value())

	ub := tr.MappingUpperBound(0, point2{3, 3})
	require.False(t, ub.End())
	assert.Equal(t, point2{4, 4}, ub.Value())

	above := tr.MappingLowerBound(0, point2{100, 100})
	assert.True(t, above.End())
}

func TestMappingNextPrevRoundTrip(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{5, 5}, {2, 3}, {8, 1}, {1, 9}, {7, 7}, {2, 0}}
	tr.InsertAll(pts)

	it := tr.MappingBegin(1)
	var forward []point2
	for !it.End() {
		forward = append(forward, it.Value())
		it.Next()
	}
	// it is now MappingEnd; walk back to Begin.
	var backward []point2
	for i := 0; i < len(forward); i++ {
		it.Prev()
		backward = append(backward, it.Value())
	}
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	assert.Equal(t, forward, backward)
}

// TestMappingTieBreakStability exercises spec.md §9's open question on
// axis ties directly: every point here shares the same axis-0
// coordinate, so the only thing that can order them on that axis is the
// arena-reference tie-break. After Rebalance reshapes the tree (moving
// equal-axis-value nodes across the splitting-dimension invariant per
// DESIGN.md's Open Question 2), a full forward walk on axis 0 must still
// visit every node in ref (insertion) order -- stepping from a node whose
// axis value ties its parent's must not silently skip a sibling that
// ties on value but differs in ref.
func TestMappingTieBreakStability(t *testing.T) {
	tr := newPoint2Tree(nil)
	pts := []point2{{5, 0}, {5, 1}, {5, 2}, {5, 3}, {5, 4}}
	tr.InsertAll(pts)
	tr.Rebalance()

	got := collectMapping(tr.MappingBegin(0))
	require.Equal(t, pts, got, "axis-tied nodes must stay in ref order after a rebuild")

	var backward []point2
	it := tr.MappingRBegin(0)
	for {
		backward = append(backward, it.Value())
		if it.Equal(tr.MappingBegin(0)) {
			break
		}
		it.Prev()
	}
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	assert.Equal(t, pts, backward)
}

func TestMappingAxisEmptyTree(t *testing.T) {
	tr := newPoint2Tree(nil)
	assert.True(t, tr.MappingBegin(0).End())
	assert.True(t, tr.MappingEnd(0).End())
}
