package boxset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

func lessInt(a, b int) bool { return a < b }

func TestSetInsertRejectsInvertedBox(t *testing.T) {
	s := New[int](2, kdtree.LLHH, lessInt, nil)

	_, err := s.Insert([]int{5, 5, 0, 0})
	assert.ErrorIs(t, err, kdtree.ErrInvalidBox)

	it, err := s.Insert([]int{0, 0, 5, 5})
	require.NoError(t, err)
	assert.False(t, it.End())
	assert.Equal(t, 1, s.Len())
}

func TestSetFindExactBox(t *testing.T) {
	s := New[int](2, kdtree.LLHH, lessInt, nil)
	box := []int{1, 1, 4, 4}
	_, err := s.Insert(box)
	require.NoError(t, err)

	it := s.Find(box)
	require.False(t, it.End())
	assert.Equal(t, box, it.Value())
}

func TestSetOverlappingFindsIntersectingBoxes(t *testing.T) {
	s := New[int](2, kdtree.LLHH, lessInt, kdtree.LoosePolicy)
	boxes := [][]int{
		{0, 0, 2, 2},
		{10, 10, 12, 12},
		{1, 1, 3, 3},
	}
	for _, b := range boxes {
		_, err := s.Insert(b)
		require.NoError(t, err)
	}

	// query region: low coords in [0,5], high coords in [0,5] (LLHH layout
	// over a 4-d key [lo0,lo1,hi0,hi1]).
	pred, err := kdtree.ClosedBounds[[]int](cmpFor(lessInt), 4, []int{0, 0, 0, 0}, []int{5, 5, 5, 5})
	require.NoError(t, err)

	var got [][]int
	for b := range s.Overlapping(pred) {
		got = append(got, b)
	}
	assert.Len(t, got, 2)
}

func TestIdleSetRejectsInvertedBoxAndNeedsExplicitRebalance(t *testing.T) {
	idle := NewIdle[int](2, kdtree.LLHH, lessInt)

	_, err := idle.Insert([]int{5, 5, 0, 0})
	assert.ErrorIs(t, err, kdtree.ErrInvalidBox)

	box := []int{1, 1, 4, 4}
	_, err = idle.Insert(box)
	require.NoError(t, err)
	require.Equal(t, 1, idle.Len())

	idle.Rebalance()
	assert.Equal(t, 1, idle.Len())
	assert.False(t, idle.Find(box).End())
}

func TestFreezeBoxSetSnapshot(t *testing.T) {
	s := New[int](2, kdtree.LLHH, lessInt, nil)
	box := []int{0, 0, 1, 1}
	_, err := s.Insert(box)
	require.NoError(t, err)

	frozen := Freeze[int](s)
	assert.Equal(t, 1, frozen.Len())
	assert.False(t, frozen.Find(box).End())
}
