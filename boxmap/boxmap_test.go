package boxmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

func lessInt(a, b int) bool { return a < b }

func TestMapInsertRejectsInvertedBox(t *testing.T) {
	m := New[int, string](2, kdtree.LLHH, lessInt, nil)

	_, err := m.Insert([]int{5, 5, 0, 0}, "bad")
	assert.ErrorIs(t, err, kdtree.ErrInvalidBox)

	box := []int{0, 0, 5, 5}
	it, err := m.Insert(box, "ok")
	require.NoError(t, err)
	assert.False(t, it.End())
	assert.Equal(t, 1, m.Len())
}

func TestMapFindAndAt(t *testing.T) {
	m := New[int, string](2, kdtree.LLHH, lessInt, nil)
	box := []int{1, 1, 4, 4}
	_, err := m.Insert(box, "room")
	require.NoError(t, err)

	it := m.Find(box)
	require.False(t, it.End())
	assert.Equal(t, "room", it.Value().Mapped)

	v, ok := m.At(box)
	require.True(t, ok)
	assert.Equal(t, "room", v)

	_, ok = m.At([]int{9, 9, 10, 10})
	assert.False(t, ok)
}

func TestMapOverlappingFindsIntersectingBoxes(t *testing.T) {
	m := New[int, string](2, kdtree.LLHH, lessInt, kdtree.LoosePolicy)
	boxes := map[string][]int{
		"a": {0, 0, 2, 2},
		"b": {10, 10, 12, 12},
		"c": {1, 1, 3, 3},
	}
	for label, b := range boxes {
		_, err := m.Insert(b, label)
		require.NoError(t, err)
	}

	pred, err := kdtree.ClosedBounds[[]int](cmpFor(lessInt), 4, []int{0, 0, 0, 0}, []int{5, 5, 5, 5})
	require.NoError(t, err)

	var got []string
	for p := range m.Overlapping(pred) {
		got = append(got, p.Mapped)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, got)
}

func TestMapClearAndEmpty(t *testing.T) {
	m := New[int, string](2, kdtree.LLHH, lessInt, nil)
	_, err := m.Insert([]int{0, 0, 1, 1}, "x")
	require.NoError(t, err)
	m.Clear()
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())
}

func TestIdleMapRejectsInvertedBoxAndNeedsExplicitRebalance(t *testing.T) {
	idle := NewIdle[int, int](2, kdtree.LLHH, lessInt)

	_, err := idle.Insert([]int{5, 5, 0, 0}, -1)
	assert.ErrorIs(t, err, kdtree.ErrInvalidBox)

	box := []int{1, 1, 4, 4}
	_, err = idle.Insert(box, 42)
	require.NoError(t, err)
	require.Equal(t, 1, idle.Len())

	idle.Rebalance()
	assert.Equal(t, 1, idle.Len())

	v, ok := idle.At(box)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestFreezeBoxMapSnapshot(t *testing.T) {
	m := New[int, string](2, kdtree.LLHH, lessInt, nil)
	box := []int{0, 0, 1, 1}
	_, err := m.Insert(box, "frozen")
	require.NoError(t, err)

	frozen := Freeze[int, string](m)
	v, ok := frozen.At(box)
	require.True(t, ok)
	assert.Equal(t, "frozen", v)
	assert.Equal(t, 1, frozen.Len())

	_, err = m.Insert([]int{2, 2, 3, 3}, "later")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, frozen.Len())
}
