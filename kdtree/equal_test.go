package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualBeginFindsAllDuplicates(t *testing.T) {
	tr := newPoint2Tree(LoosePolicy)
	pts := []point2{{1, 1}, {2, 2}, {1, 1}, {3, 3}, {1, 1}}
	tr.InsertAll(pts)

	count := 0
	it := tr.EqualBegin(point2{1, 1})
	for !it.End() {
		assert.Equal(t, point2{1, 1}, it.Value())
		count++
		it.Next()
	}
	assert.Equal(t, 3, count)
}

func TestEqualBeginNoMatchIsEnd(t *testing.T) {
	tr := newPoint2Tree(nil)
	tr.InsertAll([]point2{{1, 1}, {2, 2}})
	assert.True(t, tr.EqualBegin(point2{9, 9}).End())
}
