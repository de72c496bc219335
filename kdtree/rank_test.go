package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticRankPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { NewStaticRank(0) })
	assert.Panics(t, func() { NewStaticRank(-1) })
	assert.NotPanics(t, func() { NewStaticRank(3) })
}

func TestNewDynamicRankValidates(t *testing.T) {
	_, err := NewDynamicRank(0)
	assert.ErrorIs(t, err, ErrInvalidRank)

	r, err := NewDynamicRank(4)
	require.NoError(t, err)
	assert.Equal(t, 4, r.K())
}

func TestNextDimPrevDimCycle(t *testing.T) {
	const k = 3
	assert.Equal(t, 1, nextDim(0, k))
	assert.Equal(t, 2, nextDim(1, k))
	assert.Equal(t, 0, nextDim(2, k))

	assert.Equal(t, 2, prevDim(0, k))
	assert.Equal(t, 0, prevDim(1, k))
	assert.Equal(t, 1, prevDim(2, k))
}

func TestCheckDimRange(t *testing.T) {
	assert.NoError(t, checkDim(0, 2))
	assert.NoError(t, checkDim(1, 2))
	assert.ErrorIs(t, checkDim(-1, 2), ErrInvalidDimension)
	assert.ErrorIs(t, checkDim(2, 2), ErrInvalidDimension)
}
