package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sbougerel/spatial-sub000/kdtree"
)

type vec2 [2]float64

func vecCoord(k vec2, dim int) float64 { return k[dim] }

func TestEuclideanDistance(t *testing.T) {
	m := Euclidean[vec2]{Coord: vecCoord, Dims: 2}
	assert.InDelta(t, 5.0, m.Distance(vec2{0, 0}, vec2{3, 4}), 1e-9)
	assert.Equal(t, 0.0, m.Zero())
	assert.True(t, m.Less(1, 2))
	assert.False(t, m.Less(2, 1))
}

func TestEuclideanPlaneDistanceNeverExceedsDistance(t *testing.T) {
	m := Euclidean[vec2]{Coord: vecCoord, Dims: 2}
	a, b := vec2{1, 2}, vec2{7, -3}
	d := m.Distance(a, b)
	for dim := 0; dim < 2; dim++ {
		assert.False(t, d < m.PlaneDistance(dim, a, b), "plane distance exceeded full distance on dim %d", dim)
	}
}

func TestQuadranceIsSquaredEuclidean(t *testing.T) {
	eu := Euclidean[vec2]{Coord: vecCoord, Dims: 2}
	qu := Quadrance[vec2]{Coord: vecCoord, Dims: 2}
	a, b := vec2{0, 0}, vec2{3, 4}
	assert.InDelta(t, math.Pow(eu.Distance(a, b), 2), qu.Distance(a, b), 1e-9)
}

func TestQuadrancePreservesOrdering(t *testing.T) {
	eu := Euclidean[vec2]{Coord: vecCoord, Dims: 2}
	qu := Quadrance[vec2]{Coord: vecCoord, Dims: 2}
	target := vec2{0, 0}
	near, far := vec2{1, 1}, vec2{5, 5}

	euNear, euFar := eu.Distance(target, near), eu.Distance(target, far)
	quNear, quFar := qu.Distance(target, near), qu.Distance(target, far)
	assert.Equal(t, euNear < euFar, quNear < quFar)
}

func TestManhattanDistance(t *testing.T) {
	m := Manhattan[vec2]{Coord: vecCoord, Dims: 2}
	assert.InDelta(t, 7.0, m.Distance(vec2{0, 0}, vec2{3, 4}), 1e-9)
}

func TestCheckedAddOverflow(t *testing.T) {
	_, err := CheckedAdd(int8(100), int8(100))
	assert.ErrorIs(t, err, ErrOverflow)

	sum, err := CheckedAdd(int8(10), int8(20))
	assert.NoError(t, err)
	assert.Equal(t, int8(30), sum)
}

func TestCheckedMulOverflow(t *testing.T) {
	_, err := CheckedMul(int8(100), int8(2))
	assert.ErrorIs(t, err, ErrOverflow)

	prod, err := CheckedMul(int8(10), int8(2))
	assert.NoError(t, err)
	assert.Equal(t, int8(20), prod)
}

func TestCheckedMulZero(t *testing.T) {
	prod, err := CheckedMul(int8(0), int8(100))
	assert.NoError(t, err)
	assert.Equal(t, int8(0), prod)
}

// TestCheckedMulFloatToleratesRounding pins the float path to the Inf
// overflow check: finite products must never be reported as overflow,
// even for operands like 0.1 or 1/3 whose product does not divide back
// to its operand exactly.
func TestCheckedMulFloatToleratesRounding(t *testing.T) {
	vals := []float64{0.1, 0.2, 0.3, 1.0 / 3.0, 5.0 / 6.0, 1e-8, 123.456, 9.87654321e7}
	for _, a := range vals {
		for _, b := range vals {
			p, err := CheckedMul(a, b)
			assert.NoError(t, err, "CheckedMul(%v, %v)", a, b)
			assert.InDelta(t, a*b, p, math.Abs(a*b)*1e-12)
		}
		sq, err := CheckedSquare(a)
		assert.NoError(t, err, "CheckedSquare(%v)", a)
		assert.InDelta(t, a*a, sq, a*a*1e-12)
	}

	_, err := CheckedMul(math.MaxFloat64, 2.0)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = CheckedSquare(math.MaxFloat64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSaferArithmeticMatchesPlainResultOnOrdinaryInput(t *testing.T) {
	// includes fractional coordinates whose squared ratios do not survive
	// a multiply-then-divide round trip, which the checked float path
	// must not mistake for overflow.
	pairs := [][2]vec2{
		{{1, 2}, {7, -3}},
		{{0.1, 1.0 / 3.0}, {0.3, 5.0 / 6.0}},
		{{-2.7, 1e-4}, {0.30000000000000004, 123.456}},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]

		eu := Euclidean[vec2]{Coord: vecCoord, Dims: 2}
		euSafe := Euclidean[vec2]{Coord: vecCoord, Dims: 2, UseSaferArithmetic: true}
		assert.InDelta(t, eu.Distance(a, b), euSafe.Distance(a, b), 1e-9)
		assert.InDelta(t, eu.PlaneDistance(0, a, b), euSafe.PlaneDistance(0, a, b), 1e-9)

		qu := Quadrance[vec2]{Coord: vecCoord, Dims: 2}
		quSafe := Quadrance[vec2]{Coord: vecCoord, Dims: 2, UseSaferArithmetic: true}
		assert.InDelta(t, qu.Distance(a, b), quSafe.Distance(a, b), 1e-9)
		assert.InDelta(t, qu.PlaneDistance(1, a, b), quSafe.PlaneDistance(1, a, b), 1e-9)

		ma := Manhattan[vec2]{Coord: vecCoord, Dims: 2}
		maSafe := Manhattan[vec2]{Coord: vecCoord, Dims: 2, UseSaferArithmetic: true}
		assert.InDelta(t, ma.Distance(a, b), maSafe.Distance(a, b), 1e-9)
		assert.InDelta(t, ma.PlaneDistance(1, a, b), maSafe.PlaneDistance(1, a, b), 1e-9)
	}
}

func TestSaferArithmeticPanicsOnOverflow(t *testing.T) {
	huge := vec2{math.MaxFloat64, 0}
	origin := vec2{0, 0}

	panics := func(fn func()) (rec any) {
		defer func() { rec = recover() }()
		fn()
		return nil
	}

	qu := Quadrance[vec2]{Coord: vecCoord, Dims: 2, UseSaferArithmetic: true}
	rec := panics(func() { qu.Distance(origin, huge) })
	if assert.NotNil(t, rec, "Quadrance.Distance should panic on overflow") {
		err, ok := rec.(error)
		assert.True(t, ok, "recovered value should be an error")
		assert.True(t, errors.Is(err, kdtree.ErrArithmetic))
		assert.True(t, errors.Is(err, ErrOverflow))
	}

	ma := Manhattan[vec2]{Coord: vecCoord, Dims: 2, UseSaferArithmetic: true}
	rec = panics(func() { ma.Distance(origin, vec2{math.MaxFloat64, math.MaxFloat64}) })
	if assert.NotNil(t, rec, "Manhattan.Distance should panic on overflow") {
		err, ok := rec.(error)
		assert.True(t, ok, "recovered value should be an error")
		assert.True(t, errors.Is(err, kdtree.ErrArithmetic))
		assert.True(t, errors.Is(err, ErrOverflow))
	}
}
