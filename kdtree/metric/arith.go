package metric

import (
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

// ErrOverflow is returned by the checked-arithmetic helpers when an
// operation would overflow T. It is a plain sentinel; metric.go's
// safer-arithmetic Distance/PlaneDistance paths wrap it together with the
// name of the failed operation and the coarser kdtree.ErrArithmetic
// boundary sentinel when they panic, so callers can match on either.
var ErrOverflow = errors.New("metric: arithmetic overflow")

// Numeric constrains the checked-arithmetic helpers to ordered integer
// and floating-point types. A "safer arithmetic" mode needs an explicit
// identity and maximum rather than deriving one from an increment trick
// (the original C++ template library's arithmetic_constant<T> derives
// "one" via a pre-increment of a zero-initialized T, which is unsound
// for types without a meaningful ++; see DESIGN.md), so every caller of
// CheckedAdd/CheckedMul supplies its operands directly.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// CheckedAdd returns a+b, or ErrOverflow if the sum overflows T. Integer
// overflow wraps (the sum lands on the wrong side of an operand), which
// the sign comparisons below catch; float overflow instead saturates to
// +/-Inf, which the wrap check can't see since Inf is not "less than" a
// positive operand -- the explicit IsInf check catches that case.
func CheckedAdd[T Numeric](a, b T) (T, error) {
	sum := a + b
	if a > 0 && b > 0 && sum < a {
		return 0, ErrOverflow
	}
	if a < 0 && b < 0 && sum > a {
		return 0, ErrOverflow
	}
	if math.IsInf(float64(sum), 0) && !math.IsInf(float64(a), 0) && !math.IsInf(float64(b), 0) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedMul returns a*b, or ErrOverflow if the product overflows T.
// Integer overflow is caught by the division round-trip (a wrapped
// product no longer divides back to its operand); float overflow must
// instead be caught by the Inf check, since (a*b)/b != a is routinely
// true for finite floats by ordinary rounding and says nothing about
// overflow there.
func CheckedMul[T Numeric](a, b T) (T, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if isFloat[T]() {
		if math.IsInf(float64(p), 0) && !math.IsInf(float64(a), 0) && !math.IsInf(float64(b), 0) {
			return 0, ErrOverflow
		}
		return p, nil
	}
	if p/b != a {
		return 0, ErrOverflow
	}
	return p, nil
}

// isFloat reports whether T is a floating-point type: only there does
// halving one yield a nonzero value.
func isFloat[T Numeric]() bool {
	var one T = 1
	return one/2 != 0
}

// CheckedSquare returns a*a, or ErrOverflow if the product overflows T.
func CheckedSquare[T Numeric](a T) (T, error) {
	return CheckedMul(a, a)
}

// CheckedAbs returns |a|, or ErrOverflow if negating a overflows T (the
// case of a signed integer type's most negative value, which has no
// positive counterpart).
func CheckedAbs[T Numeric](a T) (T, error) {
	if a >= 0 {
		return a, nil
	}
	neg := -a
	if neg < 0 {
		return 0, ErrOverflow
	}
	return neg, nil
}
