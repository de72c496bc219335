package kdtree

import "errors"

// Sentinel errors returned at the kdtree package boundary. Each wraps
// additional context with fmt.Errorf("...: %w", ErrX) at the call site,
// following the small hand-rolled error vocabulary style used by other
// single-purpose libraries in this ecosystem rather than a generic
// panic/recover scheme.
var (
	// ErrInvalidRank is returned when a runtime rank of zero or less is
	// supplied.
	ErrInvalidRank = errors.New("kdtree: invalid rank")

	// ErrInvalidDimension is returned when an axis index is out of range
	// for the tree's rank.
	ErrInvalidDimension = errors.New("kdtree: invalid dimension")

	// ErrInvalidNode names an operation given a header or otherwise absent
	// node reference. No function in this module returns it; Erase reports
	// such input with ErrInvalidIterator.
	ErrInvalidNode = errors.New("kdtree: invalid node")

	// ErrInvalidIterator is returned when an iterator from a different
	// container, or the zero Iterator, is passed to an operation.
	ErrInvalidIterator = errors.New("kdtree: invalid iterator")

	// ErrEmptyContainer names an operation disallowed on an empty tree. No
	// function in this module returns it.
	ErrEmptyContainer = errors.New("kdtree: empty container")

	// ErrInvalidBounds is returned when lower > upper on any dimension of
	// a bounds-style region predicate.
	ErrInvalidBounds = errors.New("kdtree: invalid bounds")

	// ErrInvalidBox is returned when a box's coordinates violate the
	// ordering required by its BoxLayout tag.
	ErrInvalidBox = errors.New("kdtree: invalid box")

	// ErrNegativeDistance is returned when a negative distance bound is
	// supplied to a neighbor lower/upper bound query.
	ErrNegativeDistance = errors.New("kdtree: negative distance")

	// ErrArithmetic is the boundary error a metric's safer-arithmetic
	// mode panics with when a checked operation (kdtree/metric's
	// CheckedAdd/CheckedMul/CheckedSquare/CheckedAbs) detects overflow.
	// Metric.Distance/PlaneDistance cannot return an error without
	// breaking the Metric interface every engine call site relies on,
	// so this is surfaced as a panic carrying ErrArithmetic rather than
	// a returned error, the same tradeoff NewStaticRank makes for
	// known-bad input on a non-error-returning signature.
	ErrArithmetic = errors.New("kdtree: arithmetic error")
)
