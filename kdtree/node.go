package kdtree

import "github.com/sbougerel/spatial-sub000/kdtree/internal/arena"

// node is a single stored value plus its tree links. The splitting
// dimension is not stored (spec §3): it is derived from depth, which this
// arena realization tracks implicitly via the dim cache carried by cursors
// and recomputed on descent/ascent, never stored on the node itself.
//
// weight is the subtree size. Every tree keeps it (Insert and rebuilds set
// it), but only the policy-driven trees read it for Len and rebalancing;
// idle trees track their size separately.
type node[V any] struct {
	parent, left, right arena.Ref
	weight               int
	value                V
}

// invariantKind selects between the two splitting-dimension invariants of
// spec §3. Modeled as a two-case switch rather than a generic type
// parameter per spec §9's design note: "do not try to unify the rules at
// runtime... model as a sum type", carried here as a plain enum field of
// the tree configuration instead of a type-level sum, which keeps the
// exported API to a single generic Tree type.
type invariantKind uint8

const (
	// invariantRelaxed permits equal keys on either side of a splitting
	// node (required for scapegoat rebalancing).
	invariantRelaxed invariantKind = iota
	// invariantStrict labels idle trees, whose Insert never puts equal
	// keys on the left of a splitting node. No traversal reads the label:
	// mapping and region pruning are the same for both kinds, and the
	// rebuilds done by Erase and Rebalance can leave equal keys on the left.
	invariantStrict
)
