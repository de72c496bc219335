package cmd

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbougerel/spatial-sub000/kdtree"
	"github.com/sbougerel/spatial-sub000/pointset"
)

var insertCount int

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Time bulk insertion of random points into a point set",
	RunE: func(cmd *cobra.Command, args []string) error {
		pts := randomPoints(insertCount, dims, seed)
		set := newRandomSet()

		start := time.Now()
		set.InsertAll(pts)
		elapsed := time.Since(start)

		logger.Info("insert complete",
			"count", insertCount,
			"dims", dims,
			"elapsed", elapsed,
			"per_insert_ns", elapsed.Nanoseconds()/int64(max(insertCount, 1)),
			"tree_len", set.Len())
		return nil
	},
}

func init() {
	insertCmd.Flags().IntVar(&insertCount, "count", 10_000, "number of points to insert")
}

func newRandomSet() *pointset.Set[[]float64] {
	cmp := kdtree.FuncCompare[[]float64](func(dim int, a, b []float64) bool {
		return a[dim] < b[dim]
	})
	return pointset.NewStatic[[]float64](dims, cmp)
}

func randomPoints(count, k int, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	pts := make([][]float64, count)
	for i := range pts {
		p := make([]float64, k)
		for d := range p {
			p[d] = r.Float64() * 1000
		}
		pts[i] = p
	}
	return pts
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
