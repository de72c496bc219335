package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sbougerel/spatial-sub000/kdtree"
	"github.com/sbougerel/spatial-sub000/kdtree/metric"
)

var (
	nearestCount int
	nearestK     int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Build a point set and query its nearest and k-nearest neighbors",
	RunE: func(cmd *cobra.Command, args []string) error {
		pts := randomPoints(nearestCount, dims, seed)
		set := newRandomSet()
		set.InsertAll(pts)

		target := randomPoints(1, dims, seed+1)[0]
		m := metric.Euclidean[[]float64]{
			Coord: func(k []float64, dim int) float64 { return k[dim] },
			Dims:  dims,
		}

		logger.Info("querying", "target", target, "tree_len", set.Len())

		v, d, ok := kdtree.Nearest[[]float64, []float64, float64](set.Tree(), m, target)
		if !ok {
			return fmt.Errorf("nearest: empty tree")
		}
		fmt.Printf("nearest: %v (distance %.4f)\n", v, d)

		for i, v := range kdtree.KNearest[[]float64, []float64, float64](set.Tree(), m, target, nearestK) {
			fmt.Printf("  #%d: %v\n", i+1, v)
		}
		return nil
	},
}

func init() {
	nearestCmd.Flags().IntVar(&nearestCount, "count", 10_000, "number of points to insert before querying")
	nearestCmd.Flags().IntVar(&nearestK, "k", 5, "number of nearest neighbors to report")
}
