// Command kdspace-bench exercises the kdtree engine and its surface
// containers from the command line: build a point set of random
// coordinates, time bulk insertion, and run nearest-neighbor queries
// against it. Grounded on junjiewwang-perf-analysis's cmd/cli
// structure (a thin main.go delegating to an internal cmd package).
package main

import "github.com/sbougerel/spatial-sub000/cmd/kdspace-bench/cmd"

func main() {
	cmd.Execute()
}
