// Package stencil computes fixed-size nearest-neighbour support stencils for a
// 2D point cloud.
//
// Every stencil lists the n nodes closest to its centre node, the centre
// excluded, in ascending squared distance. Equal distances are ordered by
// ascending node id, so the output is reproducible for any strategy and any
// worker count.
package stencil

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/desmondroux/Updec/partitions"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrInvalidSize indicates a stencil size below one.
	ErrInvalidSize = errors.New("stencil: stencil size must be positive")
	// ErrTooFewPoints indicates fewer than n+1 points, so n neighbours excluding self cannot exist.
	ErrTooFewPoints = errors.New("stencil: not enough points for the requested stencil size")
)

// Strategy selects the neighbour search algorithm.
type Strategy int

const (
	KDTree     Strategy = iota // k-d tree, O(N log N) for the whole cloud
	BruteForce                 // all-pairs distances, O(N² log N)
)

func (s Strategy) String() string {
	switch s {
	case KDTree:
		return "KDTree"
	case BruteForce:
		return "BruteForce"
	}
	return "Unknown"
}

// ParseStrategy converts a strategy name to a Strategy. Matching is
// case-insensitive; unknown names return an error.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kdtree", "kd-tree", "tree":
		return KDTree, nil
	case "bruteforce", "brute-force", "brute", "allpairs":
		return BruteForce, nil
	}
	return KDTree, fmt.Errorf("stencil: unknown strategy %q", name)
}

// Options configures Build.
type Options struct {
	Strategy Strategy
	Workers  int // Goroutines sharing the queries; values below 2 run serially
}

// Stencils holds the support stencil of every node.
type Stencils struct {
	Size      int         // Neighbours per node
	Neighbors [][]int     // Neighbors[k] is the stencil of node k
	Distances [][]float64 // Distances[k][m] is the squared distance from k to Neighbors[k][m]
}

// Build computes the n-point stencil of every point.
func Build(points []r2.Vec, n int, opts Options) (*Stencils, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidSize, n)
	}
	if n >= len(points) {
		return nil, fmt.Errorf("%w: n=%d needs at least %d points, have %d",
			ErrTooFewPoints, n, n+1, len(points))
	}

	searcher := NewSearcher(points, opts.Strategy)
	st := &Stencils{
		Size:      n,
		Neighbors: make([][]int, len(points)),
		Distances: make([][]float64, len(points)),
	}

	if opts.Workers < 2 {
		for k := range points {
			st.Neighbors[k], st.Distances[k] = searcher.Nearest(k, n)
		}
		return st, nil
	}

	layout, err := partitions.NewPartitionBuilder(len(points), opts.Workers,
		partitions.BlockPartition).BuildPartitions()
	if err != nil {
		return nil, fmt.Errorf("failed to split stencil queries: %w", err)
	}

	// Each node's result lands in its own slot; no two workers share a node.
	var wg sync.WaitGroup
	for _, part := range layout.Partitions {
		wg.Add(1)
		go func(nodes []int) {
			defer wg.Done()
			for _, k := range nodes {
				st.Neighbors[k], st.Distances[k] = searcher.Nearest(k, n)
			}
		}(part.Nodes)
	}
	wg.Wait()

	return st, nil
}
