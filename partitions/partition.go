package partitions

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCloud indicates a builder asked to partition zero nodes.
	ErrEmptyCloud = errors.New("partitions: node count must be positive")
	// ErrInvalidLayout indicates a layout failing its consistency checks.
	ErrInvalidLayout = errors.New("partitions: invalid layout")
)

// Partition is a set of node ids processed together by one worker, e.g. one
// goroutine building stencils or one assembler filling matrix rows.
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Node membership, ascending global node ids
	Nodes    []int
	NumNodes int // Actual number of nodes
	MaxNodes int // Largest NumNodes over the layout
}

// PartitionLayout manages the decomposition of a node cloud
type PartitionLayout struct {
	// All partitions of the cloud
	Partitions []Partition

	// Global sizing information
	NpartMax      int // max(NumNodes) across all partitions
	TotalNodes    int // Sum of all nodes across partitions
	NumPartitions int

	// Node to partition mapping
	NToP []int // Length TotalNodes: node k belongs to partition NToP[k]
}

// PartitionedArray is per-node data stored contiguously partition after partition
type PartitionedArray struct {
	// Layout: [Partition 0 Data][Partition 1 Data]...[Partition P-1 Data]
	GlobalData []float64

	// Partition p's data is GlobalData[Offsets[p]:Offsets[p+1]]
	Offsets []int

	// Number of values per node (2 for a position, 1 for a scalar field)
	Stride int
}

// GetPartition returns the partition containing node k, or -1 when k is out of range
func (pl *PartitionLayout) GetPartition(nodeID int) int {
	if nodeID < 0 || nodeID >= len(pl.NToP) {
		return -1
	}
	return pl.NToP[nodeID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("%w: %d partitions, NumPartitions %d",
			ErrInvalidLayout, len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.NToP) != pl.TotalNodes {
		return fmt.Errorf("%w: NToP length %d != TotalNodes %d",
			ErrInvalidLayout, len(pl.NToP), pl.TotalNodes)
	}

	// Verify NpartMax
	actualMax := 0
	total := 0
	for _, p := range pl.Partitions {
		if p.NumNodes > actualMax {
			actualMax = p.NumNodes
		}
		if p.MaxNodes != pl.NpartMax {
			return fmt.Errorf("%w: partition %d: MaxNodes %d != NpartMax %d",
				ErrInvalidLayout, p.ID, p.MaxNodes, pl.NpartMax)
		}
		if len(p.Nodes) != p.NumNodes {
			return fmt.Errorf("%w: partition %d lists %d nodes, NumNodes %d",
				ErrInvalidLayout, p.ID, len(p.Nodes), p.NumNodes)
		}
		for _, k := range p.Nodes {
			if pl.GetPartition(k) != p.ID {
				return fmt.Errorf("%w: node %d listed in partition %d, NToP says %d",
					ErrInvalidLayout, k, p.ID, pl.GetPartition(k))
			}
		}
		total += p.NumNodes
	}
	if actualMax != pl.NpartMax {
		return fmt.Errorf("%w: computed NpartMax %d != stored NpartMax %d",
			ErrInvalidLayout, actualMax, pl.NpartMax)
	}
	if total != pl.TotalNodes {
		return fmt.Errorf("%w: partitions hold %d nodes, TotalNodes %d",
			ErrInvalidLayout, total, pl.TotalNodes)
	}
	return nil
}

// GetPartitionData returns a slice for partition p's data
func (pa *PartitionedArray) GetPartitionData(partitionID int) []float64 {
	if partitionID < 0 || partitionID >= len(pa.Offsets)-1 {
		return nil
	}
	start := pa.Offsets[partitionID]
	end := pa.Offsets[partitionID+1]
	return pa.GlobalData[start:end]
}
