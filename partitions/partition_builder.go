package partitions

import (
	"fmt"
	"math"
	"sort"
)

// PartitionBuilder constructs partitions of a node cloud
type PartitionBuilder struct {
	NumNodes int

	// Partitioning parameters
	TargetPartitionSize int // Desired nodes per partition
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how nodes are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive node ids
	RoundRobin                              // Distribute cyclically
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "Block"
	case RoundRobin:
		return "RoundRobin"
	}
	return "Unknown"
}

// NewPartitionBuilder returns a builder splitting numNodes nodes into numPartitions
// partitions of near-equal size.
func NewPartitionBuilder(numNodes, numPartitions int, strategy PartitionStrategy) *PartitionBuilder {
	if numPartitions < 1 {
		numPartitions = 1
	}
	if numPartitions > numNodes && numNodes > 0 {
		numPartitions = numNodes
	}
	target := 1
	if numNodes > 0 {
		target = int(math.Ceil(float64(numNodes) / float64(numPartitions)))
	}
	return &PartitionBuilder{
		NumNodes:            numNodes,
		TargetPartitionSize: target,
		Strategy:            strategy,
	}
}

// BuildPartitions creates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumNodes <= 0 {
		return nil, ErrEmptyCloud
	}

	numPartitions := pb.calculateNumPartitions()
	nToP := pb.partitionNodes(numPartitions)
	partitions := pb.createPartitions(nToP, numPartitions)

	npartMax := 0
	for _, p := range partitions {
		if p.NumNodes > npartMax {
			npartMax = p.NumNodes
		}
	}
	for i := range partitions {
		partitions[i].MaxNodes = npartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		NpartMax:      npartMax,
		TotalNodes:    pb.NumNodes,
		NumPartitions: numPartitions,
		NToP:          nToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// calculateNumPartitions determines partition count from the target size
func (pb *PartitionBuilder) calculateNumPartitions() int {
	target := pb.TargetPartitionSize
	if target < 1 {
		target = pb.NumNodes
	}
	numPartitions := int(math.Ceil(float64(pb.NumNodes) / float64(target)))
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionNodes assigns nodes to partitions
func (pb *PartitionBuilder) partitionNodes(numPartitions int) []int {
	nToP := make([]int, pb.NumNodes)

	switch pb.Strategy {
	case RoundRobin:
		for i := 0; i < pb.NumNodes; i++ {
			nToP[i] = i % numPartitions
		}
	default:
		nodesPerPartition := int(math.Ceil(float64(pb.NumNodes) / float64(numPartitions)))
		for i := 0; i < pb.NumNodes; i++ {
			nToP[i] = i / nodesPerPartition
			if nToP[i] >= numPartitions {
				nToP[i] = numPartitions - 1
			}
		}
	}

	return nToP
}

// createPartitions builds partition structures from node assignments
func (pb *PartitionBuilder) createPartitions(nToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:    i,
			Nodes: make([]int, 0, pb.TargetPartitionSize),
		}
	}
	for node, part := range nToP {
		partitions[part].Nodes = append(partitions[part].Nodes, node)
		partitions[part].NumNodes++
	}
	return partitions
}

// HaloGroup lists the nodes a partition reads from one owning partition
type HaloGroup struct {
	Owner int   // Partition owning the nodes
	Nodes []int // Ascending global node ids
}

// Halo holds every off-partition node referenced by a partition's stencils.
// Assembling the rows of partition PartitionID needs the values of these nodes.
type Halo struct {
	PartitionID int
	Groups      []HaloGroup // Sorted by Owner
	Count       int         // Total halo nodes over all groups
}

// BuildHalos determines, for each partition, which stencil members live in other
// partitions. stencils[k] is the support stencil of node k.
func BuildHalos(layout *PartitionLayout, stencils [][]int) ([]Halo, error) {
	if len(stencils) != layout.TotalNodes {
		return nil, fmt.Errorf("%w: %d stencils for %d nodes",
			ErrInvalidLayout, len(stencils), layout.TotalNodes)
	}

	halos := make([]Halo, layout.NumPartitions)
	for partID, partition := range layout.Partitions {
		remote := make(map[int]map[int]struct{})
		for _, node := range partition.Nodes {
			for _, neighbor := range stencils[node] {
				owner := layout.GetPartition(neighbor)
				if owner < 0 {
					return nil, fmt.Errorf("%w: node %d references unknown node %d",
						ErrInvalidLayout, node, neighbor)
				}
				if owner == partID {
					continue
				}
				if remote[owner] == nil {
					remote[owner] = make(map[int]struct{})
				}
				remote[owner][neighbor] = struct{}{}
			}
		}

		halo := Halo{PartitionID: partID}
		for owner, set := range remote {
			nodes := make([]int, 0, len(set))
			for k := range set {
				nodes = append(nodes, k)
			}
			sort.Ints(nodes)
			halo.Groups = append(halo.Groups, HaloGroup{Owner: owner, Nodes: nodes})
			halo.Count += len(nodes)
		}
		sort.Slice(halo.Groups, func(a, b int) bool {
			return halo.Groups[a].Owner < halo.Groups[b].Owner
		})
		halos[partID] = halo
	}

	return halos, nil
}

// AllocatePartitionedArray creates contiguous storage for stride values per node,
// partition after partition
func AllocatePartitionedArray(layout *PartitionLayout, stride int) *PartitionedArray {
	offsets := make([]int, layout.NumPartitions+1)
	for i, p := range layout.Partitions {
		offsets[i+1] = offsets[i] + p.NumNodes*stride
	}
	return &PartitionedArray{
		GlobalData: make([]float64, offsets[layout.NumPartitions]),
		Offsets:    offsets,
		Stride:     stride,
	}
}
