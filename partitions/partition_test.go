package partitions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildPartitions_Block verifies consecutive ids land in the same partition
func TestBuildPartitions_Block(t *testing.T) {
	layout, err := NewPartitionBuilder(35, 4, BlockPartition).BuildPartitions()
	require.NoError(t, err)
	require.NoError(t, layout.ValidateLayout())

	assert.Equal(t, 4, layout.NumPartitions)
	assert.Equal(t, 35, layout.TotalNodes)
	assert.Equal(t, 9, layout.NpartMax)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, layout.Partitions[0].Nodes)
	assert.Equal(t, []int{27, 28, 29, 30, 31, 32, 33, 34}, layout.Partitions[3].Nodes)
	assert.Equal(t, 3, layout.GetPartition(34))
	assert.Equal(t, -1, layout.GetPartition(35))
}

// TestBuildPartitions_RoundRobin verifies cyclic distribution
func TestBuildPartitions_RoundRobin(t *testing.T) {
	layout, err := NewPartitionBuilder(10, 3, RoundRobin).BuildPartitions()
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 6, 9}, layout.Partitions[0].Nodes)
	assert.Equal(t, []int{1, 4, 7}, layout.Partitions[1].Nodes)
	assert.Equal(t, []int{2, 5, 8}, layout.Partitions[2].Nodes)
	for k := 0; k < 10; k++ {
		assert.Equal(t, k%3, layout.GetPartition(k))
	}
}

// TestBuildPartitions_NoEmptyPartitions checks that no request yields an empty partition
func TestBuildPartitions_NoEmptyPartitions(t *testing.T) {
	for _, strategy := range []PartitionStrategy{BlockPartition, RoundRobin} {
		for n := 1; n <= 40; n++ {
			for p := 1; p <= 12; p++ {
				layout, err := NewPartitionBuilder(n, p, strategy).BuildPartitions()
				require.NoError(t, err, "n=%d p=%d %v", n, p, strategy)
				for _, part := range layout.Partitions {
					if part.NumNodes == 0 {
						t.Fatalf("n=%d p=%d %v: partition %d is empty", n, p, strategy, part.ID)
					}
				}
			}
		}
	}
}

func TestBuildPartitions_Empty(t *testing.T) {
	_, err := NewPartitionBuilder(0, 2, BlockPartition).BuildPartitions()
	if !errors.Is(err, ErrEmptyCloud) {
		t.Errorf("BuildPartitions() error = %v; want %v", err, ErrEmptyCloud)
	}
}

func TestValidateLayout_DetectsMismatch(t *testing.T) {
	layout, err := NewPartitionBuilder(6, 2, BlockPartition).BuildPartitions()
	require.NoError(t, err)

	layout.NToP[0] = 1
	assert.ErrorIs(t, layout.ValidateLayout(), ErrInvalidLayout)

	layout, err = NewPartitionBuilder(6, 2, BlockPartition).BuildPartitions()
	require.NoError(t, err)
	layout.Partitions[1].MaxNodes = 7
	assert.ErrorIs(t, layout.ValidateLayout(), ErrInvalidLayout)
}

// TestBuildHalos uses a path graph 0-1-2-3-4-5 where every node's stencil is
// its two path neighbours (ends use the next two nodes).
func TestBuildHalos(t *testing.T) {
	stencils := [][]int{
		{1, 2},
		{0, 2},
		{1, 3},
		{2, 4},
		{3, 5},
		{4, 3},
	}
	layout, err := NewPartitionBuilder(6, 3, BlockPartition).BuildPartitions()
	require.NoError(t, err)

	halos, err := BuildHalos(layout, stencils)
	require.NoError(t, err)
	require.Len(t, halos, 3)

	// Partition 0 = {0,1} reads node 2 from partition 1
	assert.Equal(t, []HaloGroup{{Owner: 1, Nodes: []int{2}}}, halos[0].Groups)
	assert.Equal(t, 1, halos[0].Count)

	// Partition 1 = {2,3} reads 1 from partition 0 and 4 from partition 2
	assert.Equal(t, []HaloGroup{
		{Owner: 0, Nodes: []int{1}},
		{Owner: 2, Nodes: []int{4}},
	}, halos[1].Groups)

	// Partition 2 = {4,5} reads 3 from partition 1
	assert.Equal(t, []HaloGroup{{Owner: 1, Nodes: []int{3}}}, halos[2].Groups)
}

func TestBuildHalos_Errors(t *testing.T) {
	layout, err := NewPartitionBuilder(3, 1, BlockPartition).BuildPartitions()
	require.NoError(t, err)

	_, err = BuildHalos(layout, [][]int{{1}, {0}})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = BuildHalos(layout, [][]int{{1}, {0}, {7}})
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestAllocatePartitionedArray(t *testing.T) {
	layout, err := NewPartitionBuilder(5, 2, BlockPartition).BuildPartitions()
	require.NoError(t, err)

	pa := AllocatePartitionedArray(layout, 2)
	assert.Equal(t, []int{0, 6, 10}, pa.Offsets)
	assert.Len(t, pa.GlobalData, 10)
	assert.Len(t, pa.GetPartitionData(0), 6)
	assert.Len(t, pa.GetPartitionData(1), 4)
	assert.Nil(t, pa.GetPartitionData(2))
}

func TestPartitionStrategy_String(t *testing.T) {
	assert.Equal(t, "Block", BlockPartition.String())
	assert.Equal(t, "RoundRobin", RoundRobin.String())
	assert.Equal(t, "Unknown", PartitionStrategy(9).String())
}
