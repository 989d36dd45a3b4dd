package cloud

import (
	"testing"

	"github.com/desmondroux/Updec/stencil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// buildUnnumbered runs every stage up to, but not including, renumbering.
func buildUnnumbered(t *testing.T, nx, ny, n int) *nodeData {
	t.Helper()
	g := GridIndex{Nx: nx, Ny: ny}
	data := &nodeData{}
	data.gridToID, data.idToGrid = buildIndexTables(g)
	data.positions = buildCoordinates(g)
	data.labels, _ = classifyBoundaries(data.idToGrid, nx, ny)

	points := make([]r2.Vec, nx*ny)
	for k := range points {
		points[k] = rowVec(data.positions, k)
	}
	st, err := stencil.Build(points, n, stencil.Options{})
	require.NoError(t, err)
	data.stencils, data.distances = st.Neighbors, st.Distances
	data.normals = buildNormals(data.labels, data.idToGrid, nx, ny)
	return data
}

// TestRenumber_ReproducesData reads every renumbered structure back through
// the permutation and compares it with the structure it was built from.
func TestRenumber_ReproducesData(t *testing.T) {
	old := buildUnnumbered(t, 7, 5, 7)
	nw, perm, err := renumber(old)
	require.NoError(t, err)
	require.NoError(t, perm.Verify())

	for oldID := 0; oldID < perm.N; oldID++ {
		newID := perm.NewID(oldID)
		assert.Equal(t, old.idToGrid[oldID], nw.idToGrid[newID])
		assert.Equal(t, old.labels[oldID], nw.labels[newID])
		assert.Equal(t, rowVec(old.positions, oldID), rowVec(nw.positions, newID))
		assert.Equal(t, old.distances[oldID], nw.distances[newID])

		back := make([]int, len(nw.stencils[newID]))
		for k, nb := range nw.stencils[newID] {
			back[k] = perm.OldID(nb)
		}
		assert.Equal(t, old.stencils[oldID], back)

		on, oldOK := old.normals[oldID]
		nn, newOK := nw.normals[newID]
		assert.Equal(t, oldOK, newOK)
		assert.Equal(t, on, nn)
	}
	for i := range old.gridToID {
		for j, oldID := range old.gridToID[i] {
			assert.Equal(t, perm.NewID(oldID), nw.gridToID[i][j])
		}
	}
}

// TestRenumber_LeavesInputUntouched checks that renumber only reads its input
func TestRenumber_LeavesInputUntouched(t *testing.T) {
	old := buildUnnumbered(t, 6, 4, 5)
	ref := buildUnnumbered(t, 6, 4, 5)
	_, _, err := renumber(old)
	require.NoError(t, err)

	assert.Equal(t, ref.gridToID, old.gridToID)
	assert.Equal(t, ref.idToGrid, old.idToGrid)
	assert.Equal(t, ref.labels, old.labels)
	assert.Equal(t, ref.stencils, old.stencils)
	assert.Equal(t, ref.normals, old.normals)
	assert.Equal(t, ref.positions.RawMatrix().Data, old.positions.RawMatrix().Data)
}

func TestBlockOrdering(t *testing.T) {
	labels := []BoundaryType{Dirichlet, Internal, Neumann, Internal, Dirichlet}
	assert.Equal(t, []int{1, 3, 0, 4, 2}, blockOrdering(labels))
	assert.Empty(t, blockOrdering(nil))
}
