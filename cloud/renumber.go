package cloud

import (
	"fmt"

	"github.com/desmondroux/Updec/utils"
	"gonum.org/v1/gonum/spatial/r2"
)

// blockOrdering lists old ids group by group, Internal then Dirichlet then
// Neumann, keeping the original relative order inside each group. Position in
// the list is the new id.
func blockOrdering(labels []BoundaryType) []int {
	order := make([]int, 0, len(labels))
	for _, group := range blockOrder {
		for id, label := range labels {
			if label == group {
				order = append(order, id)
			}
		}
	}
	return order
}

// renumber builds a relabelled copy of every structure in old. The permutation
// is fixed from old labels before any container is written, and old is only
// read, so no structure ever sees a mix of numberings.
func renumber(old *nodeData) (*nodeData, *utils.Permutation, error) {
	perm, err := utils.NewPermutation(blockOrdering(old.labels))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build renumbering: %w", err)
	}

	n := perm.N
	nw := &nodeData{
		gridToID:  make([][]int, len(old.gridToID)),
		idToGrid:  make([][2]int, n),
		labels:    make([]BoundaryType, n),
		stencils:  make([][]int, n),
		distances: make([][]float64, n),
		normals:   make(map[int]r2.Vec, len(old.normals)),
	}
	for i := range old.gridToID {
		nw.gridToID[i] = make([]int, len(old.gridToID[i]))
	}

	for oldID := 0; oldID < n; oldID++ {
		newID := perm.Forward[oldID]
		ij := old.idToGrid[oldID]
		nw.idToGrid[newID] = ij
		nw.gridToID[ij[0]][ij[1]] = newID
		nw.labels[newID] = old.labels[oldID]
		nw.stencils[newID] = perm.RelabelIDs(old.stencils[oldID])
		nw.distances[newID] = append([]float64(nil), old.distances[oldID]...)
	}
	for oldID, normal := range old.normals {
		nw.normals[perm.Forward[oldID]] = normal
	}

	if nw.positions, err = perm.ApplyRows(old.positions); err != nil {
		return nil, nil, fmt.Errorf("failed to relabel positions: %w", err)
	}

	return nw, perm, nil
}
