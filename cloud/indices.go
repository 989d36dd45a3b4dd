package cloud

// GridIndex is the construction-time numbering of an Nx x Ny grid: i is the
// outer index and j the inner one, so id = i*Ny + j.
type GridIndex struct {
	Nx, Ny int
}

// IndexToID converts a grid coordinate to its node id, or -1 outside the grid.
func (g GridIndex) IndexToID(i, j int) int {
	if !g.InBounds(i, j) {
		return -1
	}
	return i*g.Ny + j
}

// IDToIndex converts a node id to its grid coordinate, or (-1,-1) for an
// id outside [0, Nx*Ny).
func (g GridIndex) IDToIndex(id int) (i, j int) {
	if id < 0 || id >= g.Nx*g.Ny {
		return -1, -1
	}
	return id / g.Ny, id % g.Ny
}

// InBounds reports whether (i,j) lies within the grid.
func (g GridIndex) InBounds(i, j int) bool {
	return i >= 0 && i < g.Nx && j >= 0 && j < g.Ny
}

// buildIndexTables enumerates the grid once, producing both directions of the
// bijection as dense tables.
func buildIndexTables(g GridIndex) (gridToID [][]int, idToGrid [][2]int) {
	gridToID = make([][]int, g.Nx)
	idToGrid = make([][2]int, g.Nx*g.Ny)
	for i := 0; i < g.Nx; i++ {
		gridToID[i] = make([]int, g.Ny)
		for j := 0; j < g.Ny; j++ {
			id := g.IndexToID(i, j)
			gridToID[i][j] = id
			idToGrid[id] = [2]int{i, j}
		}
	}
	return gridToID, idToGrid
}
