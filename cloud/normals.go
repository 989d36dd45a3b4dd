package cloud

import "gonum.org/v1/gonum/spatial/r2"

// outwardNormal returns the unit outward normal of the domain edge holding
// (i,j). Edges are tested left, right, bottom, top; the first match wins.
func outwardNormal(i, j, nx, ny int) (r2.Vec, bool) {
	switch {
	case i == 0:
		return r2.Vec{X: -1, Y: 0}, true
	case i == nx-1:
		return r2.Vec{X: 1, Y: 0}, true
	case j == 0:
		return r2.Vec{X: 0, Y: -1}, true
	case j == ny-1:
		return r2.Vec{X: 0, Y: 1}, true
	}
	return r2.Vec{}, false
}

// buildNormals assigns a normal to every Neumann node. Other nodes get no entry.
func buildNormals(labels []BoundaryType, idToGrid [][2]int, nx, ny int) map[int]r2.Vec {
	normals := make(map[int]r2.Vec)
	for id, label := range labels {
		if label != Neumann {
			continue
		}
		ij := idToGrid[id]
		if n, ok := outwardNormal(ij[0], ij[1], nx, ny); ok {
			normals[id] = n
		}
	}
	return normals
}
