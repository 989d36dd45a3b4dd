package cloud

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// buildCoordinates places node (i,j) at (x_i, y_j), x and y evenly spaced on
// [0,1]. Row id of the returned N x 2 matrix holds the position of node id.
// Both axes are paired with the grid axes of the same name: i moves along x.
func buildCoordinates(g GridIndex) *mat.Dense {
	x := floats.Span(make([]float64, g.Nx), 0, 1)
	y := floats.Span(make([]float64, g.Ny), 0, 1)

	pos := mat.NewDense(g.Nx*g.Ny, 2, nil)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			id := g.IndexToID(i, j)
			pos.Set(id, 0, x[i])
			pos.Set(id, 1, y[j])
		}
	}
	return pos
}

// rowVec reads row k of an N x 2 matrix as a point.
func rowVec(m mat.Matrix, k int) r2.Vec {
	return r2.Vec{X: m.At(k, 0), Y: m.At(k, 1)}
}
