// Package cloud builds meshfree node clouds for RBF-FD solvers.
//
// A Cloud covers the unit square with an Nx x Ny uniform grid of nodes. Each
// node gets a position, a boundary type, an n-point nearest-neighbour support
// stencil, and, on Neumann nodes, an outward unit normal. Construction ends by
// renumbering the nodes so that Internal ids fill [0,M), Dirichlet ids fill
// [M,M+MD) and Neumann ids fill [M+MD,N), the block layout expected by
// block-structured linear-system assembly.
//
// Construction stages, in order:
//
//	index tables -> coordinates -> boundary types -> stencils -> normals -> renumbering
//
// A Cloud is immutable once New returns and safe for concurrent reads.
package cloud

import (
	"fmt"
	"io"
	"strings"

	"github.com/desmondroux/Updec/partitions"
	"github.com/desmondroux/Updec/stencil"
	"github.com/desmondroux/Updec/utils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// nodeData is every per-node structure, keyed by node id.
type nodeData struct {
	gridToID  [][]int    // [i][j] -> id
	idToGrid  [][2]int   // id -> (i,j)
	positions *mat.Dense // N x 2, row id = (x,y)
	labels    []BoundaryType
	stencils  [][]int
	distances [][]float64 // squared, matching stencils
	normals   map[int]r2.Vec
}

// Cloud is a renumbered meshfree node cloud.
type Cloud struct {
	nodeData

	grid        GridIndex
	m, md, mn   int
	supportSize int
	search      stencil.Strategy

	renumbering *utils.Permutation // old (grid enumeration) id -> new id
	blocks      BlockLayout
}

// New validates cfg and builds the cloud. On error no cloud is returned.
func New(cfg Config) (*Cloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	logf := func(format string, a ...interface{}) {
		if cfg.Log != nil {
			fmt.Fprintf(cfg.Log, format, a...)
		}
	}

	c := &Cloud{
		grid:        GridIndex{Nx: cfg.Nx, Ny: cfg.Ny},
		supportSize: cfg.SupportSize,
		search:      cfg.Search,
	}
	n := cfg.Nx * cfg.Ny
	data := &nodeData{}

	data.gridToID, data.idToGrid = buildIndexTables(c.grid)
	logf("Cloud %dx%d: %d nodes indexed...\n", cfg.Nx, cfg.Ny, n)

	data.positions = buildCoordinates(c.grid)

	var counts [3]int
	data.labels, counts = classifyBoundaries(data.idToGrid, cfg.Nx, cfg.Ny)
	c.m, c.md, c.mn = counts[Internal], counts[Dirichlet], counts[Neumann]
	logf("Boundaries: M=%d internal, MD=%d dirichlet, MN=%d neumann\n", c.m, c.md, c.mn)

	points := make([]r2.Vec, n)
	for k := range points {
		points[k] = rowVec(data.positions, k)
	}
	st, err := stencil.Build(points, cfg.SupportSize, stencil.Options{
		Strategy: cfg.Search,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build support stencils: %w", err)
	}
	data.stencils, data.distances = st.Neighbors, st.Distances
	logf("Stencils: %d neighbours per node (%v, %d workers)\n", cfg.SupportSize, cfg.Search, cfg.Workers)

	data.normals = buildNormals(data.labels, data.idToGrid, cfg.Nx, cfg.Ny)

	renumbered, perm, err := renumber(data)
	if err != nil {
		return nil, err
	}
	c.nodeData = *renumbered
	c.renumbering = perm
	c.blocks = newBlockLayout(c.m, c.md, c.mn)
	logf("Renumbered: internal [0,%d) dirichlet [%d,%d) neumann [%d,%d)\n",
		c.m, c.m, c.m+c.md, c.m+c.md, n)

	return c, nil
}

// Nx returns the number of grid points along x.
func (c *Cloud) Nx() int { return c.grid.Nx }

// Ny returns the number of grid points along y.
func (c *Cloud) Ny() int { return c.grid.Ny }

// N returns the node count.
func (c *Cloud) N() int { return len(c.idToGrid) }

// M returns the number of Internal nodes.
func (c *Cloud) M() int { return c.m }

// MD returns the number of Dirichlet nodes.
func (c *Cloud) MD() int { return c.md }

// MN returns the number of Neumann nodes.
func (c *Cloud) MN() int { return c.mn }

// SupportSize returns the number of neighbours in each stencil.
func (c *Cloud) SupportSize() int { return c.supportSize }

func (c *Cloud) validID(id int) bool { return id >= 0 && id < c.N() }

// GridToID returns the id of grid node (i,j), or -1 outside the grid.
func (c *Cloud) GridToID(i, j int) int {
	if !c.grid.InBounds(i, j) {
		return -1
	}
	return c.gridToID[i][j]
}

// IDToGrid returns the grid coordinate of node id, or (-1,-1) for an unknown id.
func (c *Cloud) IDToGrid(id int) (i, j int) {
	if !c.validID(id) {
		return -1, -1
	}
	return c.idToGrid[id][0], c.idToGrid[id][1]
}

// Position returns the coordinates of node id. id must be in [0,N).
func (c *Cloud) Position(id int) r2.Vec {
	return rowVec(c.positions, id)
}

// Positions returns a copy of the N x 2 position matrix; row id is node id.
func (c *Cloud) Positions() mat.Matrix {
	return mat.DenseCopyOf(c.positions)
}

// BoundaryLabel returns the boundary type of node id. id must be in [0,N).
func (c *Cloud) BoundaryLabel(id int) BoundaryType {
	return c.labels[id]
}

// SupportStencil returns a copy of the stencil of node id: its SupportSize
// nearest neighbours by ascending distance. id must be in [0,N).
func (c *Cloud) SupportStencil(id int) []int {
	return append([]int(nil), c.stencils[id]...)
}

// StencilDistances returns the squared distances from node id to each member of
// SupportStencil(id), in the same order. id must be in [0,N).
func (c *Cloud) StencilDistances(id int) []float64 {
	return append([]float64(nil), c.distances[id]...)
}

// OutwardNormal returns the outward unit normal of node id. ok is false for
// every node that is not Neumann.
func (c *Cloud) OutwardNormal(id int) (normal r2.Vec, ok bool) {
	normal, ok = c.normals[id]
	return normal, ok
}

// Normals returns the MN x 2 matrix of outward normals; row r belongs to
// node M+MD+r.
func (c *Cloud) Normals() mat.Matrix {
	if c.mn == 0 {
		return &mat.Dense{}
	}
	nm := mat.NewDense(c.mn, 2, nil)
	start := c.m + c.md
	for r := 0; r < c.mn; r++ {
		v := c.normals[start+r]
		nm.Set(r, 0, v.X)
		nm.Set(r, 1, v.Y)
	}
	return nm
}

// RenumberingMap returns the final id of the node numbered oldID by the grid
// enumeration (oldID = i*Ny + j), or -1 for an unknown id.
func (c *Cloud) RenumberingMap(oldID int) int {
	return c.renumbering.NewID(oldID)
}

// OriginalID inverts RenumberingMap, or returns -1 for an unknown id.
func (c *Cloud) OriginalID(newID int) int {
	return c.renumbering.OldID(newID)
}

// Renumbering returns a copy of the full renumbering permutation.
func (c *Cloud) Renumbering() *utils.Permutation {
	return &utils.Permutation{
		N:       c.renumbering.N,
		Forward: append([]int(nil), c.renumbering.Forward...),
		Inverse: append([]int(nil), c.renumbering.Inverse...),
	}
}

// Blocks returns the contiguous id ranges of the three boundary groups.
func (c *Cloud) Blocks() BlockLayout { return c.blocks }

// Partition splits the node ids into numPartitions worker partitions and lists,
// for each partition, the stencil members owned by other partitions.
func (c *Cloud) Partition(numPartitions int, strategy partitions.PartitionStrategy) (*partitions.PartitionLayout, []partitions.Halo, error) {
	layout, err := partitions.NewPartitionBuilder(c.N(), numPartitions, strategy).BuildPartitions()
	if err != nil {
		return nil, nil, err
	}
	halos, err := partitions.BuildHalos(layout, c.stencils)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build halos: %w", err)
	}
	return layout, halos, nil
}

// WriteSummary writes String() to w.
func (c *Cloud) WriteSummary(w io.Writer) error {
	_, err := io.WriteString(w, c.String())
	return err
}

// String returns a summary of the cloud
func (c *Cloud) String() string {
	var sb strings.Builder

	sb.WriteString("=== Meshfree cloud for RBF-FD ===\n")

	sb.WriteString("\n--- Grid ---\n")
	sb.WriteString(fmt.Sprintf("  Bounding box: Nx = %d, Ny = %d\n", c.Nx(), c.Ny()))
	sb.WriteString(fmt.Sprintf("  Nodes: N = %d\n", c.N()))

	sb.WriteString("\n--- Boundary blocks ---\n")
	for _, b := range c.blocks.Blocks {
		sb.WriteString(fmt.Sprintf("  %-9s %3d nodes, ids [%d,%d)\n", b.Label, b.Count, b.Start, b.End()))
	}

	sb.WriteString("\n--- Support stencils ---\n")
	sb.WriteString(fmt.Sprintf("  Size: %d, search: %v\n", c.supportSize, c.search))
	for _, b := range c.blocks.Blocks {
		if b.Count == 0 {
			continue
		}
		i, j := c.IDToGrid(b.Start)
		sb.WriteString(fmt.Sprintf("  node %d (%d,%d) %v: %v\n",
			b.Start, i, j, b.Label, c.stencils[b.Start]))
	}

	sb.WriteString("\n--- Outward normals ---\n")
	sb.WriteString(fmt.Sprintf("  Defined on %d Neumann nodes\n", len(c.normals)))

	return sb.String()
}
