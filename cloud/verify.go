package cloud

import (
	"fmt"
	"math"
)

// unitTol bounds |1 - |normal|| for a normal to count as unit length.
const unitTol = 1e-12

// Verify re-checks every structural invariant of the cloud and returns the
// first violation, wrapped in ErrInconsistent.
func (c *Cloud) Verify() error {
	checks := []func() error{
		c.verifyIndices,
		c.verifyBlocks,
		c.verifyStencils,
		c.verifyNormals,
		c.verifyRenumbering,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %v", ErrInconsistent, err)
		}
	}
	return nil
}

// Verify 1: grid <-> id tables are mutual inverses over both domains
func (c *Cloud) verifyIndices() error {
	n := c.N()
	if n != c.grid.Nx*c.grid.Ny {
		return fmt.Errorf("node count %d != Nx*Ny = %d", n, c.grid.Nx*c.grid.Ny)
	}
	for id := 0; id < n; id++ {
		i, j := c.IDToGrid(id)
		if got := c.GridToID(i, j); got != id {
			return fmt.Errorf("id %d -> (%d,%d) -> id %d", id, i, j, got)
		}
	}
	for i := 0; i < c.grid.Nx; i++ {
		for j := 0; j < c.grid.Ny; j++ {
			id := c.GridToID(i, j)
			if gi, gj := c.IDToGrid(id); gi != i || gj != j {
				return fmt.Errorf("(%d,%d) -> id %d -> (%d,%d)", i, j, id, gi, gj)
			}
		}
	}
	return nil
}

// Verify 2: labels partition the nodes into the three contiguous blocks
func (c *Cloud) verifyBlocks() error {
	if c.m+c.md+c.mn != c.N() {
		return fmt.Errorf("M+MD+MN = %d+%d+%d != N = %d", c.m, c.md, c.mn, c.N())
	}
	var counts [3]int
	for id, label := range c.labels {
		want, ok := c.blocks.LabelOf(id)
		if !ok || label != want {
			return fmt.Errorf("id %d labelled %v inside the %v block", id, label, want)
		}
		i, j := c.IDToGrid(id)
		if rule := classify(i, j, c.grid.Nx, c.grid.Ny); label != rule {
			return fmt.Errorf("id %d at (%d,%d) labelled %v, boundary rule gives %v", id, i, j, label, rule)
		}
		counts[label]++
	}
	if counts != [3]int{c.m, c.md, c.mn} {
		return fmt.Errorf("label counts %v != (M,MD,MN) = (%d,%d,%d)", counts, c.m, c.md, c.mn)
	}
	return nil
}

// Verify 3: stencils have SupportSize distinct non-self members by non-decreasing distance
func (c *Cloud) verifyStencils() error {
	for id, st := range c.stencils {
		if len(st) != c.supportSize {
			return fmt.Errorf("stencil of %d has %d members, want %d", id, len(st), c.supportSize)
		}
		seen := make(map[int]bool, len(st))
		p := c.Position(id)
		prev := -1.0
		for k, nb := range st {
			if !c.validID(nb) {
				return fmt.Errorf("stencil of %d references unknown node %d", id, nb)
			}
			if nb == id {
				return fmt.Errorf("stencil of %d contains itself", id)
			}
			if seen[nb] {
				return fmt.Errorf("stencil of %d lists %d twice", id, nb)
			}
			seen[nb] = true

			q := c.Position(nb)
			d := (p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y)
			if math.Abs(d-c.distances[id][k]) > 1e-12 {
				return fmt.Errorf("stencil of %d: stored distance %g to %d, actual %g",
					id, c.distances[id][k], nb, d)
			}
			if d < prev {
				return fmt.Errorf("stencil of %d not sorted at position %d", id, k)
			}
			prev = d
		}
	}
	return nil
}

// Verify 4: normals exist exactly on Neumann nodes and are axis-aligned unit vectors
func (c *Cloud) verifyNormals() error {
	for id, label := range c.labels {
		normal, ok := c.OutwardNormal(id)
		if ok != (label == Neumann) {
			return fmt.Errorf("id %d labelled %v has normal=%v", id, label, ok)
		}
		if !ok {
			continue
		}
		if math.Abs(math.Hypot(normal.X, normal.Y)-1) > unitTol {
			return fmt.Errorf("normal of %d is not unit length: %v", id, normal)
		}
		if normal.X != 0 && normal.Y != 0 {
			return fmt.Errorf("normal of %d is not axis-aligned: %v", id, normal)
		}
	}
	if len(c.normals) != c.mn {
		return fmt.Errorf("%d normals for MN = %d Neumann nodes", len(c.normals), c.mn)
	}
	return nil
}

// Verify 5: the renumbering is a bijection and maps the grid enumeration onto the current ids
func (c *Cloud) verifyRenumbering() error {
	if err := c.renumbering.Verify(); err != nil {
		return err
	}
	if c.renumbering.N != c.N() {
		return fmt.Errorf("renumbering covers %d ids, N = %d", c.renumbering.N, c.N())
	}
	for oldID := 0; oldID < c.N(); oldID++ {
		i, j := c.grid.IDToIndex(oldID)
		if got := c.RenumberingMap(oldID); got != c.GridToID(i, j) {
			return fmt.Errorf("old id %d at (%d,%d) maps to %d, grid table holds %d",
				oldID, i, j, got, c.GridToID(i, j))
		}
	}
	return nil
}
