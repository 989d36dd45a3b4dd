package cloud

import (
	"fmt"
	"strings"
)

// BoundaryType labels the condition imposed at a node.
type BoundaryType uint8

const (
	// Internal nodes carry the PDE itself
	Internal BoundaryType = iota
	// Dirichlet nodes carry a prescribed value
	Dirichlet
	// Neumann nodes carry a prescribed outward normal derivative
	Neumann
)

// blockOrder is the order boundary groups occupy after renumbering.
var blockOrder = [...]BoundaryType{Internal, Dirichlet, Neumann}

func (bt BoundaryType) String() string {
	names := map[BoundaryType]string{
		Internal:  "Internal",
		Dirichlet: "Dirichlet",
		Neumann:   "Neumann",
	}
	if name, ok := names[bt]; ok {
		return name
	}
	return "Unknown"
}

// BoundaryNameMap maps lowercase names to boundary types.
var BoundaryNameMap = map[string]BoundaryType{
	"internal":  Internal,
	"interior":  Internal,
	"dirichlet": Dirichlet,
	"value":     Dirichlet,
	"neumann":   Neumann,
	"flux":      Neumann,
}

// ParseBoundaryType converts a boundary name to a BoundaryType.
// The matching is case-insensitive and trims whitespace.
func ParseBoundaryType(name string) (BoundaryType, error) {
	if bt, ok := BoundaryNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return bt, nil
	}
	return Internal, fmt.Errorf("cloud: unknown boundary type %q", name)
}

// classify labels grid node (i,j). Left, bottom and top edges are Dirichlet
// and take precedence over the right edge, so both right-hand corners are
// Dirichlet and only the right edge interior is Neumann.
func classify(i, j, nx, ny int) BoundaryType {
	switch {
	case i == 0 || j == 0 || j == ny-1:
		return Dirichlet
	case i == nx-1:
		return Neumann
	default:
		return Internal
	}
}

// classifyBoundaries labels every node and counts each group.
func classifyBoundaries(idToGrid [][2]int, nx, ny int) (labels []BoundaryType, counts [3]int) {
	labels = make([]BoundaryType, len(idToGrid))
	for id, ij := range idToGrid {
		labels[id] = classify(ij[0], ij[1], nx, ny)
		counts[labels[id]]++
	}
	return labels, counts
}
