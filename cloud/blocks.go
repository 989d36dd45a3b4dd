package cloud

// Block is a contiguous range of node ids sharing one boundary type.
type Block struct {
	Label BoundaryType
	Start int // First id of the block
	Count int // Number of ids
}

// End returns one past the last id of the block.
func (b Block) End() int { return b.Start + b.Count }

// Contains reports whether id lies in the block.
func (b Block) Contains(id int) bool { return id >= b.Start && id < b.End() }

// BlockLayout describes the renumbered id space.
// Block k covers ids [Offsets[k], Offsets[k+1]).
type BlockLayout struct {
	Blocks  [3]Block // Internal, Dirichlet, Neumann
	Offsets [4]int
}

func newBlockLayout(m, md, mn int) BlockLayout {
	var bl BlockLayout
	counts := [3]int{m, md, mn}
	for k, label := range blockOrder {
		bl.Offsets[k+1] = bl.Offsets[k] + counts[k]
		bl.Blocks[k] = Block{Label: label, Start: bl.Offsets[k], Count: counts[k]}
	}
	return bl
}

// Block returns the block holding every node of the given type.
func (bl BlockLayout) Block(label BoundaryType) Block {
	for _, b := range bl.Blocks {
		if b.Label == label {
			return b
		}
	}
	return Block{Label: label, Start: bl.Offsets[3]}
}

// LabelOf returns the boundary type implied by id's position in the layout.
// ok is false for ids outside [0,N).
func (bl BlockLayout) LabelOf(id int) (label BoundaryType, ok bool) {
	for _, b := range bl.Blocks {
		if b.Contains(id) {
			return b.Label, true
		}
	}
	return Internal, false
}
