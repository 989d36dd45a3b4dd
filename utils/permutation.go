package utils

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotPermutation indicates an order that is not a bijection on [0,N).
	ErrNotPermutation = errors.New("utils: order is not a permutation")
	// ErrLengthMismatch indicates a container whose length differs from the permutation size.
	ErrLengthMismatch = errors.New("utils: container length does not match permutation size")
)

// Permutation relabels ids of a dense range [0,N).
// Forward[old] is the new id of old, Inverse[new] is the old id now labelled new.
type Permutation struct {
	N       int
	Forward []int // old -> new
	Inverse []int // new -> old
}

// NewPermutation builds a Permutation from a list of old ids written in their
// new order, i.e. order[new] = old.
func NewPermutation(order []int) (*Permutation, error) {
	n := len(order)
	p := &Permutation{
		N:       n,
		Forward: make([]int, n),
		Inverse: make([]int, n),
	}
	for i := range p.Forward {
		p.Forward[i] = -1
	}

	for newID, oldID := range order {
		if oldID < 0 || oldID >= n {
			return nil, fmt.Errorf("%w: id %d outside [0,%d)", ErrNotPermutation, oldID, n)
		}
		if p.Forward[oldID] != -1 {
			return nil, fmt.Errorf("%w: id %d listed twice", ErrNotPermutation, oldID)
		}
		p.Forward[oldID] = newID
		p.Inverse[newID] = oldID
	}

	return p, nil
}

// Identity returns the permutation that leaves every id in place.
func Identity(n int) *Permutation {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	p, _ := NewPermutation(order)
	return p
}

// NewID returns the new label of oldID, or -1 when oldID is out of range.
func (p *Permutation) NewID(oldID int) int {
	if oldID < 0 || oldID >= p.N {
		return -1
	}
	return p.Forward[oldID]
}

// OldID returns the old label of newID, or -1 when newID is out of range.
func (p *Permutation) OldID(newID int) int {
	if newID < 0 || newID >= p.N {
		return -1
	}
	return p.Inverse[newID]
}

// Invert returns the permutation mapping new ids back to old ones.
func (p *Permutation) Invert() *Permutation {
	return &Permutation{
		N:       p.N,
		Forward: append([]int(nil), p.Inverse...),
		Inverse: append([]int(nil), p.Forward...),
	}
}

// RelabelIDs returns a fresh slice holding the new label of every id in ids.
func (p *Permutation) RelabelIDs(ids []int) []int {
	out := make([]int, len(ids))
	for k, id := range ids {
		out[k] = p.Forward[id]
	}
	return out
}

// ApplyInts moves src[old] to dst[new]. src is not modified.
func (p *Permutation) ApplyInts(src []int) ([]int, error) {
	if len(src) != p.N {
		return nil, fmt.Errorf("%w: len %d, N %d", ErrLengthMismatch, len(src), p.N)
	}
	dst := make([]int, p.N)
	for oldID, v := range src {
		dst[p.Forward[oldID]] = v
	}
	return dst, nil
}

// ApplyRows moves row old of src to row new of a freshly allocated matrix.
func (p *Permutation) ApplyRows(src mat.Matrix) (*mat.Dense, error) {
	r, c := src.Dims()
	if r != p.N {
		return nil, fmt.Errorf("%w: %d rows, N %d", ErrLengthMismatch, r, p.N)
	}
	dst := mat.NewDense(r, c, nil)
	for oldID := 0; oldID < r; oldID++ {
		newID := p.Forward[oldID]
		for j := 0; j < c; j++ {
			dst.Set(newID, j, src.At(oldID, j))
		}
	}
	return dst, nil
}

// Verify checks that Forward and Inverse are mutually inverse bijections on [0,N).
func (p *Permutation) Verify() error {
	if len(p.Forward) != p.N || len(p.Inverse) != p.N {
		return fmt.Errorf("%w: table lengths %d/%d, N %d",
			ErrLengthMismatch, len(p.Forward), len(p.Inverse), p.N)
	}
	seen := make([]bool, p.N)
	for oldID, newID := range p.Forward {
		if newID < 0 || newID >= p.N {
			return fmt.Errorf("%w: forward[%d]=%d out of range", ErrNotPermutation, oldID, newID)
		}
		if seen[newID] {
			return fmt.Errorf("%w: new id %d assigned twice", ErrNotPermutation, newID)
		}
		seen[newID] = true
		if p.Inverse[newID] != oldID {
			return fmt.Errorf("%w: inverse[%d]=%d, want %d",
				ErrNotPermutation, newID, p.Inverse[newID], oldID)
		}
	}
	return nil
}
