package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewPermutation(t *testing.T) {
	// order[new] = old
	p, err := NewPermutation([]int{2, 0, 3, 1})
	require.NoError(t, err)
	require.NoError(t, p.Verify())

	assert.Equal(t, []int{1, 3, 0, 2}, p.Forward)
	assert.Equal(t, []int{2, 0, 3, 1}, p.Inverse)
	assert.Equal(t, 0, p.NewID(2))
	assert.Equal(t, 3, p.OldID(2))
	assert.Equal(t, -1, p.NewID(4))
	assert.Equal(t, -1, p.OldID(-1))
}

func TestNewPermutation_Errors(t *testing.T) {
	cases := []struct {
		name  string
		order []int
	}{
		{"Duplicate", []int{0, 1, 1}},
		{"OutOfRange", []int{0, 3, 1}},
		{"Negative", []int{-1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPermutation(tc.order)
			if !errors.Is(err, ErrNotPermutation) {
				t.Errorf("NewPermutation(%v) error = %v; want %v", tc.order, err, ErrNotPermutation)
			}
		})
	}
}

func TestPermutation_Invert(t *testing.T) {
	p, err := NewPermutation([]int{3, 1, 0, 2})
	require.NoError(t, err)
	inv := p.Invert()
	require.NoError(t, inv.Verify())
	for old := 0; old < p.N; old++ {
		assert.Equal(t, old, inv.NewID(p.NewID(old)))
	}
}

func TestPermutation_ApplyInts(t *testing.T) {
	p, err := NewPermutation([]int{2, 0, 1})
	require.NoError(t, err)

	src := []int{10, 11, 12}
	dst, err := p.ApplyInts(src)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 10, 11}, dst)
	assert.Equal(t, []int{10, 11, 12}, src, "source must not be modified")

	_, err = p.ApplyInts([]int{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPermutation_ApplyRows(t *testing.T) {
	p, err := NewPermutation([]int{1, 2, 0})
	require.NoError(t, err)

	src := mat.NewDense(3, 2, []float64{
		0, 0.5,
		1, 1.5,
		2, 2.5,
	})
	dst, err := p.ApplyRows(src)
	require.NoError(t, err)
	for old := 0; old < 3; old++ {
		assert.Equal(t, mat.Row(nil, old, src), mat.Row(nil, p.NewID(old), dst))
	}

	_, err = p.ApplyRows(mat.NewDense(2, 2, nil))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPermutation_RelabelIDs(t *testing.T) {
	p, err := NewPermutation([]int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 0}, p.RelabelIDs([]int{1, 2, 2}))
}

func TestPermutation_VerifyDetectsCorruption(t *testing.T) {
	p := Identity(4)
	require.NoError(t, p.Verify())

	p.Forward[1] = 2
	assert.ErrorIs(t, p.Verify(), ErrNotPermutation)

	q := Identity(3)
	q.Inverse = q.Inverse[:2]
	assert.ErrorIs(t, q.Verify(), ErrLengthMismatch)
}
