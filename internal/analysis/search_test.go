package analysis

import (
	"image"
	"testing"

	"foam-sizer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisCandidates(t *testing.T) {
	assert.Equal(t, []int{3, 4, 5, 6, 7}, axisCandidates(10, 2))
	assert.Equal(t, []int{1, 2, 3}, axisCandidates(4, 200))
	assert.Empty(t, axisCandidates(1, 200))

	cols := axisCandidates(1000, DefaultSearchRadius)
	assert.Equal(t, 300, cols[0])
	assert.Equal(t, 700, cols[len(cols)-1])
}

func TestBestAxis(t *testing.T) {
	axis, err := bestAxis([]int{10, 11, 12, 13}, []float64{9, 2, 2, 5})
	require.NoError(t, err)
	assert.Equal(t, 11, axis)

	_, err = bestAxis(nil, nil)
	assert.Error(t, err)
	_, err = bestAxis([]int{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestMirrorPadding(t *testing.T) {
	tests := []struct {
		width, c    int
		left, right int
	}{
		{10, 5, 0, 0},
		{10, 3, 4, 0},
		{10, 8, 0, 6},
	}
	for _, tt := range tests {
		l, r := mirrorPadding(tt.width, tt.c)
		assert.Equal(t, tt.left, l, "left at %d", tt.c)
		assert.Equal(t, tt.right, r, "right at %d", tt.c)
		// Padded spans have equal width.
		assert.Equal(t, tt.c+l, tt.width-tt.c+r)
	}
}

func TestLargest(t *testing.T) {
	assert.Equal(t, -1, largest(nil))
	assert.Equal(t, 2, largest([]float64{4, 1, 9, 3}))
}

func TestToPoints(t *testing.T) {
	got := toPoints([]image.Point{{X: 1, Y: 2}, {X: -3, Y: 4}})
	assert.Equal(t, []geometry.PointInt{{X: 1, Y: 2}, {X: -3, Y: 4}}, got)
}

func TestDefaultOutlineParams(t *testing.T) {
	p := DefaultOutlineParams()
	assert.Equal(t, 1, p.BlurSize%2)
	assert.Equal(t, 1, p.BlockSize%2)
	assert.Equal(t, 25, p.CloseSize)
	assert.InDelta(t, 0.0025, p.EpsilonFactor, 1e-12)
}
