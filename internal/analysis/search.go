package analysis

import (
	"errors"
	"image"

	"foam-sizer/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// ErrNoOutline is returned when an image has no foreground region.
var ErrNoOutline = errors.New("no outline found")

// axisCandidates lists the columns within radius of the image centre that
// leave at least one column on each side.
func axisCandidates(width, radius int) []int {
	half := width / 2
	lo := max(half-radius, 1)
	hi := min(half+radius, width-1)
	var cols []int
	for c := lo; c <= hi; c++ {
		cols = append(cols, c)
	}
	return cols
}

// bestAxis picks the candidate with the smallest mirror difference. Ties go
// to the first candidate.
func bestAxis(cols []int, diffs []float64) (int, error) {
	if len(cols) == 0 || len(cols) != len(diffs) {
		return 0, errors.New("no axis candidates")
	}
	return cols[floats.MinIdx(diffs)], nil
}

// mirrorPadding returns how many white columns to add in front of the left
// span and in front of the flipped right span when the axis sits at column c
// of a width-wide image. Both spans end at the axis, so padding the outer
// edge of the narrower one lines up columns equidistant from the axis.
func mirrorPadding(width, c int) (left, right int) {
	lw, rw := c, width-c
	return max(rw-lw, 0), max(lw-rw, 0)
}

// largest returns the index of the largest area, or -1.
func largest(areas []float64) int {
	if len(areas) == 0 {
		return -1
	}
	return floats.MaxIdx(areas)
}

func toPoints(pts []image.Point) []geometry.PointInt {
	out := make([]geometry.PointInt, len(pts))
	for i, p := range pts {
		out[i] = geometry.PointInt{X: p.X, Y: p.Y}
	}
	return out
}
