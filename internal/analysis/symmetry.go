package analysis

import (
	"fmt"
	"image"
	"image/color"

	"foam-sizer/internal/logger"

	"gocv.io/x/gocv"
)

// DefaultSearchRadius bounds how far from the image centre the axis is
// searched for, in pixels.
const DefaultSearchRadius = 200

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// DetectSymmetryAxis returns the column about which the image is most
// nearly mirror-symmetric. For every candidate within radius of the centre
// the right part is flipped onto the left and their absolute difference is
// summed; the candidate with the smallest sum wins.
func DetectSymmetryAxis(img gocv.Mat, radius int) (int, error) {
	cols := axisCandidates(img.Cols(), radius)
	if len(cols) == 0 {
		return 0, fmt.Errorf("image too narrow for a symmetry axis: %d columns", img.Cols())
	}

	diffs := make([]float64, len(cols))
	for i, c := range cols {
		diffs[i] = mirrorDifference(img, c)
	}
	axis, err := bestAxis(cols, diffs)
	if err != nil {
		return 0, err
	}
	logger.L().Debug("analysis.symmetry_axis", "axis", axis, "candidates", len(cols), "radius", radius)
	return axis, nil
}

// DetectSymmetryAxisFile reads an image from disk and runs DetectSymmetryAxis.
func DetectSymmetryAxisFile(path string, radius int) (int, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return 0, fmt.Errorf("failed to read image: %s", path)
	}
	defer img.Close()
	return DetectSymmetryAxis(img, radius)
}

func mirrorDifference(img gocv.Mat, c int) float64 {
	h, w := img.Rows(), img.Cols()

	left := img.Region(image.Rect(0, 0, c, h))
	defer left.Close()
	rightRegion := img.Region(image.Rect(c, 0, w, h))
	defer rightRegion.Close()

	right := gocv.NewMat()
	defer right.Close()
	gocv.Flip(rightRegion, &right, 1)

	padL, padR := mirrorPadding(w, c)

	a := gocv.NewMat()
	defer a.Close()
	gocv.CopyMakeBorder(left, &a, 0, 0, padL, 0, gocv.BorderConstant, white)

	b := gocv.NewMat()
	defer b.Close()
	gocv.CopyMakeBorder(right, &b, 0, 0, padR, 0, gocv.BorderConstant, white)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	s := diff.Sum()
	return s.Val1 + s.Val2 + s.Val3 + s.Val4
}
