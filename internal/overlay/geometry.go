// Package overlay reconciles an interactively rotated, dragged and resized
// overlay image with a fixed base canvas. It computes the rotated bounding
// geometry of the overlay and derives the crop, extend and resize directive a
// raster backend applies to reproduce the on-screen placement.
//
// Angles are in degrees and follow image coordinates: Y grows downwards, so a
// positive rotation turns clockwise on screen. Overlays rotate about their
// unrotated top-left corner.
package overlay

import (
	"math"

	"foam-sizer/pkg/geometry"
)

// RotatedBoundingSize returns the axis-aligned bounding size of a
// width x height rectangle rotated by deg about its centre.
//
// The half diagonal has length hyp and makes angle alpha with the vertical;
// as the rectangle spins, the projections of its two diagonals onto each
// axis bound the extent. A rectangle with no area has no extent.
func RotatedBoundingSize(height, width, deg float64) geometry.Size {
	if width <= 0 || height <= 0 {
		return geometry.Size{}
	}
	theta := geometry.NormalizeDegrees(deg)

	hyp := math.Hypot(height/2, width/2)
	alpha := geometry.Degrees(math.Asin((width / 2) / hyp))

	w := math.Max(
		math.Abs(geometry.SinDeg(theta-alpha)),
		math.Abs(geometry.SinDeg(theta+alpha)),
	) * 2 * hyp
	h := math.Max(
		math.Abs(geometry.SinDeg(-theta+(alpha-90))),
		math.Abs(geometry.SinDeg(-theta-(alpha-90))),
	) * 2 * hyp

	return geometry.Size{Width: w, Height: h}
}

// RoundedRotatedBoundingSize is RotatedBoundingSize rounded to whole pixels.
func RoundedRotatedBoundingSize(height, width, deg float64) geometry.Size {
	s := RotatedBoundingSize(height, width, deg)
	return geometry.Size{Width: math.Round(s.Width), Height: math.Round(s.Height)}
}

// AnchorOffset returns how far the unrotated top-left anchor of a
// width x height rectangle sits from the top-left corner of its bounding box
// after rotating by deg about that anchor. Drawing the rotated shape at
// (bboxX + offset.X, bboxY + offset.Y) places its bounding box at (bboxX, bboxY).
//
// The angle is wrapped to (-180, 180] first; the three branches agree at
// -90 and 90 degrees and wrap continuously at 180.
func AnchorOffset(width, height, deg float64) geometry.PointInt {
	theta := geometry.WrapDegrees(deg)

	var x, y float64
	switch {
	case theta >= -90 && theta <= 90:
		x = geometry.CosDeg(90-theta) * height
		y = geometry.CosDeg(-90-theta) * width
	case theta > 90:
		s, c := geometry.SinDeg(theta-90), geometry.CosDeg(theta-90)
		x = s*width + c*height
		y = s * height
	default:
		s, c := geometry.SinDeg(90+theta), geometry.CosDeg(90+theta)
		x = -s * width
		y = -s*height + c*width
	}
	return geometry.PointInt{X: nonNegative(x), Y: nonNegative(y)}
}

func nonNegative(v float64) int {
	return max(int(math.Round(v)), 0)
}
