package contour

import "foam-sizer/pkg/geometry"

// keepEpsilon absorbs floating-point noise on points mirrored onto the axis.
const keepEpsilon = 1e-9

// resymmetrized rebuilds the contour from the points at or left of the axis:
// the kept half followed by its mirror image in reverse order. It does not
// depend on any earlier correspondence between left and right points, so
// calling it repeatedly gives the same result.
func (c Contour) resymmetrized() Contour {
	if !c.Axis.Enabled {
		return Contour{Points: clonePoints(c.Points), Axis: c.Axis}
	}
	half := leftHalf(c.Points, c.Axis.X)

	pts := make([]geometry.Point2D, 0, 2*len(half))
	pts = append(pts, half...)
	for i := len(half) - 1; i >= 0; i-- {
		pts = append(pts, half[i].MirrorX(c.Axis.X))
	}
	return Contour{Points: pts, Axis: c.Axis}
}

// leftHalf returns the points at or left of axisX in cyclic order. The walk
// starts at a kept point whose predecessor was dropped so a half that wraps
// around index 0 stays contiguous. Consecutive coincident points collapse.
func leftHalf(points []geometry.Point2D, axisX float64) []geometry.Point2D {
	n := len(points)
	keep := func(p geometry.Point2D) bool {
		return p.X <= axisX+keepEpsilon
	}

	start := 0
	for i := 0; i < n; i++ {
		if keep(points[i]) && !keep(points[(i-1+n)%n]) {
			start = i
			break
		}
	}

	half := make([]geometry.Point2D, 0, n)
	for k := 0; k < n; k++ {
		p := points[(start+k)%n]
		if !keep(p) {
			continue
		}
		if p.X > axisX-keepEpsilon {
			p.X = axisX
		}
		if len(half) > 0 && half[len(half)-1] == p {
			continue
		}
		half = append(half, p)
	}
	if len(half) > 1 && half[len(half)-1] == half[0] {
		half = half[:len(half)-1]
	}
	return half
}
