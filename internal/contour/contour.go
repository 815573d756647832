// Package contour maintains the editable closed outline of a foam insert,
// optionally constrained to be mirror-symmetric about a vertical axis.
//
// A Contour is a value: every operation returns a new Contour and leaves the
// receiver's point slice untouched, so the session that owns the outline can
// keep history or discard edits freely.
package contour

import (
	"errors"
	"fmt"
	"math"

	"foam-sizer/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// ErrIndexOutOfRange is returned when a point index does not exist.
var ErrIndexOutOfRange = errors.New("point index out of range")

// Resymmetrize is the index sentinel accepted by Move to rebuild the whole
// contour from its current left half instead of moving a single point.
const Resymmetrize = -1

// AxisTolerance is how far (in pixels) a point may be from the axis and still
// count as lying on it.
const AxisTolerance = 0.5

// Axis is the vertical symmetry line. The zero value is disabled.
type Axis struct {
	X       float64 `json:"x"`
	Enabled bool    `json:"enabled"`
}

// NoAxis disables symmetry.
var NoAxis = Axis{}

// AxisAt returns an enabled axis at x.
func AxisAt(x float64) Axis {
	return Axis{X: x, Enabled: true}
}

func (a Axis) onAxis(p geometry.Point2D) bool {
	return math.Abs(p.X-a.X) <= AxisTolerance
}

// Contour is an implicitly closed, ordered outline.
type Contour struct {
	Points []geometry.Point2D
	Axis   Axis
}

// New returns an asymmetric contour holding a copy of points.
func New(points []geometry.Point2D) Contour {
	return Contour{Points: clonePoints(points)}
}

// FromInts builds an asymmetric contour from integer pairs, as produced by the
// outline tracer and the contour file.
func FromInts(points []geometry.PointInt) Contour {
	pts := make([]geometry.Point2D, len(points))
	for i, p := range points {
		pts[i] = p.ToFloat()
	}
	return Contour{Points: pts}
}

// Len returns the number of points.
func (c Contour) Len() int {
	return len(c.Points)
}

// Symmetric reports whether the mirror constraint is active.
func (c Contour) Symmetric() bool {
	return c.Axis.Enabled
}

// Insert adds p on the edge it logically belongs to. The first anchor is the
// nearest existing point; the second is the nearest point that is also its
// neighbour in the current ordering, which keeps the new edge from cutting
// across the polygon. With symmetry enabled the mirror of p is inserted at
// the mirrored slot as well, except for a point on the axis beside the
// centre: it becomes the single centre point, added to an even contour or
// replacing the centre of an odd one.
func (c Contour) Insert(p geometry.Point2D) Contour {
	after := insertionIndex(c.Points, p)
	if !c.Axis.Enabled {
		return Contour{Points: insertAt(c.Points, after+1, p), Axis: c.Axis}
	}

	n := len(c.Points)
	m := p.MirrorX(c.Axis.X)
	at := after + 1
	mirrorAt := n - 1 - after

	var pts []geometry.Point2D
	switch {
	case at == mirrorAt && c.Axis.onAxis(p):
		// The edge crosses the axis and so does p: one point, on the axis.
		p.X = c.Axis.X
		pts = insertAt(c.Points, at, p)
	case n%2 == 1 && min(at, mirrorAt) == n/2 && c.Axis.onAxis(p):
		// An odd contour already has its one on-axis point at n/2 and
		// cannot take a second unpaired one, so p replaces it.
		p.X = c.Axis.X
		pts = clonePoints(c.Points)
		pts[n/2] = p
	case at == mirrorAt:
		first, second := p, m
		if at > 0 && !sameSide(c.Points[at-1], p, c.Axis.X) {
			first, second = m, p
		}
		pts = insertAt(insertAt(c.Points, at, first), at+1, second)
	case at < mirrorAt:
		pts = insertAt(insertAt(c.Points, mirrorAt, m), at, p)
	default:
		pts = insertAt(insertAt(c.Points, at, p), mirrorAt, m)
	}
	return Contour{Points: pts, Axis: c.Axis}
}

// Move relocates point i. With symmetry enabled its partner N-1-i follows as
// a mirror image; the centre point of an odd-length contour stays on the
// axis. Passing Resymmetrize rebuilds the whole contour instead.
func (c Contour) Move(i int, p geometry.Point2D) (Contour, error) {
	if i == Resymmetrize {
		return c.resymmetrized(), nil
	}
	if i < 0 || i >= len(c.Points) {
		return c, fmt.Errorf("move point %d of %d: %w", i, len(c.Points), ErrIndexOutOfRange)
	}

	pts := clonePoints(c.Points)
	pts[i] = p
	if c.Axis.Enabled {
		j := len(pts) - 1 - i
		if j == i {
			pts[i].X = c.Axis.X
		} else {
			pts[j] = p.MirrorX(c.Axis.X)
		}
	}
	return Contour{Points: pts, Axis: c.Axis}, nil
}

// Remove deletes point i. With symmetry enabled its partner goes too and the
// contour is rebuilt from the surviving left half, since removal changes how
// left and right points correspond.
func (c Contour) Remove(i int) (Contour, error) {
	n := len(c.Points)
	if i < 0 || i >= n {
		return c, fmt.Errorf("remove point %d of %d: %w", i, n, ErrIndexOutOfRange)
	}

	pts := make([]geometry.Point2D, 0, n)
	partner := -1
	if c.Axis.Enabled {
		partner = n - 1 - i
	}
	for j, p := range c.Points {
		if j == i || j == partner {
			continue
		}
		pts = append(pts, p)
	}

	out := Contour{Points: pts, Axis: c.Axis}
	if c.Axis.Enabled {
		out = out.resymmetrized()
	}
	return out, nil
}

// WithAxis sets the symmetry axis. Enabling immediately re-symmetrizes the
// contour; disabling keeps the points as they are.
func (c Contour) WithAxis(a Axis) Contour {
	out := Contour{Points: clonePoints(c.Points), Axis: a}
	if !a.Enabled {
		out.Axis = NoAxis
		return out
	}
	return out.resymmetrized()
}

// Bounds returns the axis-aligned bounding box of the outline.
func (c Contour) Bounds() geometry.Rect {
	return geometry.BoundingBox(c.Points)
}

// Contains reports whether p lies inside the closed outline.
func (c Contour) Contains(p geometry.Point2D) bool {
	return geometry.PointInPolygon(p, c.Points)
}

// Area returns the enclosed area in square pixels.
func (c Contour) Area() float64 {
	return geometry.PolygonArea(c.Points)
}

// insertionIndex returns the index after which a new point goes, or
// len(points)-1 (append) when there are fewer than two points.
func insertionIndex(points []geometry.Point2D, p geometry.Point2D) int {
	n := len(points)
	if n < 2 {
		return n - 1
	}

	dist := make([]float64, n)
	for i, q := range points {
		dist[i] = p.Distance(q)
	}
	order := make([]int, n)
	floats.ArgsortStable(dist, order)

	i0 := order[0]
	i1 := i0
	for _, i := range order[1:] {
		if i-i0 == 1 || i0-i == 1 {
			i1 = i
			break
		}
	}
	return min(i0, i1)
}

func insertAt(points []geometry.Point2D, at int, p geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(points)+1)
	out = append(out, points[:at]...)
	out = append(out, p)
	return append(out, points[at:]...)
}

func sameSide(a, b geometry.Point2D, axisX float64) bool {
	return (a.X-axisX)*(b.X-axisX) >= 0
}

func clonePoints(points []geometry.Point2D) []geometry.Point2D {
	if points == nil {
		return nil
	}
	out := make([]geometry.Point2D, len(points))
	copy(out, points)
	return out
}
