// Package shapes holds the decorative rectangles and circles placed on a
// foam insert, and their JSON persistence format.
package shapes

import (
	"errors"
	"fmt"
	"slices"

	"foam-sizer/internal/contour"
	"foam-sizer/pkg/geometry"
)

// ErrUnknownShape is returned when no shape carries the requested key.
var ErrUnknownShape = errors.New("unknown shape")

// Kind names a shape variant as written in the JSON "type" field.
type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
)

// Defaults for freshly created shapes.
const (
	DefaultPosition   = 100
	DefaultRectSide   = 100
	DefaultDiameter   = 50
	DefaultDepth      = 10
	DefaultRectFill   = "red"
	DefaultCircleFill = "green"
)

// RectPayload is a rectangle centred on the shape position.
type RectPayload struct {
	Width    float64
	Height   float64
	Rotation float64 // degrees, [0, 360)
}

// CirclePayload is the circle-specific part of a shape.
type CirclePayload struct {
	Diameter float64
}

// Shape is a placed shape. Exactly one of Rect and Circle is set.
// X and Y are the centre of the shape. Depth is an annotation for the
// cutter and has no geometric meaning.
type Shape struct {
	Key    int
	X, Y   float64
	Depth  int
	Fill   string
	Rect   *RectPayload
	Circle *CirclePayload
}

// Kind reports which payload the shape carries.
func (s Shape) Kind() Kind {
	if s.Circle != nil {
		return KindCircle
	}
	return KindRect
}

// Size returns the unrotated width and height.
func (s Shape) Size() (w, h float64) {
	switch {
	case s.Rect != nil:
		return s.Rect.Width, s.Rect.Height
	case s.Circle != nil:
		return s.Circle.Diameter, s.Circle.Diameter
	}
	return 0, 0
}

// Centre is the shape position, which is its centre.
func (s Shape) Centre() geometry.Point2D {
	return geometry.Point2D{X: s.X, Y: s.Y}
}

// clone copies the payload so edits never reach a shared pointer.
func (s Shape) clone() Shape {
	if s.Rect != nil {
		r := *s.Rect
		s.Rect = &r
	}
	if s.Circle != nil {
		c := *s.Circle
		s.Circle = &c
	}
	return s
}

// Direction is a keyboard nudge direction.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// NudgeStep is the distance, in pixels, of a single nudge.
const NudgeStep = 1

// Collection is an ordered list of shapes. Every operation returns a new
// collection and leaves the receiver untouched.
type Collection []Shape

func (c Collection) nextKey() int {
	next := 0
	for _, s := range c {
		next = max(next, s.Key+1)
	}
	return next
}

func (c Collection) with(s Shape) Collection {
	out := make(Collection, 0, len(c)+1)
	for _, old := range c {
		out = append(out, old.clone())
	}
	return append(out, s)
}

// AddRect appends a default rectangle and returns its key.
func (c Collection) AddRect() (Collection, int) {
	key := c.nextKey()
	return c.with(Shape{
		Key:   key,
		X:     DefaultPosition,
		Y:     DefaultPosition,
		Depth: DefaultDepth,
		Fill:  DefaultRectFill,
		Rect:  &RectPayload{Width: DefaultRectSide, Height: DefaultRectSide},
	}), key
}

// AddCircle appends a default circle and returns its key.
func (c Collection) AddCircle() (Collection, int) {
	key := c.nextKey()
	return c.with(Shape{
		Key:    key,
		X:      DefaultPosition,
		Y:      DefaultPosition,
		Depth:  DefaultDepth,
		Fill:   DefaultCircleFill,
		Circle: &CirclePayload{Diameter: DefaultDiameter},
	}), key
}

// Find returns the shape with the given key.
func (c Collection) Find(key int) (Shape, bool) {
	i := c.index(key)
	if i < 0 {
		return Shape{}, false
	}
	return c[i].clone(), true
}

func (c Collection) index(key int) int {
	return slices.IndexFunc(c, func(s Shape) bool { return s.Key == key })
}

func (c Collection) update(key int, fn func(*Shape)) (Collection, error) {
	i := c.index(key)
	if i < 0 {
		return c, fmt.Errorf("shape %d: %w", key, ErrUnknownShape)
	}
	out := make(Collection, len(c))
	for j, s := range c {
		out[j] = s.clone()
	}
	fn(&out[i])
	return out, nil
}

// SetPosition moves the shape with key to centre (x, y).
func (c Collection) SetPosition(key int, x, y float64) (Collection, error) {
	return c.update(key, func(s *Shape) {
		s.X, s.Y = x, y
	})
}

// SetSize resizes a shape. A circle takes w as its diameter and ignores
// the rotation; a rectangle's rotation is normalized to [0, 360).
func (c Collection) SetSize(key int, h, w, rotation float64) (Collection, error) {
	return c.update(key, func(s *Shape) {
		switch {
		case s.Circle != nil:
			s.Circle.Diameter = w
		case s.Rect != nil:
			s.Rect.Width = w
			s.Rect.Height = h
			s.Rect.Rotation = geometry.NormalizeDegrees(rotation)
		}
	})
}

// SetDepth sets the cut depth of the shape with key.
func (c Collection) SetDepth(key, depth int) (Collection, error) {
	return c.update(key, func(s *Shape) {
		s.Depth = depth
	})
}

// Nudge moves a shape by one NudgeStep. An unknown direction leaves the
// collection unchanged.
func (c Collection) Nudge(key int, dir Direction) (Collection, error) {
	return c.update(key, func(s *Shape) {
		switch dir {
		case Up:
			s.Y -= NudgeStep
		case Down:
			s.Y += NudgeStep
		case Left:
			s.X -= NudgeStep
		case Right:
			s.X += NudgeStep
		}
	})
}

// Remove drops the shape with the given key. Removing an unknown key is a
// no-op.
func (c Collection) Remove(key int) Collection {
	out := make(Collection, 0, len(c))
	for _, s := range c {
		if s.Key != key {
			out = append(out, s.clone())
		}
	}
	return out
}

// Outside returns the keys of shapes whose centre lies outside the contour.
// A contour with fewer than three points encloses nothing and is not checked.
func (c Collection) Outside(ct contour.Contour) []int {
	if ct.Len() < 3 {
		return nil
	}
	var keys []int
	for _, s := range c {
		if !ct.Contains(s.Centre()) {
			keys = append(keys, s.Key)
		}
	}
	return keys
}
