package overlay

import (
	"errors"
	"fmt"
	"math"

	"foam-sizer/pkg/geometry"
)

// ErrNotReady is returned when a directive is requested before the base
// image, and therefore the target size, is known.
var ErrNotReady = errors.New("base image size unknown")

// Placement is the final on-screen state of the overlay in canvas units: the
// position of its unrotated top-left anchor after dragging, its unrotated
// size and its rotation about the anchor.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// SizeInt is a size in whole pixels.
type SizeInt struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Crop is the region extracted from the padded, rotated overlay.
type Crop struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Background is the padding colour; Alpha is in [0, 1].
type Background struct {
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	Alpha float64 `json:"alpha"`
}

// Transparent is the default padding colour.
var Transparent = Background{}

// Extend is the padding added around the rotated overlay before cropping.
type Extend struct {
	Top        int        `json:"top"`
	Left       int        `json:"left"`
	Bottom     int        `json:"bottom"`
	Right      int        `json:"right"`
	Background Background `json:"background"`
}

// IsZero reports whether no padding is needed.
func (e Extend) IsZero() bool {
	return e.Top == 0 && e.Left == 0 && e.Bottom == 0 && e.Right == 0
}

// Directive tells a raster backend how to reproduce a placement: rotate the
// source by Rotation and resize it to FinalSize, pad it per Extend, then
// crop it per Crop. Crop indices refer to the padded canvas.
type Directive struct {
	FinalSize SizeInt `json:"finalSize"`
	Extend    Extend  `json:"extend"`
	Crop      Crop    `json:"crop"`
	Rotation  float64 `json:"rotation"`
}

// Compose derives the directive for an overlay placement. imageScale is the
// number of canvas units per source pixel; target is the base image's
// natural size in pixels, which is also the size of the crop.
func Compose(p Placement, imageScale float64, target geometry.Size) (Directive, error) {
	if target.IsZero() {
		return Directive{}, ErrNotReady
	}
	if imageScale <= 0 {
		return Directive{}, fmt.Errorf("compose: invalid image scale %v", imageScale)
	}

	bbox := RoundedRotatedBoundingSize(p.Height, p.Width, p.Rotation)
	final := SizeInt{
		Width:  roundInt(bbox.Width / imageScale),
		Height: roundInt(bbox.Height / imageScale),
	}

	off := AnchorOffset(p.Width, p.Height, p.Rotation)
	adjX := (p.X - float64(off.X)) / imageScale
	adjY := (p.Y - float64(off.Y)) / imageScale

	crop := Crop{
		Left:   roundInt(-adjX),
		Top:    roundInt(-adjY),
		Width:  roundInt(target.Width),
		Height: roundInt(target.Height),
	}

	ext := Extend{Background: Transparent}
	if crop.Left < 0 {
		ext.Left = -crop.Left
		crop.Left = 0
	}
	if crop.Top < 0 {
		ext.Top = -crop.Top
		crop.Top = 0
	}
	if right := crop.Left + crop.Width - final.Width - ext.Left; right > 0 {
		ext.Right = right
	}
	if bottom := crop.Top + crop.Height - final.Height - ext.Top; bottom > 0 {
		ext.Bottom = bottom
	}

	return Directive{
		FinalSize: final,
		Extend:    ext,
		Crop:      crop,
		Rotation:  geometry.NormalizeDegrees(p.Rotation),
	}, nil
}

// PaddedSize returns the canvas size after Extend is applied.
func (d Directive) PaddedSize() SizeInt {
	return SizeInt{
		Width:  d.FinalSize.Width + d.Extend.Left + d.Extend.Right,
		Height: d.FinalSize.Height + d.Extend.Top + d.Extend.Bottom,
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
