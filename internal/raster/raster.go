// Package raster applies overlay directives and crop requests to image
// files. Two backends implement the same pipeline: one on OpenCV, one in
// pure Go.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"foam-sizer/internal/overlay"
	"foam-sizer/pkg/geometry"
)

// ErrUnknownBackend is returned by New for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown raster backend")

// Backend names accepted by New.
const (
	NameOpenCV = "opencv"
	NameGo     = "go"
)

// ComposeJob reproduces an overlay placement: SourcePath is rotated and
// resized to the directive's final size, padded, cropped and written as
// PNG to DestPath.
type ComposeJob struct {
	SourcePath string
	DestPath   string
	Directive  overlay.Directive
}

// CropJob rotates SourcePath with canvas expansion and extracts a rectangle.
type CropJob struct {
	SourcePath string
	DestPath   string
	Request    overlay.CropRequest
}

// Backend reproduces directives and crop requests on image files.
type Backend interface {
	Compose(ComposeJob) error
	Crop(CropJob) error
}

// New returns the backend registered under name.
func New(name string) (Backend, error) {
	switch name {
	case NameOpenCV, "":
		return CVBackend{}, nil
	case NameGo:
		return GoBackend{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownBackend)
}

// rotatedCanvas is the whole-pixel size of a w x h image rotated by deg
// with its canvas expanded to fit.
func rotatedCanvas(w, h int, deg float64) image.Point {
	b := geometry.TransformedBounds(geometry.NewSize(float64(w), float64(h)), geometry.RotationDeg(deg))
	return image.Point{X: int(math.Round(b.Width)), Y: int(math.Round(b.Height))}
}

// placement maps a w x h image rotated clockwise by deg about its top-left
// corner so that its rotated bounding box fills an image of the given size.
func placement(w, h int, deg float64, size image.Point) geometry.AffineTransform {
	rot := geometry.RotationDeg(deg)
	bbox := geometry.TransformedBounds(geometry.NewSize(float64(w), float64(h)), rot)

	sx, sy := 1.0, 1.0
	if bbox.Width > 0 {
		sx = float64(size.X) / bbox.Width
	}
	if bbox.Height > 0 {
		sy = float64(size.Y) / bbox.Height
	}
	return geometry.Scale(sx, sy).
		Compose(geometry.Translation(-bbox.X, -bbox.Y)).
		Compose(rot)
}

// clampRect limits a crop request to the available canvas. A crop never
// pads, so a request past the edge is shortened.
func clampRect(r overlay.CropRequest, bounds image.Rectangle) image.Rectangle {
	rect := image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
	return rect.Intersect(bounds)
}
