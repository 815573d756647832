package overlay

import (
	"errors"
	"math"

	"foam-sizer/pkg/geometry"
)

// ErrEmptyCrop is returned for a crop rectangle without area.
var ErrEmptyCrop = errors.New("crop rectangle is empty")

// CropRequest is the plain rectangular crop + rotate contract: rotate the
// source by Rotation (expanding the canvas to the rotated bounds), then
// extract the rectangle. It never pads.
type CropRequest struct {
	Left     int     `json:"left"`
	Top      int     `json:"top"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Rotation float64 `json:"rotationDegrees"`
}

// NewCropRequest builds a crop from a selection rectangle dragged over the
// rotated image. A selection dragged past the top or left edge starts at zero.
func NewCropRequest(r geometry.RectInt, rotation float64) (CropRequest, error) {
	if r.Empty() {
		return CropRequest{}, ErrEmptyCrop
	}
	return CropRequest{
		Left:     max(r.X, 0),
		Top:      max(r.Y, 0),
		Width:    r.Width,
		Height:   r.Height,
		Rotation: rotation,
	}, nil
}

// ScaleToFit returns the uniform scale that fits an image of the given
// natural size inside the stage. An unknown image size scales by 1.
func ScaleToFit(natural, stage geometry.Size) float64 {
	if natural.IsZero() {
		return 1
	}
	return math.Min(stage.Width/natural.Width, stage.Height/natural.Height)
}
