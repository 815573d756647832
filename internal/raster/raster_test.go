package raster

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	fsimage "foam-sizer/internal/image"
	"foam-sizer/internal/overlay"
	"foam-sizer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xdraw "golang.org/x/image/draw"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// halves returns a w x h image, red on the left half and blue on the right.
func halves(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x < w/2 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	return img
}

func nearest() GoBackend {
	return GoBackend{Interp: xdraw.NearestNeighbor}
}

func TestNew(t *testing.T) {
	b, err := New("go")
	require.NoError(t, err)
	assert.IsType(t, GoBackend{}, b)

	b, err = New("opencv")
	require.NoError(t, err)
	assert.IsType(t, CVBackend{}, b)

	_, err = New("imagemagick")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRotatedCanvas(t *testing.T) {
	assert.Equal(t, image.Pt(40, 20), rotatedCanvas(40, 20, 0))
	assert.Equal(t, image.Pt(20, 40), rotatedCanvas(40, 20, 90))
	assert.Equal(t, image.Pt(20, 40), rotatedCanvas(40, 20, -90))
	assert.Equal(t, image.Pt(71, 71), rotatedCanvas(50, 50, 45))
}

func TestPlacementMapsBoundingBoxOntoCanvas(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, 135, 200, 300} {
		size := rotatedCanvas(120, 80, deg)
		tr := placement(120, 80, deg, size)
		b := geometry.TransformedBounds(geometry.NewSize(120, 80), tr)
		assert.InDelta(t, 0, b.X, 1e-9, "x at %v", deg)
		assert.InDelta(t, 0, b.Y, 1e-9, "y at %v", deg)
		assert.InDelta(t, float64(size.X), b.Width, 1e-9, "width at %v", deg)
		assert.InDelta(t, float64(size.Y), b.Height, 1e-9, "height at %v", deg)
	}
}

func TestClampRect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	r := clampRect(overlay.CropRequest{Left: 90, Top: 10, Width: 30, Height: 10}, bounds)
	assert.Equal(t, image.Rect(90, 10, 100, 20), r)
	assert.True(t, clampRect(overlay.CropRequest{Left: 200, Width: 5, Height: 5}, bounds).Empty())
}

func TestRotateResizeQuarterTurn(t *testing.T) {
	out := nearest().RotateResize(halves(4, 2), 90, image.Pt(2, 4))
	require.Equal(t, image.Rect(0, 0, 2, 4), out.Bounds())
	// Clockwise: the left half of the source ends up on top.
	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, red, out.NRGBAAt(1, 1))
	assert.Equal(t, blue, out.NRGBAAt(0, 2))
	assert.Equal(t, blue, out.NRGBAAt(1, 3))
}

func TestRotateResizeScales(t *testing.T) {
	out := nearest().RotateResize(halves(4, 2), 0, image.Pt(8, 4))
	assert.Equal(t, red, out.NRGBAAt(3, 3))
	assert.Equal(t, blue, out.NRGBAAt(4, 0))
}

func TestPad(t *testing.T) {
	e := overlay.Extend{Left: 2, Top: 1, Right: 1, Background: overlay.Background{G: 255, Alpha: 1}}
	out := Pad(halves(2, 2), e)
	require.Equal(t, image.Rect(0, 0, 5, 3), out.Bounds())
	green := color.NRGBA{G: 255, A: 255}
	assert.Equal(t, green, out.NRGBAAt(0, 0))
	assert.Equal(t, green, out.NRGBAAt(4, 2))
	assert.Equal(t, red, out.NRGBAAt(2, 1))
	assert.Equal(t, blue, out.NRGBAAt(3, 2))
}

func TestSubImageOutsideIsTransparent(t *testing.T) {
	out := SubImage(halves(4, 2), image.Rect(2, 0, 6, 2))
	require.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	assert.Equal(t, blue, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(3, 1))
}

func TestApplyDirectivePadsUncoveredStrip(t *testing.T) {
	// A 4x4 overlay shown 2px right of a 4x4 base image.
	d, err := overlay.Compose(overlay.Placement{X: 2, Width: 4, Height: 4}, 1, geometry.NewSize(4, 4))
	require.NoError(t, err)

	out, err := nearest().ApplyDirective(halves(4, 4), d)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(1, 3))
	assert.Equal(t, red, out.NRGBAAt(2, 0))
	assert.Equal(t, red, out.NRGBAAt(3, 3))
}

func TestApplyDirectiveCropsOverhang(t *testing.T) {
	d, err := overlay.Compose(overlay.Placement{X: -2, Width: 4, Height: 4}, 1, geometry.NewSize(4, 4))
	require.NoError(t, err)

	out, err := nearest().ApplyDirective(halves(4, 4), d)
	require.NoError(t, err)
	assert.Equal(t, blue, out.NRGBAAt(0, 0))
	assert.Equal(t, blue, out.NRGBAAt(1, 3))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(2, 0))
}

func TestApplyDirectiveRejectsEmptySize(t *testing.T) {
	_, err := nearest().ApplyDirective(halves(2, 2), overlay.Directive{})
	assert.Error(t, err)
}

func TestApplyCrop(t *testing.T) {
	out, err := nearest().ApplyCrop(halves(4, 2), overlay.CropRequest{Left: 1, Top: 0, Width: 2, Height: 2})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, blue, out.NRGBAAt(1, 1))

	// Never pads: a request past the edge is shortened.
	out, err = nearest().ApplyCrop(halves(4, 2), overlay.CropRequest{Left: 3, Width: 5, Height: 5})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 2), out.Bounds())

	_, err = nearest().ApplyCrop(halves(4, 2), overlay.CropRequest{Left: 9, Width: 1, Height: 1})
	assert.ErrorIs(t, err, overlay.ErrEmptyCrop)
}

func TestGoBackendFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover.png")
	require.NoError(t, fsimage.SavePNG(src, halves(4, 4)))

	d, err := overlay.Compose(overlay.Placement{Width: 4, Height: 4}, 1, geometry.NewSize(4, 4))
	require.NoError(t, err)
	dst := filepath.Join(dir, "out_cover.png")
	require.NoError(t, nearest().Compose(ComposeJob{SourcePath: src, DestPath: dst, Directive: d}))

	size, err := fsimage.NaturalSize(dst)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewSize(4, 4), size)

	crop := filepath.Join(dir, "crop.png")
	require.NoError(t, nearest().Crop(CropJob{SourcePath: src, DestPath: crop, Request: overlay.CropRequest{Width: 3, Height: 2}}))
	size, err = fsimage.NaturalSize(crop)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewSize(3, 2), size)

	err = nearest().Compose(ComposeJob{SourcePath: filepath.Join(dir, "missing.png"), DestPath: dst, Directive: d})
	assert.Error(t, err)
}
