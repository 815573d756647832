package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	fsimage "foam-sizer/internal/image"
	"foam-sizer/internal/overlay"
	"foam-sizer/pkg/colorutil"
	"foam-sizer/pkg/geometry"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// GoBackend runs the pipeline with golang.org/x/image/draw. Interp
// defaults to bilinear sampling.
type GoBackend struct {
	Interp xdraw.Interpolator
}

func (b GoBackend) interp() xdraw.Interpolator {
	if b.Interp == nil {
		return xdraw.BiLinear
	}
	return b.Interp
}

// Compose loads the source, applies the directive and writes a PNG.
func (b GoBackend) Compose(job ComposeJob) error {
	src, err := fsimage.Load(job.SourcePath)
	if err != nil {
		return err
	}
	out, err := b.ApplyDirective(src.Image, job.Directive)
	if err != nil {
		return err
	}
	return fsimage.SavePNG(job.DestPath, out)
}

// Crop loads the source, applies the crop request and writes a PNG.
func (b GoBackend) Crop(job CropJob) error {
	src, err := fsimage.Load(job.SourcePath)
	if err != nil {
		return err
	}
	out, err := b.ApplyCrop(src.Image, job.Request)
	if err != nil {
		return err
	}
	return fsimage.SavePNG(job.DestPath, out)
}

// ApplyDirective rotates and resizes src, pads it and crops it.
func (b GoBackend) ApplyDirective(src image.Image, d overlay.Directive) (*image.NRGBA, error) {
	if d.FinalSize.Width <= 0 || d.FinalSize.Height <= 0 {
		return nil, fmt.Errorf("directive has no final size: %dx%d", d.FinalSize.Width, d.FinalSize.Height)
	}
	resized := b.RotateResize(src, d.Rotation, image.Pt(d.FinalSize.Width, d.FinalSize.Height))
	padded := Pad(resized, d.Extend)
	c := d.Crop
	return SubImage(padded, image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)), nil
}

// ApplyCrop rotates src with canvas expansion and extracts the requested
// rectangle, shortened to the canvas.
func (b GoBackend) ApplyCrop(src image.Image, r overlay.CropRequest) (*image.NRGBA, error) {
	sb := src.Bounds()
	rotated := b.RotateResize(src, r.Rotation, rotatedCanvas(sb.Dx(), sb.Dy(), r.Rotation))
	rect := clampRect(r, rotated.Bounds())
	if rect.Empty() {
		return nil, overlay.ErrEmptyCrop
	}
	return SubImage(rotated, rect), nil
}

// RotateResize rotates src clockwise by deg about its top-left corner and
// maps the rotated bounding box onto an image of the given size.
func (b GoBackend) RotateResize(src image.Image, deg float64, size image.Point) *image.NRGBA {
	sb := src.Bounds()
	t := placement(sb.Dx(), sb.Dy(), deg, size).
		Compose(geometry.Translation(-float64(sb.Min.X), -float64(sb.Min.Y)))

	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	b.interp().Transform(dst, f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}, src, sb, xdraw.Over, nil)
	return dst
}

// Pad surrounds img with the extend margins filled with its background.
func Pad(img image.Image, e overlay.Extend) *image.NRGBA {
	ib := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, ib.Dx()+e.Left+e.Right, ib.Dy()+e.Top+e.Bottom))
	bg := e.Background
	var fill color.Color = colorutil.NRGBA(bg.R, bg.G, bg.B, bg.Alpha)
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	draw.Draw(out, ib.Sub(ib.Min).Add(image.Pt(e.Left, e.Top)), img, ib.Min, draw.Src)
	return out
}

// SubImage copies r out of img into a new image anchored at the origin.
// Parts of r outside img stay transparent.
func SubImage(img image.Image, r image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
