package raster

import (
	"fmt"
	"image"
	"image/color"

	"foam-sizer/internal/logger"
	"foam-sizer/internal/overlay"
	"foam-sizer/pkg/colorutil"

	"gocv.io/x/gocv"
)

// CVBackend runs the pipeline with OpenCV.
type CVBackend struct{}

func (CVBackend) Compose(job ComposeJob) error {
	d := job.Directive
	if d.FinalSize.Width <= 0 || d.FinalSize.Height <= 0 {
		return fmt.Errorf("directive has no final size: %dx%d", d.FinalSize.Width, d.FinalSize.Height)
	}

	src, err := readBGRA(job.SourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	resized := warp(src, d.Rotation, image.Pt(d.FinalSize.Width, d.FinalSize.Height))
	defer resized.Close()

	bg := d.Extend.Background
	fill := colorutil.NRGBA(bg.R, bg.G, bg.B, bg.Alpha)
	padded := gocv.NewMat()
	defer padded.Close()
	e := d.Extend
	gocv.CopyMakeBorder(resized, &padded, e.Top, e.Bottom, e.Left, e.Right, gocv.BorderConstant,
		color.RGBA{R: fill.R, G: fill.G, B: fill.B, A: fill.A})

	c := d.Crop
	out := region(padded, image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height))
	defer out.Close()

	logger.L().Debug("raster.compose",
		"src", job.SourcePath, "final", d.FinalSize, "extend", e, "crop", c, "rotation", d.Rotation)
	return write(job.DestPath, out)
}

func (CVBackend) Crop(job CropJob) error {
	src, err := readBGRA(job.SourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	r := job.Request
	rotated := warp(src, r.Rotation, rotatedCanvas(src.Cols(), src.Rows(), r.Rotation))
	defer rotated.Close()

	rect := clampRect(r, image.Rect(0, 0, rotated.Cols(), rotated.Rows()))
	if rect.Empty() {
		return overlay.ErrEmptyCrop
	}
	out := rotated.Region(rect)
	defer out.Close()

	logger.L().Debug("raster.crop", "src", job.SourcePath, "rect", rect, "rotation", r.Rotation)
	return write(job.DestPath, out)
}

// readBGRA loads an image with four channels so padding can be transparent.
func readBGRA(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	if img.Empty() {
		return img, fmt.Errorf("failed to read image: %s", path)
	}
	var code gocv.ColorConversionCode
	switch img.Channels() {
	case 4:
		return img, nil
	case 3:
		code = gocv.ColorBGRToBGRA
	case 1:
		code = gocv.ColorGrayToBGRA
	default:
		img.Close()
		return gocv.NewMat(), fmt.Errorf("%s: unsupported channel count %d", path, img.Channels())
	}
	bgra := gocv.NewMat()
	gocv.CvtColor(img, &bgra, code)
	img.Close()
	return bgra, nil
}

// warp rotates src clockwise by deg and maps its rotated bounding box onto
// a canvas of the given size in a single affine warp.
func warp(src gocv.Mat, deg float64, size image.Point) gocv.Mat {
	m := placement(src.Cols(), src.Rows(), deg, size).ToMatrix()

	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	for row := range 2 {
		for col := range 3 {
			transformMat.SetDoubleAt(row, col, m[row][col])
		}
	}

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, transformMat, size,
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})
	return dst
}

// region copies r out of m. Parts of r outside m stay transparent.
func region(m gocv.Mat, r image.Rectangle) gocv.Mat {
	b, g, rd, a := colorutil.BGRA(colorutil.Transparent)
	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, rd, a), r.Dy(), r.Dx(), m.Type())

	inside := r.Intersect(image.Rect(0, 0, m.Cols(), m.Rows()))
	if inside.Empty() {
		return out
	}
	srcROI := m.Region(inside)
	defer srcROI.Close()
	dstROI := out.Region(inside.Sub(r.Min))
	defer dstROI.Close()
	srcROI.CopyTo(&dstROI)
	return out
}

func write(path string, m gocv.Mat) error {
	if !gocv.IMWrite(path, m) {
		return fmt.Errorf("failed to write image: %s", path)
	}
	return nil
}
