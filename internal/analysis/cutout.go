package analysis

import (
	"fmt"
	"image"
	"image/color"

	"foam-sizer/internal/logger"

	"gocv.io/x/gocv"
)

// Cutout thresholds for photos of an object on a white sheet.
const (
	CutoutThreshold  = 240
	CutoutCloseSize  = 11
	cutoutForeground = 255
)

// RemoveBackground returns a BGRA copy of img in which everything outside
// the largest object standing out from the white background is
// transparent black. The caller closes the result.
func RemoveBackground(img gocv.Mat) (gocv.Mat, error) {
	bgra := gocv.NewMat()
	defer bgra.Close()
	switch img.Channels() {
	case 4:
		img.CopyTo(&bgra)
	case 3:
		gocv.CvtColor(img, &bgra, gocv.ColorBGRToBGRA)
	default:
		gocv.CvtColor(img, &bgra, gocv.ColorGrayToBGRA)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgra, &gray, gocv.ColorBGRAToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, CutoutThreshold, cutoutForeground, gocv.ThresholdBinaryInv)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{CutoutCloseSize, CutoutCloseSize})
	defer kernel.Close()
	gocv.MorphologyEx(thresh, &thresh, gocv.MorphClose, kernel)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	areas := make([]float64, contours.Size())
	for i := range areas {
		areas[i] = gocv.ContourArea(contours.At(i))
	}
	best := largest(areas)
	if best < 0 {
		return gocv.NewMat(), ErrNoOutline
	}

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV8U)
	defer mask.Close()
	gocv.DrawContours(&mask, contours, best, color.RGBA{R: cutoutForeground, G: cutoutForeground, B: cutoutForeground}, -1)

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV8UC4)
	gocv.BitwiseAndWithMask(bgra, bgra, &out, mask)

	logger.L().Debug("analysis.cutout", "contours", len(areas), "area", areas[best])
	return out, nil
}

// RemoveBackgroundFile cuts the object out of src and writes a PNG with a
// transparent background to dst.
func RemoveBackgroundFile(src, dst string) error {
	img := gocv.IMRead(src, gocv.IMReadUnchanged)
	if img.Empty() {
		return fmt.Errorf("failed to read image: %s", src)
	}
	defer img.Close()

	out, err := RemoveBackground(img)
	defer out.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if !gocv.IMWrite(dst, out) {
		return fmt.Errorf("failed to write image: %s", dst)
	}
	return nil
}
