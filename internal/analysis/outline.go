package analysis

import (
	"context"
	"fmt"
	"image"
	"strings"

	"foam-sizer/internal/contour"
	"foam-sizer/internal/logger"
	"foam-sizer/pkg/geometry"

	"gocv.io/x/gocv"
)

// OutlineParams tunes the outline detector.
type OutlineParams struct {
	BlurSize      int     // Gaussian kernel, odd
	BlockSize     int     // adaptive threshold neighbourhood, odd
	C             float32 // constant subtracted from the neighbourhood mean
	CloseSize     int     // square closing kernel
	EpsilonFactor float64 // polygon simplification, fraction of the perimeter
}

// DefaultOutlineParams works for a dark object photographed on a light,
// unevenly lit background.
func DefaultOutlineParams() OutlineParams {
	return OutlineParams{
		BlurSize:      5,
		BlockSize:     135,
		C:             2,
		CloseSize:     25,
		EpsilonFactor: 0.0025,
	}
}

// DetectOutline finds the largest external contour of the object in a BGR
// or grayscale image and simplifies it to a polygon. It returns nil when
// nothing stands out from the background.
func DetectOutline(img gocv.Mat, p OutlineParams) []geometry.PointInt {
	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{p.BlurSize, p.BlurSize}, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, p.BlockSize, p.C)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{p.CloseSize, p.CloseSize})
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
		logger.L().Debug("analysis.outline_empty", "rows", img.Rows(), "cols", img.Cols())
		return nil
	}

	c := contours.At(best)
	eps := p.EpsilonFactor * gocv.ArcLength(c, true)
	approx := gocv.ApproxPolyDP(c, eps, true)
	defer approx.Close()

	pts := toPoints(approx.ToPoints())
	logger.L().Debug("analysis.outline",
		"contours", len(areas), "area", areas[best], "epsilon", eps, "points", len(pts))
	return pts
}

// DetectOutlineFile reads an image from disk and runs DetectOutline.
func DetectOutlineFile(path string, p OutlineParams) ([]geometry.PointInt, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("failed to read image: %s", path)
	}
	defer img.Close()

	pts := DetectOutline(img, p)
	if len(pts) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoOutline)
	}
	return pts, nil
}

// CVTracer traces in process with DetectOutline.
type CVTracer struct {
	Params OutlineParams
}

// Trace detects the outline of imagePath and streams its points.
func (t CVTracer) Trace(ctx context.Context, imagePath string) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pts, err := DetectOutlineFile(imagePath, t.Params)
	if err != nil {
		return nil, err
	}
	points := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		points[i] = p.ToFloat()
	}
	return NewStream(strings.NewReader(contour.Format(points)), nil), nil
}
