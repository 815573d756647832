// Package image loads the base scan and cover images of a project and
// reports their natural size.
package image

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "image/jpeg"

	"foam-sizer/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Image is a decoded image together with where it came from.
type Image struct {
	Path  string
	Image image.Image
	DPI   float64 // 0 when the file carries no resolution
}

// Load decodes a png, jpeg or tiff file.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	out := &Image{Path: path, Image: img}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			if dpi, err := TIFFDPI(file); err == nil {
				out.DPI = dpi
			}
		}
	}
	return out, nil
}

// NaturalSize reads only the header of an image file.
func NaturalSize(path string) (geometry.Size, error) {
	file, err := os.Open(path)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to read image header %s: %w", path, err)
	}
	return geometry.NewSize(float64(cfg.Width), float64(cfg.Height)), nil
}

// SavePNG writes img to path, creating or truncating the file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// Width returns the image width in pixels.
func (i *Image) Width() int {
	if i == nil || i.Image == nil {
		return 0
	}
	return i.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (i *Image) Height() int {
	if i == nil || i.Image == nil {
		return 0
	}
	return i.Image.Bounds().Dy()
}

// Size returns the pixel size, zero for a nil image.
func (i *Image) Size() geometry.Size {
	return geometry.NewSize(float64(i.Width()), float64(i.Height()))
}

// WidthMM returns the physical width if DPI is known.
func (i *Image) WidthMM() float64 {
	if i == nil || i.DPI == 0 {
		return 0
	}
	return float64(i.Width()) / i.DPI * 25.4
}

// HeightMM returns the physical height if DPI is known.
func (i *Image) HeightMM() float64 {
	if i == nil || i.DPI == 0 {
		return 0
	}
	return float64(i.Height()) / i.DPI * 25.4
}

// TIFFDPI reads the resolution tags of the first IFD.
func TIFFDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return 0, errors.New("not a valid TIFF file")
	}

	if _, err := r.Seek(int64(order.Uint32(header[4:8])), io.SeekStart); err != nil {
		return 0, err
	}
	var numEntries uint16
	if err := binary.Read(r, order, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // inches

	entry := make([]byte, 12)
	for range numEntries {
		if _, err := io.ReadFull(r, entry); err != nil {
			return 0, err
		}
		tag := order.Uint16(entry[0:2])
		fieldType := order.Uint16(entry[2:4])
		value := order.Uint32(entry[8:12])

		switch {
		case tag == 282 && fieldType == 5: // XResolution, RATIONAL
			xRes = readRational(r, int64(value), order)
		case tag == 283 && fieldType == 5: // YResolution
			yRes = readRational(r, int64(value), order)
		case tag == 296 && fieldType == 3: // ResolutionUnit, SHORT
			resUnit = order.Uint16(entry[8:10])
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, errors.New("no resolution tags found")
	}
	if resUnit == 3 { // centimetres
		dpi *= 2.54
	}
	return dpi, nil
}

func readRational(r io.ReadSeeker, offset int64, order binary.ByteOrder) float64 {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	defer r.Seek(pos, io.SeekStart)

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0
	}
	var v [2]uint32
	if err := binary.Read(r, order, &v); err != nil || v[1] == 0 {
		return 0
	}
	return float64(v[0]) / float64(v[1])
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	return slices.Contains(SupportedFormats(), strings.ToLower(filepath.Ext(path)))
}
