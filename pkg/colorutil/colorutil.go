// Package colorutil provides shared color utilities for shape fills and
// padding backgrounds.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent is the fully transparent padding colour.
var Transparent = color.NRGBA{}

// ParseFill resolves a CSS colour name ("red", "darkgreen") or a hex
// string ("#f00", "#ff0000") to an opaque colour.
func ParseFill(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, false
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// ValidFill reports whether s names a colour ParseFill understands.
func ValidFill(s string) bool {
	_, ok := ParseFill(s)
	return ok
}

// Hex formats a colour as #rrggbb, dropping alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// NRGBA builds a colour from 8-bit channels and an alpha in [0, 1].
func NRGBA(r, g, b uint8, alpha float64) color.NRGBA {
	alpha = min(max(alpha, 0), 1)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

// BGRA returns the channels in OpenCV scalar order, each in 0-255.
func BGRA(c color.NRGBA) (b, g, r, a float64) {
	return float64(c.B), float64(c.G), float64(c.R), float64(c.A)
}
