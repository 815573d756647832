package contour

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"foam-sizer/pkg/geometry"
)

// Format renders points as newline-separated "x,y" integer pairs in contour
// order, without a trailing newline.
func Format(points []geometry.Point2D) string {
	lines := make([]string, len(points))
	for i, p := range points {
		q := p.Round()
		lines[i] = strconv.Itoa(q.X) + "," + strconv.Itoa(q.Y)
	}
	return strings.Join(lines, "\n")
}

// Parse reads the format produced by Format. Lines that do not hold two
// integers are dropped; an empty text yields an empty slice.
func Parse(text string) []geometry.Point2D {
	points := make([]geometry.Point2D, 0)
	for _, line := range strings.Split(text, "\n") {
		if p, ok := ParseLine(line); ok {
			points = append(points, p.ToFloat())
		}
	}
	return points
}

// ParseLine parses a single "x,y" pair.
func ParseLine(line string) (geometry.PointInt, bool) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return geometry.PointInt{}, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return geometry.PointInt{}, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return geometry.PointInt{}, false
	}
	return geometry.PointInt{X: x, Y: y}, true
}

// Read parses points from r. Only read errors are returned.
func Read(r io.Reader) ([]geometry.Point2D, error) {
	points := make([]geometry.Point2D, 0)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if p, ok := ParseLine(sc.Text()); ok {
			points = append(points, p.ToFloat())
		}
	}
	return points, sc.Err()
}

// Write writes points to w in the contour text format.
func Write(w io.Writer, points []geometry.Point2D) error {
	_, err := io.WriteString(w, Format(points))
	return err
}
