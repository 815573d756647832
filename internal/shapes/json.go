package shapes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"foam-sizer/internal/logger"
	"foam-sizer/pkg/colorutil"
	"foam-sizer/pkg/geometry"
)

// record is the on-disk form of a shape. Pointers mark required fields so
// a missing one can be told apart from a zero.
type record struct {
	Type     Kind     `json:"type"`
	Key      *int     `json:"key"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Rotation *float64 `json:"rotation,omitempty"`
	Fill     string   `json:"fill"`
	Depth    int      `json:"depth"`
}

func toRecord(s Shape) record {
	key, x, y := s.Key, s.X, s.Y
	w, h := s.Size()
	r := record{
		Type:   s.Kind(),
		Key:    &key,
		X:      &x,
		Y:      &y,
		Width:  &w,
		Height: &h,
		Fill:   s.Fill,
		Depth:  s.Depth,
	}
	if s.Rect != nil {
		rot := s.Rect.Rotation
		r.Rotation = &rot
	}
	return r
}

func (r record) shape() (Shape, error) {
	if r.Key == nil || r.X == nil || r.Y == nil || r.Width == nil || r.Height == nil {
		return Shape{}, fmt.Errorf("%s: missing required field", r.Type)
	}
	s := Shape{Key: *r.Key, X: *r.X, Y: *r.Y, Depth: r.Depth, Fill: r.Fill}
	switch r.Type {
	case KindRect:
		rect := &RectPayload{Width: *r.Width, Height: *r.Height}
		if r.Rotation != nil {
			rect.Rotation = geometry.NormalizeDegrees(*r.Rotation)
		}
		s.Rect = rect
		if !colorutil.ValidFill(s.Fill) {
			s.Fill = DefaultRectFill
		}
	case KindCircle:
		s.Circle = &CirclePayload{Diameter: *r.Width}
		if !colorutil.ValidFill(s.Fill) {
			s.Fill = DefaultCircleFill
		}
	default:
		return Shape{}, fmt.Errorf("type %q: %w", r.Type, ErrUnknownShape)
	}
	return s, nil
}

// Marshal encodes the collection as a JSON array of shape records.
func Marshal(c Collection) ([]byte, error) {
	recs := make([]record, 0, len(c))
	for _, s := range c {
		recs = append(recs, toRecord(s))
	}
	return json.MarshalIndent(recs, "", "  ")
}

// Unmarshal decodes a JSON shape array. Records that are malformed, carry
// an unknown type or lack a required field are skipped. Only input that is
// not an array at all is an error; empty input is an empty collection.
func Unmarshal(data []byte) (Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Collection{}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode shapes: %w", err)
	}
	out := make(Collection, 0, len(raw))
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			logger.L().Debug("shapes.skip_record", "index", i, "err", err)
			continue
		}
		s, err := r.shape()
		if err != nil {
			logger.L().Debug("shapes.skip_record", "index", i, "err", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// Read decodes a shape array from r.
func Read(r io.Reader) (Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read shapes: %w", err)
	}
	return Unmarshal(data)
}

// Write encodes c to w as an indented JSON array.
func Write(w io.Writer, c Collection) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encode shapes: %w", err)
	}
	_, err = w.Write(data)
	return err
}
