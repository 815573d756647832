package shapes

import (
	"bytes"
	"testing"

	"foam-sizer/internal/contour"
	"foam-sizer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDefaults(t *testing.T) {
	var c Collection
	c, rk := c.AddRect()
	c, ck := c.AddCircle()
	require.Len(t, c, 2)
	assert.Equal(t, 0, rk)
	assert.Equal(t, 1, ck)

	r, ok := c.Find(rk)
	require.True(t, ok)
	assert.Equal(t, KindRect, r.Kind())
	assert.Equal(t, geometry.Point2D{X: 100, Y: 100}, r.Centre())
	assert.Equal(t, &RectPayload{Width: 100, Height: 100}, r.Rect)
	assert.Equal(t, "red", r.Fill)
	assert.Equal(t, 10, r.Depth)

	ci, ok := c.Find(ck)
	require.True(t, ok)
	assert.Equal(t, KindCircle, ci.Kind())
	assert.Equal(t, &CirclePayload{Diameter: 50}, ci.Circle)
	assert.Equal(t, "green", ci.Fill)
}

func TestFreshKeysAfterRemoval(t *testing.T) {
	var c Collection
	c, _ = c.AddRect()
	c, _ = c.AddRect()
	c, _ = c.AddRect()
	c = c.Remove(1)
	c, key := c.AddCircle()
	assert.Equal(t, 3, key)

	keys := make(map[int]bool)
	for _, s := range c {
		assert.False(t, keys[s.Key], "duplicate key %d", s.Key)
		keys[s.Key] = true
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	var c Collection
	c, key := c.AddRect()

	moved, err := c.SetPosition(key, 5, 6)
	require.NoError(t, err)
	resized, err := moved.SetSize(key, 20, 30, -90)
	require.NoError(t, err)

	assert.Equal(t, 100.0, c[0].X)
	assert.Equal(t, 100.0, c[0].Rect.Width)
	assert.Equal(t, 5.0, moved[0].X)
	assert.Equal(t, 100.0, moved[0].Rect.Width)
	assert.Equal(t, &RectPayload{Width: 30, Height: 20, Rotation: 270}, resized[0].Rect)
}

func TestSetSizeCircleIgnoresRotation(t *testing.T) {
	var c Collection
	c, key := c.AddCircle()
	c, err := c.SetSize(key, 80, 70, 45)
	require.NoError(t, err)
	s, _ := c.Find(key)
	assert.Nil(t, s.Rect)
	assert.Equal(t, 70.0, s.Circle.Diameter)
}

func TestSetSizeNormalizesRotation(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{45, 45},
		{360, 0},
		{370, 10},
		{-45, 315},
	}
	for _, tt := range tests {
		var c Collection
		c, key := c.AddRect()
		c, err := c.SetSize(key, 1, 1, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c[0].Rect.Rotation, "rotation %v", tt.in)
	}
}

func TestNudgeAndDepth(t *testing.T) {
	var c Collection
	c, key := c.AddRect()
	for _, d := range []Direction{Up, Up, Left, Down, Right, Right, "sideways"} {
		var err error
		c, err = c.Nudge(key, d)
		require.NoError(t, err)
	}
	assert.Equal(t, geometry.Point2D{X: 101, Y: 99}, c[0].Centre())

	c, err := c.SetDepth(key, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, c[0].Depth)
}

func TestUnknownKey(t *testing.T) {
	var c Collection
	c, _ = c.AddRect()
	_, err := c.SetPosition(9, 0, 0)
	assert.ErrorIs(t, err, ErrUnknownShape)
	_, err = c.Nudge(9, Up)
	assert.ErrorIs(t, err, ErrUnknownShape)
	_, ok := c.Find(9)
	assert.False(t, ok)
	assert.Len(t, c.Remove(9), 1)
}

func TestOutside(t *testing.T) {
	square := contour.New([]geometry.Point2D{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}, {X: 0, Y: 200}})

	var c Collection
	c, in := c.AddRect()
	c, out := c.AddCircle()
	c, err := c.SetPosition(out, 250, 50)
	require.NoError(t, err)

	assert.Equal(t, []int{out}, c.Outside(square))
	assert.NotContains(t, c.Outside(square), in)
	assert.Nil(t, c.Outside(contour.Contour{}))
}

func TestJSONRoundTrip(t *testing.T) {
	var c Collection
	c, _ = c.AddRect()
	c, _ = c.AddCircle()
	c, err := c.SetSize(0, 40, 60, 30)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))
	assert.Contains(t, buf.String(), `"rotation": 30`)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestUnmarshalCircleHasNoRotation(t *testing.T) {
	var c Collection
	c, _ = c.AddCircle()
	data, err := Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rotation")
	assert.Contains(t, string(data), `"width": 50`)
	assert.Contains(t, string(data), `"height": 50`)
}

func TestUnmarshalSkipsBadRecords(t *testing.T) {
	data := []byte(`[
		{"type": "rect", "key": 0, "x": 1, "y": 2, "width": 3, "height": 4, "rotation": -90, "fill": "blue", "depth": 5},
		{"type": "hexagon", "key": 1, "x": 1, "y": 2, "width": 3, "height": 4, "fill": "red", "depth": 5},
		{"type": "circle", "key": 2, "x": 1, "width": 3, "height": 3, "fill": "red", "depth": 5},
		{"type": "circle", "key": "three", "x": 1, "y": 1, "width": 3, "height": 3},
		"junk",
		{"type": "circle", "key": 4, "x": 7, "y": 8, "width": 9, "height": 9, "fill": "not-a-colour", "depth": 1}
	]`)
	c, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, c, 2)

	assert.Equal(t, Shape{
		Key: 0, X: 1, Y: 2, Depth: 5, Fill: "blue",
		Rect: &RectPayload{Width: 3, Height: 4, Rotation: 270},
	}, c[0])
	assert.Equal(t, Shape{
		Key: 4, X: 7, Y: 8, Depth: 1, Fill: DefaultCircleFill,
		Circle: &CirclePayload{Diameter: 9},
	}, c[1])
}

func TestUnmarshalEmptyAndInvalid(t *testing.T) {
	c, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, c)

	c, err = Unmarshal([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = Unmarshal([]byte(`{"type": "rect"}`))
	assert.Error(t, err)
}
