package contour

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,2\n30,-4\n7,8", Format(pts(1, 2, 30, -4, 6.6, 8.2)))
	assert.Equal(t, "", Format(nil))
}

func TestParseRoundTrip(t *testing.T) {
	points := pts(0, 0, 120, 45, -3, 999, 7, 7)
	assert.Equal(t, points, Parse(Format(points)))
}

func TestParseDropsMalformedLines(t *testing.T) {
	text := "1,2\n3,\nfoo,4\n5,6,7\n 8 , 9 \r\n\n"
	assert.Equal(t, pts(1, 2, 8, 9), Parse(text))
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n"))
}

func TestReadWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pts(4, 5, 6, 7)))
	assert.Equal(t, "4,5\n6,7", buf.String())

	got, err := Read(strings.NewReader(buf.String() + "\nbad\n"))
	require.NoError(t, err)
	assert.Equal(t, pts(4, 5, 6, 7), got)
}

func TestParseLine(t *testing.T) {
	p, ok := ParseLine("12,34")
	require.True(t, ok)
	assert.Equal(t, 12, p.X)
	assert.Equal(t, 34, p.Y)

	_, ok = ParseLine(",34")
	assert.False(t, ok)
	_, ok = ParseLine("12")
	assert.False(t, ok)
}
