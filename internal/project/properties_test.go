package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProperties(t *testing.T) {
	text := "name: Caliper\r\nbrand:acme\nempty:\nno colon\n: orphan\nurl: http://x\nname: Caliper 2\n"
	want := Properties{
		{Key: "name", Value: "Caliper 2"},
		{Key: "brand", Value: "acme"},
		{Key: "url", Value: "http://x"},
	}
	assert.Equal(t, want, ParseProperties(text))
}

func TestPropertiesString(t *testing.T) {
	p := Properties{{Key: "a", Value: "1"}, {Key: "b", Value: "two"}}
	assert.Equal(t, "a: 1\nb: two\n", p.String())
	assert.Equal(t, p, ParseProperties(p.String()))
	assert.Equal(t, "", Properties(nil).String())
}

func TestPropertiesSetDoesNotMutate(t *testing.T) {
	p := Properties{{Key: "a", Value: "1"}}
	q := p.Set("a", "2").Set("b", "3")
	assert.Equal(t, "1", p[0].Value)
	v, ok := q.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = p.Get("b")
	assert.False(t, ok)
}

func TestFillDimensions(t *testing.T) {
	tests := []struct {
		name         string
		in           Properties
		cropW, cropH int
		want         Properties
	}{
		{
			name:  "width from height",
			in:    Properties{{Key: "height", Value: "200"}},
			cropW: 300, cropH: 600,
			want: Properties{{Key: "height", Value: "200"}, {Key: "width", Value: "100"}},
		},
		{
			name:  "height from width, rounded",
			in:    Properties{{Key: "width", Value: "100"}},
			cropW: 300, cropH: 200,
			want: Properties{{Key: "width", Value: "100"}, {Key: "height", Value: "67"}},
		},
		{
			name:  "both present",
			in:    Properties{{Key: "width", Value: "1"}, {Key: "height", Value: "2"}},
			cropW: 300, cropH: 200,
			want: Properties{{Key: "width", Value: "1"}, {Key: "height", Value: "2"}},
		},
		{
			name:  "non-numeric",
			in:    Properties{{Key: "width", Value: "wide"}},
			cropW: 300, cropH: 200,
			want: Properties{{Key: "width", Value: "wide"}},
		},
		{
			name:  "no crop",
			in:    Properties{{Key: "width", Value: "100"}},
			want: Properties{{Key: "width", Value: "100"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.FillDimensions(tt.cropW, tt.cropH))
		})
	}
}
