package project

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Property keys with a meaning to the crop tool.
const (
	KeyWidth  = "width"
	KeyHeight = "height"
)

// Property is one "key: value" line.
type Property struct {
	Key   string
	Value string
}

// Properties is an ordered list of "key: value" lines.
type Properties []Property

// ParseProperties reads "key: value" lines. Lines without a colon or
// without a value are dropped.
func ParseProperties(text string) Properties {
	var out Properties
	for line := range strings.Lines(text) {
		key, value, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			continue
		}
		out = out.Set(key, value)
	}
	return out
}

func (p Properties) String() string {
	var b strings.Builder
	for _, prop := range p {
		b.WriteString(prop.Key)
		b.WriteString(": ")
		b.WriteString(prop.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (string, bool) {
	i := slices.IndexFunc(p, func(prop Property) bool { return prop.Key == key })
	if i < 0 {
		return "", false
	}
	return p[i].Value, true
}

// Set replaces the value of key, or appends it.
func (p Properties) Set(key, value string) Properties {
	out := slices.Clone(p)
	i := slices.IndexFunc(out, func(prop Property) bool { return prop.Key == key })
	if i < 0 {
		return append(out, Property{Key: key, Value: value})
	}
	out[i].Value = value
	return out
}

func (p Properties) number(key string) (float64, bool) {
	v, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// FillDimensions derives a missing physical width or height from the other
// one and the aspect ratio of a cropW x cropH crop.
func (p Properties) FillDimensions(cropW, cropH int) Properties {
	if cropW <= 0 || cropH <= 0 {
		return p
	}
	w, hasW := p.number(KeyWidth)
	h, hasH := p.number(KeyHeight)
	switch {
	case hasH && !hasW:
		w = math.Round(h / float64(cropH) * float64(cropW))
		return p.Set(KeyWidth, strconv.FormatFloat(w, 'f', -1, 64))
	case hasW && !hasH:
		h = math.Round(w / float64(cropW) * float64(cropH))
		return p.Set(KeyHeight, strconv.FormatFloat(h, 'f', -1, 64))
	}
	return p
}
