package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"foam-sizer/internal/shapes"
	"foam-sizer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 6, 30, 11, 57, 51, 0, time.UTC)

func TestCreateNamesFolderAfterTimestamp(t *testing.T) {
	base := filepath.Join(t.TempDir(), "foamsizer")
	f, err := Create(base, created, "")
	require.NoError(t, err)
	assert.Equal(t, "20240630-115751", f.Name())
	assert.DirExists(t, f.Dir)
	assert.False(t, f.Has(PropertiesFile))
	assert.Equal(t, filepath.Join(f.Dir, "20240630-115751_cover.png"), f.ComposedPath())

	_, err = Create(base, created, "")
	assert.Error(t, err, "second folder in the same second")
}

func TestCreateUsesUTC(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	f, err := Create(t.TempDir(), created.In(zone), "")
	require.NoError(t, err)
	assert.Equal(t, "20240630-115751", f.Name())
}

func TestCreateSeedsPropertiesFromTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "properties.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("name: \nbrand: acme\n"), 0o644))

	f, err := Create(filepath.Join(dir, "projects"), created, tmpl)
	require.NoError(t, err)
	props, err := f.LoadProperties()
	require.NoError(t, err)
	assert.Equal(t, Properties{{Key: "brand", Value: "acme"}}, props)

	f2, err := Create(filepath.Join(dir, "projects"), created.Add(time.Second), filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, f2.Has(PropertiesFile))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, MainImage), f.MainPath())

	_, err = Open(filepath.Join(dir, "nope"))
	assert.Error(t, err)

	file := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Open(file)
	assert.Error(t, err)
}

func TestMissingFilesLoadEmpty(t *testing.T) {
	f := Folder{Dir: t.TempDir()}

	points, err := f.LoadContour()
	require.NoError(t, err)
	assert.Empty(t, points)

	c, err := f.LoadShapes()
	require.NoError(t, err)
	assert.Empty(t, c)

	props, err := f.LoadProperties()
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestContourAndShapesRoundTrip(t *testing.T) {
	f := Folder{Dir: t.TempDir()}

	points := []geometry.Point2D{{X: 1, Y: 2}, {X: 30, Y: 4}, {X: 5, Y: 60}}
	require.NoError(t, f.SaveContour(points))
	got, err := f.LoadContour()
	require.NoError(t, err)
	assert.Equal(t, points, got)

	var c shapes.Collection
	c, _ = c.AddRect()
	c, _ = c.AddCircle()
	require.NoError(t, f.SaveShapes(c))
	gotShapes, err := f.LoadShapes()
	require.NoError(t, err)
	assert.Equal(t, c, gotShapes)
}

func TestLoadShapesRejectsNonArray(t *testing.T) {
	f := Folder{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(f.ShapesPath(), []byte(`{"oops": true}`), 0o644))
	_, err := f.LoadShapes()
	assert.Error(t, err)
}
