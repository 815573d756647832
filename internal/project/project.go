// Package project manages a foam insert's working folder: the scan, the
// cover artwork, the traced contour, the placed shapes and free-form
// properties.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"foam-sizer/internal/contour"
	"foam-sizer/internal/shapes"
	"foam-sizer/pkg/geometry"
)

// File names inside a project folder.
const (
	MainImage      = "main.png"
	CoverImage     = "cover.png"
	ContourFile    = "contour.txt"
	ShapesFile     = "shapes.json"
	PropertiesFile = "properties.txt"
)

// NameLayout formats the creation time into a folder name.
const NameLayout = "20060102-150405"

// Folder is a project directory on disk.
type Folder struct {
	Dir string
}

// Open returns the folder at dir, which must exist.
func Open(dir string) (Folder, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Folder{}, fmt.Errorf("open project: %w", err)
	}
	if !info.IsDir() {
		return Folder{}, fmt.Errorf("open project: %s is not a directory", dir)
	}
	return Folder{Dir: filepath.Clean(dir)}, nil
}

// Create makes a new folder under baseDir named after now (UTC) and seeds
// its properties from template when one is given and exists.
func Create(baseDir string, now time.Time, template string) (Folder, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return Folder{}, fmt.Errorf("create project: %w", err)
	}
	dir := filepath.Join(baseDir, now.UTC().Format(NameLayout))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return Folder{}, fmt.Errorf("create project: %w", err)
	}
	f := Folder{Dir: dir}

	if template == "" {
		return f, nil
	}
	data, err := os.ReadFile(template)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read properties template: %w", err)
	}
	if err := os.WriteFile(f.PropertiesPath(), data, 0o644); err != nil {
		return f, fmt.Errorf("seed properties: %w", err)
	}
	return f, nil
}

// Name is the folder's base name.
func (f Folder) Name() string {
	return filepath.Base(f.Dir)
}

func (f Folder) path(name string) string {
	return filepath.Join(f.Dir, name)
}

func (f Folder) MainPath() string       { return f.path(MainImage) }
func (f Folder) CoverPath() string      { return f.path(CoverImage) }
func (f Folder) ContourPath() string    { return f.path(ContourFile) }
func (f Folder) ShapesPath() string     { return f.path(ShapesFile) }
func (f Folder) PropertiesPath() string { return f.path(PropertiesFile) }

// ComposedPath is where the aligned or cropped cover is written.
func (f Folder) ComposedPath() string {
	return f.path(f.Name() + "_cover.png")
}

// Has reports whether the named file exists in the folder.
func (f Folder) Has(name string) bool {
	_, err := os.Stat(f.path(name))
	return err == nil
}

// readOptional returns nil data for a missing file.
func (f Folder) readOptional(name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (f Folder) write(name string, data []byte) error {
	if err := os.WriteFile(f.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// LoadContour reads contour.txt. A missing file is an empty contour.
func (f Folder) LoadContour() ([]geometry.Point2D, error) {
	data, err := f.readOptional(ContourFile)
	if err != nil {
		return nil, err
	}
	return contour.Parse(string(data)), nil
}

// SaveContour writes the contour text file.
func (f Folder) SaveContour(points []geometry.Point2D) error {
	return f.write(ContourFile, []byte(contour.Format(points)))
}

// LoadShapes reads shapes.json. A missing file is an empty collection.
func (f Folder) LoadShapes() (shapes.Collection, error) {
	data, err := f.readOptional(ShapesFile)
	if err != nil {
		return nil, err
	}
	c, err := shapes.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ShapesFile, err)
	}
	return c, nil
}

// SaveShapes writes the shape JSON file.
func (f Folder) SaveShapes(c shapes.Collection) error {
	data, err := shapes.Marshal(c)
	if err != nil {
		return err
	}
	return f.write(ShapesFile, data)
}

// LoadProperties reads properties.txt. A missing file has no properties.
func (f Folder) LoadProperties() (Properties, error) {
	data, err := f.readOptional(PropertiesFile)
	if err != nil {
		return nil, err
	}
	return ParseProperties(string(data)), nil
}

// SaveProperties writes the properties file.
func (f Folder) SaveProperties(p Properties) error {
	return f.write(PropertiesFile, []byte(p.String()))
}
