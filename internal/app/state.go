// Package app holds the editing session: the open project folder, its
// contour, shapes and overlay placement, and the events fired when they
// change.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"foam-sizer/internal/analysis"
	"foam-sizer/internal/contour"
	fsimage "foam-sizer/internal/image"
	"foam-sizer/internal/logger"
	"foam-sizer/internal/overlay"
	"foam-sizer/internal/project"
	"foam-sizer/internal/raster"
	"foam-sizer/internal/shapes"
	"foam-sizer/pkg/geometry"
)

// ErrNoProject is returned by operations that need an open project folder.
var ErrNoProject = errors.New("no project open")

// EventType identifies different session events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventContourChanged
	EventShapesChanged
	EventOverlayChanged
	EventComposed
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data any)

// DefaultStage is the size of the editing canvas in canvas units.
var DefaultStage = geometry.NewSize(700, 700)

// State is the session owned by the interactive controller. Edits go
// through its methods so listeners see every change.
type State struct {
	mu sync.RWMutex

	folder    project.Folder
	hasFolder bool
	modified  bool

	contour   contour.Contour
	shapes    shapes.Collection
	placement overlay.Placement

	// Natural sizes in pixels; zero until the image is known.
	baseSize  geometry.Size
	coverSize geometry.Size
	stage     geometry.Size

	listeners map[EventType][]EventListener
}

// NewState creates an empty session for a stage of the given size.
func NewState(stage geometry.Size) *State {
	if stage.IsZero() {
		stage = DefaultStage
	}
	return &State{
		stage:     stage,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data any) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *State) setModified() {
	s.mu.Lock()
	changed := !s.modified
	s.modified = true
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, true)
	}
}

// Modified reports whether there are unsaved edits.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Folder returns the open project folder.
func (s *State) Folder() (project.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasFolder {
		return project.Folder{}, ErrNoProject
	}
	return s.folder, nil
}

// LoadProject opens dir and reads its contour, shapes and image sizes.
// Missing files leave the corresponding part empty. The overlay starts at
// the stage origin, showing the cover at its natural size scaled like the
// base image.
func (s *State) LoadProject(dir string) error {
	f, err := project.Open(dir)
	if err != nil {
		return err
	}
	points, err := f.LoadContour()
	if err != nil {
		return err
	}
	c, err := f.LoadShapes()
	if err != nil {
		return err
	}

	var base, cover geometry.Size
	if f.Has(project.MainImage) {
		if base, err = fsimage.NaturalSize(f.MainPath()); err != nil {
			return err
		}
	}
	if f.Has(project.CoverImage) {
		if cover, err = fsimage.NaturalSize(f.CoverPath()); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.folder = f
	s.hasFolder = true
	s.modified = false
	s.contour = contour.New(points).WithAxis(s.contour.Axis)
	s.shapes = c
	s.baseSize = base
	s.coverSize = cover
	scale := overlay.ScaleToFit(base, s.stage)
	s.placement = overlay.Placement{Width: cover.Width * scale, Height: cover.Height * scale}
	s.mu.Unlock()

	logger.L().Info("app.project_loaded", "dir", f.Dir, "points", len(points), "shapes", len(c), "base", base, "cover", cover)
	s.Emit(EventProjectLoaded, f.Dir)
	return nil
}

// SaveProject writes the contour and shapes back to the folder.
func (s *State) SaveProject() error {
	s.mu.RLock()
	f, ok := s.folder, s.hasFolder
	points := s.contour.Points
	c := s.shapes
	s.mu.RUnlock()
	if !ok {
		return ErrNoProject
	}

	if err := f.SaveContour(points); err != nil {
		return err
	}
	if err := f.SaveShapes(c); err != nil {
		return err
	}

	s.mu.Lock()
	s.modified = false
	s.mu.Unlock()
	s.Emit(EventProjectSaved, f.Dir)
	return nil
}

// Contour returns the current contour.
func (s *State) Contour() contour.Contour {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contour
}

// editContour applies fn to the current contour under the write lock so
// concurrent edits are not lost.
func (s *State) editContour(fn func(contour.Contour) (contour.Contour, error)) error {
	s.mu.Lock()
	next, err := fn(s.contour)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.contour = next
	s.mu.Unlock()
	s.setModified()
	s.Emit(EventContourChanged, next)
	return nil
}

// InsertPoint adds p to the contour on the edge it belongs to.
func (s *State) InsertPoint(p geometry.Point2D) {
	_ = s.editContour(func(c contour.Contour) (contour.Contour, error) {
		return c.Insert(p), nil
	})
}

// MovePoint relocates point i.
func (s *State) MovePoint(i int, p geometry.Point2D) error {
	return s.editContour(func(c contour.Contour) (contour.Contour, error) {
		return c.Move(i, p)
	})
}

// RemovePoint deletes point i.
func (s *State) RemovePoint(i int) error {
	return s.editContour(func(c contour.Contour) (contour.Contour, error) {
		return c.Remove(i)
	})
}

// SetAxis enables or disables symmetry.
func (s *State) SetAxis(a contour.Axis) {
	_ = s.editContour(func(c contour.Contour) (contour.Contour, error) {
		return c.WithAxis(a), nil
	})
}

// SetContourPoints replaces the outline, re-symmetrizing it when an axis
// is active.
func (s *State) SetContourPoints(points []geometry.Point2D) {
	_ = s.editContour(func(c contour.Contour) (contour.Contour, error) {
		return contour.New(points).WithAxis(c.Axis), nil
	})
}

// TraceContour replaces the contour with one traced from the base image.
func (s *State) TraceContour(ctx context.Context, tracer analysis.Tracer) error {
	f, err := s.Folder()
	if err != nil {
		return err
	}
	stream, err := tracer.Trace(ctx, f.MainPath())
	if err != nil {
		return fmt.Errorf("trace contour: %w", err)
	}
	traced, err := stream.Collect()
	if err != nil {
		return fmt.Errorf("trace contour: %w", err)
	}
	s.SetContourPoints(contour.FromInts(traced).Points)
	logger.L().Info("app.contour_traced", "points", len(traced))
	return nil
}

// Shapes returns the current shape collection.
func (s *State) Shapes() shapes.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shapes
}

// EditShapes applies fn to the shape collection.
func (s *State) EditShapes(fn func(shapes.Collection) (shapes.Collection, error)) error {
	s.mu.Lock()
	next, err := fn(s.shapes)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.shapes = next
	s.mu.Unlock()
	s.setModified()
	s.Emit(EventShapesChanged, next)
	return nil
}

// AddRect adds a default rectangle and returns its key.
func (s *State) AddRect() int {
	var key int
	_ = s.EditShapes(func(c shapes.Collection) (shapes.Collection, error) {
		var next shapes.Collection
		next, key = c.AddRect()
		return next, nil
	})
	return key
}

// AddCircle adds a default circle and returns its key.
func (s *State) AddCircle() int {
	var key int
	_ = s.EditShapes(func(c shapes.Collection) (shapes.Collection, error) {
		var next shapes.Collection
		next, key = c.AddCircle()
		return next, nil
	})
	return key
}

// OutsideShapes returns the keys of shapes whose centre is outside the
// contour.
func (s *State) OutsideShapes() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shapes.Outside(s.contour)
}

// Placement returns the overlay placement in canvas units.
func (s *State) Placement() overlay.Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placement
}

// SetPlacement records the overlay placement after a drag, resize or rotate.
func (s *State) SetPlacement(p overlay.Placement) {
	s.mu.Lock()
	s.placement = p
	s.mu.Unlock()
	s.setModified()
	s.Emit(EventOverlayChanged, p)
}

// SetBaseSize overrides the natural size of the base image, for sessions
// without a main.png on disk.
func (s *State) SetBaseSize(size geometry.Size) {
	s.mu.Lock()
	s.baseSize = size
	s.mu.Unlock()
}

// BaseSize returns the natural size of the base image.
func (s *State) BaseSize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseSize
}

// CoverSize returns the natural size of the cover image.
func (s *State) CoverSize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coverSize
}

// ImageScale is the number of canvas units per base-image pixel.
func (s *State) ImageScale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return overlay.ScaleToFit(s.baseSize, s.stage)
}

// Directive derives the raster directive for the current placement. It
// returns overlay.ErrNotReady until the base image size is known.
func (s *State) Directive() (overlay.Directive, error) {
	s.mu.RLock()
	p, base := s.placement, s.baseSize
	scale := overlay.ScaleToFit(base, s.stage)
	s.mu.RUnlock()
	return overlay.Compose(p, scale, base)
}

// ComposeCover renders the cover aligned to the base image into the
// folder's composed output.
func (s *State) ComposeCover(backend raster.Backend) error {
	d, err := s.Directive()
	if err != nil {
		return err
	}
	return s.ApplyDirective(backend, d)
}

// ApplyDirective renders the cover into the composed output with an
// already derived directive.
func (s *State) ApplyDirective(backend raster.Backend, d overlay.Directive) error {
	f, err := s.Folder()
	if err != nil {
		return err
	}
	job := raster.ComposeJob{SourcePath: f.CoverPath(), DestPath: f.ComposedPath(), Directive: d}
	if err := backend.Compose(job); err != nil {
		return fmt.Errorf("compose cover: %w", err)
	}
	logger.L().Info("app.cover_composed", "dest", job.DestPath, "final", d.FinalSize, "crop", d.Crop)
	s.Emit(EventComposed, job.DestPath)
	return nil
}

// CropCover crops and rotates the cover into the composed output and
// records the physical size in the properties. width and height are the
// user's entries and may be empty; a missing one is derived from the crop
// aspect ratio.
func (s *State) CropCover(backend raster.Backend, req overlay.CropRequest, width, height string) error {
	f, err := s.Folder()
	if err != nil {
		return err
	}
	job := raster.CropJob{SourcePath: f.CoverPath(), DestPath: f.ComposedPath(), Request: req}
	if err := backend.Crop(job); err != nil {
		return fmt.Errorf("crop cover: %w", err)
	}

	props, err := f.LoadProperties()
	if err != nil {
		return err
	}
	if height != "" {
		props = props.Set(project.KeyHeight, height)
	}
	if width != "" {
		props = props.Set(project.KeyWidth, width)
	}
	props = props.FillDimensions(req.Width, req.Height)
	if err := f.SaveProperties(props); err != nil {
		return err
	}
	s.Emit(EventComposed, job.DestPath)
	return nil
}
