// Package analysis produces contour points from images, either in process
// with OpenCV or by running an external tracer command.
package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"slices"
	"sync/atomic"

	"foam-sizer/internal/contour"
	"foam-sizer/internal/logger"
	"foam-sizer/pkg/geometry"
)

// Tracer turns an image into a stream of contour points.
type Tracer interface {
	Trace(ctx context.Context, imagePath string) (*Stream, error)
}

// Stream is a single-pass sequence of points read line by line from a
// backend. Malformed lines are skipped.
type Stream struct {
	r       io.Reader
	wait    func() error
	used    atomic.Bool
	scanErr error
	skipped int
}

// NewStream reads "x,y" lines from r. wait, if set, is called by Wait after
// r has been drained.
func NewStream(r io.Reader, wait func() error) *Stream {
	return &Stream{r: r, wait: wait}
}

// Points yields each parsed point as soon as its line arrives. Only the
// first range over the sequence sees any points.
func (s *Stream) Points() iter.Seq[geometry.PointInt] {
	return func(yield func(geometry.PointInt) bool) {
		if !s.used.CompareAndSwap(false, true) {
			return
		}
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			p, ok := contour.ParseLine(sc.Text())
			if !ok {
				s.skipped++
				continue
			}
			if !yield(p) {
				return
			}
		}
		s.scanErr = sc.Err()
	}
}

// Wait discards whatever the consumer did not read and reports the
// backend's exit status along with any read error.
func (s *Stream) Wait() error {
	_, _ = io.Copy(io.Discard, s.r)
	var err error
	if s.wait != nil {
		err = s.wait()
	}
	if s.skipped > 0 {
		logger.L().Debug("analysis.skipped_lines", "count", s.skipped)
	}
	return errors.Join(s.scanErr, err)
}

// Collect ranges the whole stream and waits for the backend.
func (s *Stream) Collect() ([]geometry.PointInt, error) {
	points := slices.Collect(s.Points())
	if err := s.Wait(); err != nil {
		return points, err
	}
	return points, nil
}

// ProcessTracer runs an external command with the image path appended to
// Args and reads points from its standard output.
type ProcessTracer struct {
	Command string
	Args    []string
}

// Trace starts the tracer process. Wait on the stream reaps it.
func (t ProcessTracer) Trace(ctx context.Context, imagePath string) (*Stream, error) {
	if t.Command == "" {
		return nil, errors.New("tracer command not configured")
	}
	args := append(slices.Clone(t.Args), imagePath)
	cmd := exec.CommandContext(ctx, t.Command, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("tracer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start tracer %s: %w", t.Command, err)
	}
	logger.L().Debug("analysis.tracer_started", "cmd", t.Command, "image", imagePath, "pid", cmd.Process.Pid)

	return NewStream(stdout, func() error {
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("tracer %s: %w", t.Command, err)
		}
		return nil
	}), nil
}
