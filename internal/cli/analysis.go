package cli

import (
	"fmt"
	"io"

	"foam-sizer/internal/analysis"
	"foam-sizer/internal/config"
	"foam-sizer/internal/contour"
	"foam-sizer/internal/logger"
	"foam-sizer/internal/project"

	"github.com/spf13/cobra"
)

// tracerFor returns the external tracer when one is configured and the
// in-process detector otherwise.
func tracerFor(cfg config.Config) analysis.Tracer {
	if cfg.Tracer.Command != "" {
		return analysis.ProcessTracer{Command: cfg.Tracer.Command, Args: cfg.Tracer.Args}
	}
	return analysis.CVTracer{Params: analysis.DefaultOutlineParams()}
}

func outlineCmd(_ *env) *cobra.Command {
	p := analysis.DefaultOutlineParams()

	c := &cobra.Command{
		Use:   "outline <image>",
		Short: "Detect an object's outline and print it as x,y lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pts, err := analysis.DetectOutlineFile(args[0], p)
			if err != nil {
				return err
			}
			return writePoints(cmd.OutOrStdout(), contour.FromInts(pts))
		},
	}

	c.Flags().IntVar(&p.BlurSize, "blur", p.BlurSize, "Gaussian blur kernel size (odd)")
	c.Flags().IntVar(&p.BlockSize, "block", p.BlockSize, "Adaptive threshold block size (odd)")
	c.Flags().Float32Var(&p.C, "c", p.C, "Constant subtracted from the threshold mean")
	c.Flags().IntVar(&p.CloseSize, "close", p.CloseSize, "Morphological closing kernel size")
	c.Flags().Float64Var(&p.EpsilonFactor, "epsilon", p.EpsilonFactor, "Polygon simplification as a fraction of the perimeter")
	return c
}

func writePoints(w io.Writer, c contour.Contour) error {
	if c.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, contour.Format(c.Points))
	return err
}

func traceCmd(e *env) *cobra.Command {
	var (
		axis       float64
		detectAxis bool
	)

	c := &cobra.Command{
		Use:   "trace <dir>",
		Short: "Trace the contour of a project's main image and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			f, err := s.Folder()
			if err != nil {
				return err
			}

			switch {
			case detectAxis:
				x, err := analysis.DetectSymmetryAxisFile(f.MainPath(), e.cfg.Symmetry.SearchRadius)
				if err != nil {
					return err
				}
				s.SetAxis(contour.AxisAt(float64(x)))
			case cmd.Flags().Changed("axis"):
				s.SetAxis(contour.AxisAt(axis))
			}

			if err := s.TraceContour(cmd.Context(), tracerFor(e.cfg)); err != nil {
				return err
			}
			if err := s.SaveProject(); err != nil {
				return err
			}

			ct := s.Contour()
			logger.L().Info("cli.traced", "dir", f.Dir, "points", ct.Len(), "symmetric", ct.Symmetric())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d points written to %s\n", ct.Len(), f.ContourPath())
			return err
		},
	}

	c.Flags().Float64Var(&axis, "axis", 0, "Mirror the contour about this column")
	c.Flags().BoolVar(&detectAxis, "detect-axis", false, "Detect the symmetry axis of "+project.MainImage+" first")
	c.MarkFlagsMutuallyExclusive("axis", "detect-axis")
	return c
}

func symmetryCmd(e *env) *cobra.Command {
	var radius int

	c := &cobra.Command{
		Use:   "symmetry <dir>",
		Short: "Detect the vertical symmetry axis of a project's main image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := project.Open(args[0])
			if err != nil {
				return err
			}
			if radius <= 0 {
				radius = e.cfg.Symmetry.SearchRadius
			}
			x, err := analysis.DetectSymmetryAxisFile(f.MainPath(), radius)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), x)
			return err
		},
	}

	c.Flags().IntVar(&radius, "radius", 0, "Columns searched either side of the centre (defaults to symmetry.search_radius)")
	return c
}

func cutoutCmd(_ *env) *cobra.Command {
	return &cobra.Command{
		Use:   "cutout <image> <out.png>",
		Short: "Make the white background around an object transparent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := analysis.RemoveBackgroundFile(args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), args[1])
			return err
		},
	}
}
