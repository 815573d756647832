package cli

import (
	"encoding/json"
	"fmt"

	"foam-sizer/internal/overlay"
	"foam-sizer/internal/raster"
	"foam-sizer/pkg/geometry"

	"github.com/spf13/cobra"
)

func composeCmd(e *env) *cobra.Command {
	var (
		p       overlay.Placement
		scale   float64
		apply   bool
		backend string
	)

	c := &cobra.Command{
		Use:   "compose <dir>",
		Short: "Derive the directive that aligns the cover with the main image",
		Long: "Placement flags are in stage units. The directive is printed as JSON;\n" +
			"with --apply the cover is rendered into <name>_cover.png.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			s.SetPlacement(p)

			var d overlay.Directive
			if scale > 0 {
				d, err = overlay.Compose(p, scale, s.BaseSize())
			} else {
				d, err = s.Directive()
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(d); err != nil {
				return err
			}
			if !apply {
				return nil
			}

			b, err := raster.New(backendName(e, backend))
			if err != nil {
				return err
			}
			return s.ApplyDirective(b, d)
		},
	}

	c.Flags().Float64Var(&p.X, "x", 0, "Overlay anchor x")
	c.Flags().Float64Var(&p.Y, "y", 0, "Overlay anchor y")
	c.Flags().Float64Var(&p.Width, "width", 0, "Overlay width")
	c.Flags().Float64Var(&p.Height, "height", 0, "Overlay height")
	c.Flags().Float64Var(&p.Rotation, "rotation", 0, "Overlay rotation in degrees, clockwise")
	c.Flags().Float64Var(&scale, "scale", 0, "Stage units per image pixel (defaults to fitting the main image to the stage)")
	c.Flags().BoolVar(&apply, "apply", false, "Render the composed cover")
	c.Flags().StringVar(&backend, "backend", "", "Raster backend: opencv or go (defaults to raster.backend)")
	_ = c.MarkFlagRequired("width")
	_ = c.MarkFlagRequired("height")
	return c
}

func cropCmd(e *env) *cobra.Command {
	var (
		r        geometry.RectInt
		rotation float64
		widthMM  string
		heightMM string
		backend  string
	)

	c := &cobra.Command{
		Use:   "crop <dir>",
		Short: "Rotate and crop the cover, recording its physical size",
		Long: "The rectangle is in pixels of the rotated cover. A physical width or\n" +
			"height left empty is derived from the crop's aspect ratio.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := overlay.NewCropRequest(r, rotation)
			if err != nil {
				return err
			}
			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			b, err := raster.New(backendName(e, backend))
			if err != nil {
				return err
			}
			if err := s.CropCover(b, req, widthMM, heightMM); err != nil {
				return err
			}
			f, err := s.Folder()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f.ComposedPath())
			return err
		},
	}

	c.Flags().IntVar(&r.X, "left", 0, "Crop left edge")
	c.Flags().IntVar(&r.Y, "top", 0, "Crop top edge")
	c.Flags().IntVar(&r.Width, "width", 0, "Crop width")
	c.Flags().IntVar(&r.Height, "height", 0, "Crop height")
	c.Flags().Float64Var(&rotation, "rotation", 0, "Rotation applied before cropping, in degrees")
	c.Flags().StringVar(&widthMM, "mm-width", "", "Physical width to record")
	c.Flags().StringVar(&heightMM, "mm-height", "", "Physical height to record")
	c.Flags().StringVar(&backend, "backend", "", "Raster backend: opencv or go (defaults to raster.backend)")
	return c
}

func backendName(e *env, flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.Raster.Backend
}
