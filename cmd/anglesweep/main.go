// Command anglesweep prints the rotated bounding size and anchor offset of
// an overlay across a range of angles, and optionally the directive for
// each angle against a base image size.
package main

import (
	"flag"
	"fmt"
	"os"

	"foam-sizer/internal/overlay"
	"foam-sizer/pkg/geometry"
)

func main() {
	width := flag.Float64("w", 200, "Overlay width")
	height := flag.Float64("h", 100, "Overlay height")
	from := flag.Float64("from", -180, "First angle in degrees")
	to := flag.Float64("to", 180, "Last angle in degrees")
	step := flag.Float64("step", 15, "Angle step in degrees")
	baseW := flag.Float64("bw", 0, "Base image width; enables the directive columns")
	baseH := flag.Float64("bh", 0, "Base image height")
	scale := flag.Float64("scale", 1, "Overlay units per base pixel")
	flag.Parse()

	if *step <= 0 || *to < *from {
		fmt.Println("Usage: anglesweep [-w W -h H] [-from A -to B -step S] [-bw W -bh H -scale K]")
		os.Exit(1)
	}

	base := geometry.NewSize(*baseW, *baseH)
	fmt.Printf("%8s %9s %9s %8s %8s", "deg", "bbox w", "bbox h", "anchor x", "anchor y")
	if !base.IsZero() {
		fmt.Printf(" %11s %17s %9s", "final", "extend l,t,r,b", "crop l,t")
	}
	fmt.Println()

	for deg := *from; deg <= *to; deg += *step {
		b := overlay.RotatedBoundingSize(*height, *width, deg)
		a := overlay.AnchorOffset(*width, *height, deg)
		fmt.Printf("%8.1f %9.2f %9.2f %8d %8d", deg, b.Width, b.Height, a.X, a.Y)

		if base.IsZero() {
			fmt.Println()
			continue
		}
		// Anchored at the bounding box origin, the overlay just covers it.
		p := overlay.Placement{X: float64(a.X), Y: float64(a.Y), Width: *width, Height: *height, Rotation: deg}
		d, err := overlay.Compose(p, *scale, base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compose at %v: %v\n", deg, err)
			os.Exit(1)
		}
		e := d.Extend
		fmt.Printf(" %11s %17s %9s\n",
			fmt.Sprintf("%dx%d", d.FinalSize.Width, d.FinalSize.Height),
			fmt.Sprintf("%d,%d,%d,%d", e.Left, e.Top, e.Right, e.Bottom),
			fmt.Sprintf("%d,%d", d.Crop.Left, d.Crop.Top))
	}
}
