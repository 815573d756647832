package cli

import (
	"fmt"
	"time"

	"foam-sizer/internal/project"

	"github.com/spf13/cobra"
)

func newCmd(e *env) *cobra.Command {
	var baseDir string

	c := &cobra.Command{
		Use:   "new",
		Short: "Create an empty project folder named after the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseDir == "" {
				baseDir = e.cfg.BaseDir
			}
			f, err := project.Create(baseDir, time.Now(), e.cfg.PropertiesTemplate)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f.Dir)
			return err
		},
	}

	c.Flags().StringVar(&baseDir, "base-dir", "", "Parent directory (defaults to base_dir from the config)")
	return c
}

func checkCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "List shapes whose centre lies outside the contour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			keys := s.OutsideShapes()
			if len(keys) == 0 {
				_, err = fmt.Fprintln(out, "OK")
				return err
			}
			for _, k := range keys {
				if _, err := fmt.Fprintf(out, "shape %d is outside the contour\n", k); err != nil {
					return err
				}
			}
			return fmt.Errorf("%d shape(s) outside the contour", len(keys))
		},
	}
}
