// Package cli wires the foam-sizer commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"foam-sizer/internal/app"
	"foam-sizer/internal/config"
	"foam-sizer/internal/logger"
	"foam-sizer/internal/version"

	"github.com/spf13/cobra"
)

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// env is shared by every command. The root pre-run fills cfg and installs
// the logger before any subcommand runs.
type env struct {
	configPath string
	debug      bool

	cfg     config.Config
	cleanup func() error
}

func run(args []string, stdout, stderr io.Writer) error {
	e := &env{}
	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	defer e.close()
	return cmd.Execute()
}

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "foam-sizer",
		Short:        "Trace tool outlines and size foam inserts",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVar(&e.debug, "debug", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&e.configPath, "config", config.DefaultPath(), "configuration file")

	cmd.AddCommand(
		newCmd(e),
		outlineCmd(e),
		cutoutCmd(e),
		traceCmd(e),
		symmetryCmd(e),
		composeCmd(e),
		cropCmd(e),
		checkCmd(e),
		versionCmd(),
	)
	return cmd
}

func (e *env) setup(stderr io.Writer) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	e.cfg = cfg

	cleanup, err := logger.Setup(logger.Config{
		Dir:    cfg.LogDir,
		Debug:  e.debug || cfg.Debug,
		Stderr: stderr,
	})
	if err != nil {
		return err
	}
	e.cleanup = cleanup
	logger.L().Debug("cli.config_loaded", "path", e.configPath, "base_dir", cfg.BaseDir)
	return nil
}

func (e *env) close() {
	if e.cleanup != nil {
		_ = e.cleanup()
		e.cleanup = nil
	}
}

// session opens dir as a project with the configured stage.
func (e *env) session(dir string) (*app.State, error) {
	s := app.NewState(e.cfg.StageSize())
	if err := s.LoadProject(dir); err != nil {
		return nil, err
	}
	return s, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
