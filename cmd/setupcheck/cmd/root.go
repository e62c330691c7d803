// Package cmd provides the CLI commands for setupcheck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/setupcheck/internal/config"
	apperrors "github.com/Aman-CERP/setupcheck/internal/errors"
	"github.com/Aman-CERP/setupcheck/internal/logging"
	"github.com/Aman-CERP/setupcheck/internal/output"
	"github.com/Aman-CERP/setupcheck/internal/preflight"
	"github.com/Aman-CERP/setupcheck/pkg/version"
)

// ErrVerificationFailed is returned when at least one check failed. The
// summary has already been printed.
var ErrVerificationFailed = errors.New("verification failed")

// notifyContext is signal.NotifyContext, replaceable in tests.
var notifyContext = signal.NotifyContext

// globalOptions are the flags shared by the root command and config.
type globalOptions struct {
	dir        string
	configPath string
	debug      bool
}

// NewRootCmd creates the root command for the setupcheck CLI.
func NewRootCmd() *cobra.Command {
	var (
		global  globalOptions
		python  string
		noColor bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "setupcheck",
		Short: "Verify that a deployment is ready to run",
		Long: `setupcheck verifies a deployment before it is launched.

It checks, in order:
  1. Python Version       the interpreter is 3.8 or newer
  2. Dependencies         every required module can be imported
  3. Files & Directories  expected paths exist
  4. Application Syntax   the entry file compiles
  5. Data Files           required data files exist

The exit status is 0 when every check passes and 1 otherwise.
Nothing is modified.`,
		Example: `  # Verify the deployment in the current directory
  setupcheck

  # Verify another checkout with a specific interpreter
  setupcheck --dir /srv/planner --python python3.11`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, err := loadManifest(global)
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return apperrors.ErrInterrupted
			}
			if python != "" {
				m.Interpreter.Command = python
			}
			return runVerify(ctx, cmd, m, global.dir, noColor, verbose)
		},
	}

	cmd.SetVersionTemplate("setupcheck version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&global.dir, "dir", ".", "Deployment root to verify")
	cmd.PersistentFlags().StringVar(&global.configPath, "config", "", "Manifest file (default: <dir>/.setupcheck.yaml when present)")
	cmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "Enable debug logging to stderr")

	cmd.Flags().StringVar(&python, "python", "", "Interpreter command (default: python3)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the reason under each failing line")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(&global))

	return cmd
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

// loadManifest loads the manifest for the flags in opts.
func loadManifest(opts globalOptions) (*config.Manifest, error) {
	m, err := config.Load(opts.dir, opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		m.LogLevel = "debug"
	}
	return m, nil
}

func runVerify(ctx context.Context, cmd *cobra.Command, m *config.Manifest, dir string, noColor, verbose bool) error {
	logger := logging.Setup(logging.Config{Level: m.LogLevel, Output: cmd.ErrOrStderr()})
	logger.Debug("verification starting",
		slog.String("dir", dir),
		slog.String("interpreter", m.Interpreter.Command),
		slog.String("version", version.Version))

	out := cmd.OutOrStdout()
	w := output.NewWithColor(out, output.ShouldUseColor(out, noColor))

	checker := preflight.New(m,
		preflight.WithRoot(dir),
		preflight.WithWriter(w),
		preflight.WithVerbose(verbose),
		preflight.WithLogger(logger),
	)

	report, err := checker.Verify(ctx)
	if err != nil {
		return err
	}
	if !report.AllPassed() {
		return ErrVerificationFailed
	}
	return nil
}

// reportError prints err for the user. A failed verification prints
// nothing more since its summary is already on stdout.
func reportError(w io.Writer, err error) {
	switch {
	case errors.Is(err, ErrVerificationFailed):
	case apperrors.IsInterrupted(err):
		_, _ = fmt.Fprintln(w, "\n\nVerification cancelled by user.")
	case apperrors.GetCode(err) == apperrors.ErrCodeInternal:
		_, _ = fmt.Fprintf(w, "\nUnexpected error during verification: %s\n", apperrors.FormatDetail(err))
	case apperrors.GetCode(err) != "":
		_, _ = fmt.Fprint(w, apperrors.FormatForCLI(err))
	default:
		_, _ = fmt.Fprintf(w, "Error: %s\nRun 'setupcheck --help' for usage.\n", err)
	}
}
